package options

const (
	// DefaultDataDir is the base directory where ignite stores its segment
	// files if no other directory is specified.
	DefaultDataDir = "/var/lib/ignitedb"

	// DefaultCompactThreshold is the number of wasted bytes that triggers a
	// compaction. 16 MiB sits inside the 8 MiB-100 MiB band the reference
	// implementation's revisions have used.
	DefaultCompactThreshold uint64 = 16 * 1024 * 1024

	// MinCompactThreshold is the smallest threshold accepted by
	// WithCompactThreshold; below this, compaction would run so often it
	// would dominate write latency.
	MinCompactThreshold uint64 = 64 * 1024

	// DefaultEngineName is recorded in the data directory's "engine" sanity
	// file when none is otherwise specified.
	DefaultEngineName = "native"

	// DefaultPoolSize is the number of workers in the TCP server's pool.
	DefaultPoolSize = 8
)

// defaultOptions holds the default configuration for an ignite instance.
var defaultOptions = Options{
	DataDir:          DefaultDataDir,
	CompactThreshold: DefaultCompactThreshold,
	EngineName:       DefaultEngineName,
	PoolSize:         DefaultPoolSize,
}

// NewDefaultOptions returns a copy of the default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
