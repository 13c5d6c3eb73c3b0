// Package options provides data structures and functions for configuring
// the ignite engine and server. It defines the parameters that control
// where data lives on disk, when compaction runs, what sanity name is
// recorded in the data directory, and how the TCP server's worker pool is
// sized.
package options

import "strings"

// Options defines the configuration parameters for an ignite engine or
// server instance.
type Options struct {
	// DataDir is the base path where segment files and the engine sanity
	// file are stored.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// CompactThreshold is the number of wasted bytes ("wild" bytes, see the
	// engine package) that, once exceeded, triggers a compaction.
	//
	// Default: 16 MiB
	CompactThreshold uint64 `json:"compactThreshold"`

	// EngineName is recorded in the data directory's "engine" sanity file
	// and checked against on every Open; a mismatch fails startup.
	//
	// Default: "native"
	EngineName string `json:"engineName"`

	// PoolSize is the number of workers in the TCP server's worker pool.
	//
	// Default: 8
	PoolSize int `json:"poolSize"`
}

// OptionFunc is a function type that modifies the engine's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions resets every field to its default value.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithDataDir sets the primary data directory for the engine.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithCompactThreshold sets the wasted-byte threshold that triggers
// compaction. Values below MinCompactThreshold are ignored.
func WithCompactThreshold(threshold uint64) OptionFunc {
	return func(o *Options) {
		if threshold >= MinCompactThreshold {
			o.CompactThreshold = threshold
		}
	}
}

// WithEngineName sets the engine name recorded in, and checked against,
// the data directory's sanity file.
func WithEngineName(name string) OptionFunc {
	return func(o *Options) {
		name = strings.TrimSpace(name)
		if name != "" {
			o.EngineName = name
		}
	}
}

// WithPoolSize sets the TCP server's worker pool size. Values below 1 are
// ignored.
func WithPoolSize(size int) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.PoolSize = size
		}
	}
}
