// Package wire implements the self-delimiting codec shared by the on-disk
// segment format and the network request/response envelopes, along with the
// positioned reader/writer pair that tracks exact byte offsets across a
// buffered file handle.
package wire

// Kind tags which of the three command variants a record or envelope carries.
type Kind string

const (
	// KindSet is a durable write of a value for a key.
	KindSet Kind = "set"
	// KindRemove is a tombstone for a key. Removes are persisted so replay
	// can tell a deleted key from one that was never written.
	KindRemove Kind = "remove"
	// KindGet never reaches disk; it only appears on the wire as a request.
	KindGet Kind = "get"
)

// Command is a single log record: a Set or a Remove. Segments are a
// concatenation of encoded Commands with no outer framing; the decoder
// consumes exactly one Command per call and reports how many bytes it read.
type Command struct {
	Kind  Kind   `json:"kind"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// SetCommand builds the record appended by a durable write.
func SetCommand(key, value string) Command {
	return Command{Kind: KindSet, Key: key, Value: value}
}

// RemoveCommand builds the tombstone record appended by a remove.
func RemoveCommand(key string) Command {
	return Command{Kind: KindRemove, Key: key}
}
