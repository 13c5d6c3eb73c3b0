package errors

// ErrorCode represents a standardized way to categorize different types of errors,
// so callers can branch on failure kind programmatically instead of parsing messages.
type ErrorCode string

// Base error codes cover fundamental failure categories that can occur in any
// layer of the engine.
const (
	// ErrorCodeIO represents failures in input/output operations: segment file
	// reads/writes, directory creation, socket I/O.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side configuration errors where
	// a provided option or flag doesn't meet the system's constraints.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected failures that don't fit any
	// other category: bugs, assertion failures, invariant violations.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Engine-specific error codes cover the unique failure modes of the
// log-structured storage engine and its wire codec.
const (
	// ErrorCodeInvalidCommand means a decoded record was not an allowed
	// command variant at this position (e.g. a Get record persisted in a
	// segment, or replay encountering anything but Set/Remove).
	ErrorCodeInvalidCommand ErrorCode = "INVALID_COMMAND"

	// ErrorCodeKeyNotFound means remove was called on an absent key. A get
	// for an absent key is not an error; it reports found == false.
	ErrorCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"

	// ErrorCodeSerializer means the codec refused to parse a record or
	// envelope value.
	ErrorCodeSerializer ErrorCode = "SERIALIZER_ERROR"

	// ErrorCodeIncomplete means a protocol-framing read ended before a full
	// record was available on the stream.
	ErrorCodeIncomplete ErrorCode = "INCOMPLETE"

	// ErrorCodeInvalidFormat means bytes on the wire didn't match the
	// expected envelope shape.
	ErrorCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// ErrorCodeTypeConversion means an integer or length conversion failed
	// while decoding a record.
	ErrorCodeTypeConversion ErrorCode = "TYPE_CONVERSION"

	// ErrorCodeUtf8 means a byte sequence was not valid UTF-8 where a string
	// was expected.
	ErrorCodeUtf8 ErrorCode = "UTF8_ERROR"

	// ErrorCodePermissionDenied indicates insufficient permissions to access
	// the data directory or a segment file.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates the storage device ran out of space while
	// appending to or compacting a segment.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeEngineMismatch indicates the on-disk "engine" sanity file
	// names a different engine than the one being opened.
	ErrorCodeEngineMismatch ErrorCode = "ENGINE_MISMATCH"
)
