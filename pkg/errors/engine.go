package errors

// EngineError is a specialized error type for failures originating in the
// storage engine: segment I/O, index lookups, codec decoding, and
// compaction. It embeds baseError to inherit chaining, code, and detail
// support, and adds the location context needed to pinpoint exactly which
// key, segment, and byte offset were involved.
type EngineError struct {
	*baseError

	key        string // Key being processed when the error occurred, if any.
	generation uint64 // Segment generation involved in the error.
	offset     uint64 // Byte offset within the segment where the problem happened.
	operation  string // Engine operation in progress ("Get", "Set", "Remove", "Compact", "Replay").
	fileName   string // Name of the segment file involved.
	path       string // Full path of the segment file involved.
}

// NewEngineError creates a new engine-specific error.
func NewEngineError(err error, code ErrorCode, msg string) *EngineError {
	return &EngineError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while preserving the EngineError type.
func (ee *EngineError) WithMessage(msg string) *EngineError {
	ee.baseError.WithMessage(msg)
	return ee
}

// WithCode sets the error code while preserving the EngineError type.
func (ee *EngineError) WithCode(code ErrorCode) *EngineError {
	ee.baseError.WithCode(code)
	return ee
}

// WithDetail adds contextual information while preserving the EngineError type.
func (ee *EngineError) WithDetail(key string, value any) *EngineError {
	ee.baseError.WithDetail(key, value)
	return ee
}

// WithKey records which key was being processed when the error occurred.
func (ee *EngineError) WithKey(key string) *EngineError {
	ee.key = key
	return ee
}

// WithGeneration captures which segment generation was involved.
func (ee *EngineError) WithGeneration(generation uint64) *EngineError {
	ee.generation = generation
	return ee
}

// WithOffset records the byte position within the segment where the error happened.
func (ee *EngineError) WithOffset(offset uint64) *EngineError {
	ee.offset = offset
	return ee
}

// WithOperation records which engine operation was in progress.
func (ee *EngineError) WithOperation(operation string) *EngineError {
	ee.operation = operation
	return ee
}

// WithFileName captures which segment file was being processed.
func (ee *EngineError) WithFileName(fileName string) *EngineError {
	ee.fileName = fileName
	return ee
}

// WithPath captures the full path of the segment file being processed.
func (ee *EngineError) WithPath(path string) *EngineError {
	ee.path = path
	return ee
}

// Key returns the key that was being processed when the error occurred.
func (ee *EngineError) Key() string { return ee.key }

// Generation returns the segment generation associated with the error.
func (ee *EngineError) Generation() uint64 { return ee.generation }

// Offset returns the byte offset within the segment where the error happened.
func (ee *EngineError) Offset() uint64 { return ee.offset }

// Operation returns the name of the engine operation in progress.
func (ee *EngineError) Operation() string { return ee.operation }

// FileName returns the name of the segment file involved.
func (ee *EngineError) FileName() string { return ee.fileName }

// Path returns the full path of the segment file involved.
func (ee *EngineError) Path() string { return ee.path }

// NewKeyNotFoundError creates the specific error remove() and the client
// stub return when a key has no entry.
func NewKeyNotFoundError(key string) *EngineError {
	return NewEngineError(nil, ErrorCodeKeyNotFound, "key not found").
		WithKey(key).
		WithOperation("Remove")
}

// NewInvalidCommandError creates the error replay and get() return when a
// decoded record isn't an allowed variant at that position.
func NewInvalidCommandError(msg string, generation uint64, offset uint64) *EngineError {
	return NewEngineError(nil, ErrorCodeInvalidCommand, msg).
		WithGeneration(generation).
		WithOffset(offset)
}
