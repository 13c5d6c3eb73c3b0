package wire

import (
	"encoding/json"
	"io"
)

// Stream decodes a sequence of self-delimiting values of type T from a
// byte stream, one value per call, reporting the cumulative number of
// bytes consumed so far. It backs both segment replay (T = Command) and the
// network envelope streams (T = Request on the server, T = Response on the
// client): json.Decoder.Decode consumes exactly one JSON value per call and
// needs no outer framing, and InputOffset reports the byte position just
// past that value. Whitespace between values (such as the newline Encode
// appends) is counted with the value that follows it.
type Stream[T any] struct {
	dec *json.Decoder
}

// NewStream wraps r for streaming decode.
func NewStream[T any](r io.Reader) *Stream[T] {
	return &Stream[T]{dec: json.NewDecoder(r)}
}

// Next decodes the next value. It returns io.EOF when the stream is
// exhausted with no partial value pending.
func (s *Stream[T]) Next() (T, error) {
	var v T
	err := s.dec.Decode(&v)
	return v, err
}

// Offset reports the number of bytes consumed from the underlying reader so
// far, including the value just returned by the most recent Next call.
// Whitespace after that value is not included until the next call consumes it.
func (s *Stream[T]) Offset() int64 {
	return s.dec.InputOffset()
}

// Encode writes v to w as a single self-delimiting value.
func Encode[T any](w io.Writer, v T) error {
	return json.NewEncoder(w).Encode(v)
}
