package wire

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
)

// PosWriter wraps a file opened for append with a buffered writer and a
// byte-position counter. Because the on-disk format carries no outer
// framing, the only way to know where a record starts and ends is to ask
// the writer where it is before and after encoding it.
type PosWriter struct {
	w   *bufio.Writer
	f   *os.File
	pos uint64
}

// NewPosWriter seeks f to its current end and wraps it for append-only
// framed writes.
func NewPosWriter(f *os.File) (*PosWriter, error) {
	pos, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	return &PosWriter{w: bufio.NewWriter(f), f: f, pos: uint64(pos)}, nil
}

// Write implements io.Writer, advancing pos by the number of bytes
// successfully buffered.
func (pw *PosWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.pos += uint64(n)
	return n, err
}

// Flush pushes buffered bytes to the kernel. pos reflects buffered writes
// immediately, but the bytes are only durable after Flush returns.
func (pw *PosWriter) Flush() error {
	return pw.w.Flush()
}

// Pos returns the current write offset.
func (pw *PosWriter) Pos() uint64 {
	return pw.pos
}

// Close flushes and closes the underlying file.
func (pw *PosWriter) Close() error {
	if err := pw.w.Flush(); err != nil {
		pw.f.Close()
		return err
	}
	return pw.f.Close()
}

// WriteCommand encodes cmd, flushes it, and returns the exact byte range
// [start, end) it occupies in the file. This is the single framed write
// the rest of the system relies on to record an OffSet.
func (pw *PosWriter) WriteCommand(cmd Command) (start, end uint64, err error) {
	start = pw.pos
	if err := json.NewEncoder(pw).Encode(cmd); err != nil {
		return 0, 0, err
	}
	if err := pw.Flush(); err != nil {
		return 0, 0, err
	}
	return start, pw.pos, nil
}

// PosReader wraps a file opened read-only for positioned, offset-addressed
// reads of framed records.
type PosReader struct {
	f *os.File
}

// NewPosReader seeks f to its start and wraps it for positioned reads.
func NewPosReader(f *os.File) (*PosReader, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &PosReader{f: f}, nil
}

// ReadCommandAt reads exactly length bytes starting at start and decodes
// them as a single Command. Using ReadAt rather than Seek+Read means
// concurrent reads against the same *os.File never race on a shared cursor.
func (pr *PosReader) ReadCommandAt(start, length uint64) (Command, error) {
	buf := make([]byte, length)
	if _, err := pr.f.ReadAt(buf, int64(start)); err != nil {
		return Command{}, err
	}
	var cmd Command
	if err := json.Unmarshal(buf, &cmd); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// File exposes the underlying file handle for callers (segment replay,
// compaction) that need direct ReadAt/Seek access alongside the decoded
// command view.
func (pr *PosReader) File() *os.File {
	return pr.f
}

// Close closes the underlying file.
func (pr *PosReader) Close() error {
	return pr.f.Close()
}
