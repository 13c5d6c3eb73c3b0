// Package segment manages the append-only log files the engine reads and
// writes: each is a regular file named "<g>.db" under the database
// directory, where g is a non-negative, strictly increasing generation
// number. segment wraps the positioned reader/writer pair from
// internal/wire with the file-open lifecycle and the generation-aware
// error context the engine needs to diagnose a failed open.
package segment

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ignitedb/ignite/internal/wire"
	"github.com/ignitedb/ignite/pkg/errors"
)

const extension = ".db"

// Path returns the path of the segment file for the given generation under dir.
func Path(dir string, generation uint64) string {
	return filepath.Join(dir, strconv.FormatUint(generation, 10)+extension)
}

// List enumerates the generations present in dir, parsed from "<g>.db"
// filenames and returned sorted ascending. Non-matching entries (including
// the "engine" sanity file) are ignored.
func List(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	generations := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, extension) {
			continue
		}
		generation, err := strconv.ParseUint(strings.TrimSuffix(name, extension), 10, 64)
		if err != nil {
			continue
		}
		generations = append(generations, generation)
	}

	sort.Slice(generations, func(i, j int) bool { return generations[i] < generations[j] })
	return generations, nil
}

// Writer is the active, append-only segment file.
type Writer struct {
	*wire.PosWriter
	Generation uint64
}

// OpenWriter creates (if necessary) and opens the segment file for
// generation in append mode.
func OpenWriter(dir string, generation uint64) (*Writer, error) {
	path := Path(dir, generation)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.ClassifySegmentOpenError(err, path, filepath.Base(path), generation)
	}

	pw, err := wire.NewPosWriter(file)
	if err != nil {
		file.Close()
		return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to position segment writer").
			WithPath(path).WithGeneration(generation).WithOperation("OpenWriter")
	}

	return &Writer{PosWriter: pw, Generation: generation}, nil
}

// Reader is a read-only handle on a segment file, identified by generation.
// It embeds wire.PosReader, which exposes both the decoding ReadCommandAt
// call and the raw *os.File (via File()) that compaction uses for direct
// ReadAt byte copies.
type Reader struct {
	*wire.PosReader
	Generation uint64
}

// OpenReader opens the segment file for generation for positioned reads.
func OpenReader(dir string, generation uint64) (*Reader, error) {
	path := Path(dir, generation)
	file, err := os.OpenFile(path, os.O_RDONLY, 0644)
	if err != nil {
		return nil, errors.ClassifySegmentOpenError(err, path, filepath.Base(path), generation)
	}

	pr, err := wire.NewPosReader(file)
	if err != nil {
		file.Close()
		return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to position segment reader").
			WithPath(path).WithGeneration(generation).WithOperation("OpenReader")
	}

	return &Reader{PosReader: pr, Generation: generation}, nil
}

// Remove deletes the on-disk file for the given generation.
func Remove(dir string, generation uint64) error {
	return os.Remove(Path(dir, generation))
}
