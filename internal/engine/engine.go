// Package engine provides the core database engine implementation for the
// ignite storage system: it opens a directory, replays all segments to
// rebuild the index, and serves get/set/remove, triggering compaction once
// wasted bytes cross a threshold.
//
// The engine is a shared handle: Clone returns a new value that shares the
// writer lock, the index, and the atomic counters with its parent, but owns
// its own lazily-populated readers table. This keeps the read path free of
// contention between clones at the cost of opening a segment reader again
// per clone on first access.
package engine

import (
	"context"
	stdErrors "errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/segment"
	"github.com/ignitedb/ignite/internal/wire"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/options"
)

// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
var ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")

const sentinelFileName = "engine"

// shared is the state every clone of an Engine holds a pointer to.
type shared struct {
	dir              string
	compactThreshold uint64
	log              *zap.SugaredLogger

	writerMu  sync.Mutex
	writer    *segment.Writer
	index     *index.Index
	currentNo atomic.Uint64
	wild      atomic.Uint64
	closed    atomic.Bool
}

// Engine is the primary interface for database operations: Get, Set,
// Remove, Close, and Clone for a cheap handle usable from another goroutine.
type Engine struct {
	shared  *shared
	readers map[uint64]*segment.Reader
	readMu  sync.Mutex
}

// Config holds the parameters needed to open an Engine.
type Config struct {
	Logger *zap.SugaredLogger
}

// Open opens path (creating it if absent), replays every existing segment
// in ascending generation order to rebuild the index, and starts a fresh
// active segment so the writer never appends to a pre-existing file.
//
// ctx carries no cancellation today (opening a directory and replaying its
// segments has no natural cancellation point), but is accepted for
// consistency with the rest of this module's constructors and to leave room
// for future deadline-aware replay.
func Open(ctx context.Context, dir string, logger *zap.SugaredLogger, opts ...options.OptionFunc) (*Engine, error) {
	_ = ctx

	if logger == nil {
		return nil, errors.NewRequiredFieldError("logger")
	}

	cfg := options.NewDefaultOptions()
	cfg.DataDir = dir
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := filesys.CreateDir(cfg.DataDir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryError(err, cfg.DataDir)
	}

	if err := checkEngineSentinel(cfg.DataDir, cfg.EngineName); err != nil {
		return nil, err
	}

	idx, err := index.New(&index.Config{Logger: logger})
	if err != nil {
		return nil, err
	}

	generations, err := segment.List(cfg.DataDir)
	if err != nil {
		return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to list segments").
			WithPath(cfg.DataDir).WithOperation("Open")
	}

	var lastGeneration uint64
	if len(generations) > 0 {
		lastGeneration = generations[len(generations)-1]
	}
	currentNo := lastGeneration + 1

	e := &Engine{
		shared: &shared{
			dir:              cfg.DataDir,
			compactThreshold: cfg.CompactThreshold,
			log:              logger,
			index:            idx,
		},
		readers: make(map[uint64]*segment.Reader),
	}
	e.shared.currentNo.Store(currentNo)

	logger.Infow("opening engine", "dir", cfg.DataDir, "segments", len(generations), "activeGeneration", currentNo)

	for _, generation := range generations {
		reader, err := segment.OpenReader(cfg.DataDir, generation)
		if err != nil {
			return nil, err
		}
		e.readers[generation] = reader

		if err := e.replay(reader, generation); err != nil {
			return nil, err
		}
	}

	writer, err := segment.OpenWriter(cfg.DataDir, currentNo)
	if err != nil {
		return nil, err
	}
	e.shared.writer = writer

	reader, err := segment.OpenReader(cfg.DataDir, currentNo)
	if err != nil {
		return nil, err
	}
	e.readers[currentNo] = reader

	logger.Infow("engine opened", "dir", cfg.DataDir, "wild", e.shared.wild.Load(), "keys", idx.Len())
	return e, nil
}

func checkEngineSentinel(dir, engineName string) error {
	path := filepath.Join(dir, sentinelFileName)
	exists, err := filesys.Exists(path)
	if err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to stat engine sentinel file").
			WithPath(path).WithOperation("Open")
	}

	if !exists {
		return filesys.WriteFile(path, 0644, []byte(engineName))
	}

	contents, err := filesys.ReadFile(path)
	if err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to read engine sentinel file").
			WithPath(path).WithOperation("Open")
	}

	found := strings.TrimSpace(string(contents))
	if found != "" && found != engineName {
		return errors.NewEngineError(nil, errors.ErrorCodeEngineMismatch, "data directory was opened with a different engine").
			WithPath(path).
			WithDetail("expected", engineName).
			WithDetail("found", found)
	}
	return nil
}

// replay decodes every command in a segment from the start, rebuilding the
// index and the wasted-byte counter. Segments must be replayed in ascending
// generation order so later writes for a key overwrite earlier entries.
func (e *Engine) replay(reader *segment.Reader, generation uint64) error {
	if _, err := reader.File().Seek(0, io.SeekStart); err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to seek segment for replay").
			WithGeneration(generation).WithOperation("Replay")
	}

	stream := wire.NewStream[wire.Command](reader.File())
	var pos int64
	for {
		cmd, err := stream.Next()
		if stdErrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return errors.NewEngineError(err, errors.ErrorCodeSerializer, "failed to decode command during replay").
				WithGeneration(generation).WithOffset(uint64(pos)).WithOperation("Replay")
		}

		newPos := stream.Offset()
		off := wire.OffSet{Generation: generation, Start: uint64(pos), Len: uint64(newPos - pos)}

		switch cmd.Kind {
		case wire.KindSet:
			if prior, had := e.shared.index.Insert(cmd.Key, off); had {
				e.shared.wild.Add(prior.Len)
			}
		case wire.KindRemove:
			if prior, had := e.shared.index.Remove(cmd.Key); had {
				e.shared.wild.Add(prior.Len)
			}
			e.shared.wild.Add(off.Len)
		default:
			return errors.NewInvalidCommandError("invalid command parsed during replay", generation, uint64(pos))
		}

		pos = newPos
	}

	return nil
}

// Get returns the value for key, or found == false if the key has no entry.
func (e *Engine) Get(key string) (string, bool, error) {
	off, ok := e.shared.index.Get(key)
	if !ok {
		return "", false, nil
	}

	reader, err := e.readerFor(off.Generation)
	if err != nil {
		return "", false, err
	}

	cmd, err := reader.ReadCommandAt(off.Start, off.Len)
	if err != nil {
		return "", false, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to read record").
			WithKey(key).WithGeneration(off.Generation).WithOffset(off.Start).WithOperation("Get")
	}
	if cmd.Kind != wire.KindSet {
		return "", false, errors.NewInvalidCommandError("expected a set record", off.Generation, off.Start).WithKey(key)
	}
	return cmd.Value, true, nil
}

// Set durably writes key=value and updates the index. If this pushes the
// wasted-byte counter above the configured threshold, it triggers a
// synchronous compaction before returning.
func (e *Engine) Set(key, value string) error {
	if e.shared.closed.Load() {
		return ErrEngineClosed
	}

	off, err := e.append(wire.SetCommand(key, value))
	if err != nil {
		return err
	}

	if prior, had := e.shared.index.Insert(key, off); had {
		e.shared.wild.Add(prior.Len)
	}

	return e.maybeCompact()
}

// Remove deletes key, appending a tombstone record. It returns
// ErrorCodeKeyNotFound if the key has no entry.
func (e *Engine) Remove(key string) error {
	if e.shared.closed.Load() {
		return ErrEngineClosed
	}

	_, found, err := e.Get(key)
	if err != nil {
		return err
	}
	if !found {
		return errors.NewKeyNotFoundError(key)
	}

	off, err := e.append(wire.RemoveCommand(key))
	if err != nil {
		return err
	}
	e.shared.wild.Add(off.Len)

	if prior, had := e.shared.index.Remove(key); had {
		e.shared.wild.Add(prior.Len)
	}

	return e.maybeCompact()
}

// append encodes and flushes cmd to the active segment under the writer
// lock, returning the exact byte range it occupies.
func (e *Engine) append(cmd wire.Command) (wire.OffSet, error) {
	e.shared.writerMu.Lock()
	start, end, err := e.shared.writer.WriteCommand(cmd)
	generation := e.shared.writer.Generation
	e.shared.writerMu.Unlock()

	if err != nil {
		return wire.OffSet{}, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to append record").
			WithKey(cmd.Key).WithGeneration(generation).WithOperation("Append")
	}
	return wire.NewOffSet(generation, start, end), nil
}

func (e *Engine) maybeCompact() error {
	if e.shared.wild.Load() > e.shared.compactThreshold {
		return e.compact()
	}
	return nil
}

// compact rewrites every live record into a fresh segment and deletes every
// segment strictly older than the compaction destination. The active
// writer is skipped ahead by two generations so that writes serialized
// concurrently with compaction never land in the segment being rewritten.
func (e *Engine) compact() error {
	e.shared.writerMu.Lock()
	defer e.shared.writerMu.Unlock()

	currentNo := e.shared.currentNo.Load()
	compactNo := currentNo + 1
	newCurrentNo := currentNo + 2

	e.shared.log.Infow("compacting", "currentGeneration", currentNo, "compactGeneration", compactNo,
		"newGeneration", newCurrentNo, "wild", e.shared.wild.Load())

	compactWriter, err := segment.OpenWriter(e.shared.dir, compactNo)
	if err != nil {
		return err
	}

	newWriter, err := segment.OpenWriter(e.shared.dir, newCurrentNo)
	if err != nil {
		compactWriter.Close()
		return err
	}

	oldWriter := e.shared.writer
	e.shared.writer = newWriter
	e.shared.currentNo.Store(newCurrentNo)
	oldWriter.Close()

	// Snapshot the live set under the index's read lock, then do every
	// record's disk I/O without holding any index lock: Get and other
	// readers must never block for the whole duration of a compaction.
	snapshot := e.shared.index.Snapshot()
	updates := make(map[string]wire.OffSet, len(snapshot))

	for key, off := range snapshot {
		reader, err := e.readerFor(off.Generation)
		if err != nil {
			return err
		}

		buf := make([]byte, off.Len)
		if _, err := reader.File().ReadAt(buf, int64(off.Start)); err != nil {
			return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to read live record during compaction").
				WithKey(key).WithGeneration(off.Generation).WithOffset(off.Start).WithOperation("Compact")
		}

		newStart := compactWriter.Pos()
		if _, err := compactWriter.Write(buf); err != nil {
			return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to copy record during compaction").
				WithKey(key).WithGeneration(compactNo).WithOperation("Compact")
		}

		updates[key] = wire.OffSet{Generation: compactNo, Start: newStart, Len: off.Len}
	}

	if err := compactWriter.Flush(); err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to flush compaction writer").
			WithGeneration(compactNo).WithOperation("Compact")
	}

	// writerMu has been held since the top of this function, but Set and
	// Remove release it after append and only then update the index, so an
	// index update can land after the snapshot; BulkUpdate leaves such an
	// entry at the location that update gave it.
	e.shared.index.BulkUpdate(updates, snapshot)

	if err := e.removeStaleSegments(compactNo); err != nil {
		e.shared.log.Warnw("failed to remove stale segments after compaction", "error", err)
	}

	compactReader, err := segment.OpenReader(e.shared.dir, compactNo)
	if err != nil {
		return err
	}
	newReader, err := segment.OpenReader(e.shared.dir, newCurrentNo)
	if err != nil {
		compactReader.Close()
		return err
	}

	e.readMu.Lock()
	e.readers[compactNo] = compactReader
	e.readers[newCurrentNo] = newReader
	e.readMu.Unlock()

	e.shared.wild.Store(0)
	return nil
}

// removeStaleSegments deletes every segment file strictly older than
// compactNo. It lists the directory rather than walking this handle's own
// lazily-populated readers map, so a clone that never happened to open a
// reader for some old generation doesn't leave that file behind forever.
func (e *Engine) removeStaleSegments(compactNo uint64) error {
	generations, err := segment.List(e.shared.dir)
	if err != nil {
		return err
	}

	e.readMu.Lock()
	for generation, reader := range e.readers {
		if generation < compactNo {
			reader.Close()
			delete(e.readers, generation)
		}
	}
	e.readMu.Unlock()

	var firstErr error
	for _, generation := range generations {
		if generation >= compactNo {
			continue
		}
		if err := segment.Remove(e.shared.dir, generation); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// readerFor returns this engine handle's reader for generation, opening it
// lazily if this clone hasn't accessed that segment before.
func (e *Engine) readerFor(generation uint64) (*segment.Reader, error) {
	e.readMu.Lock()
	defer e.readMu.Unlock()

	if reader, ok := e.readers[generation]; ok {
		return reader, nil
	}

	reader, err := segment.OpenReader(e.shared.dir, generation)
	if err != nil {
		return nil, err
	}
	e.readers[generation] = reader
	return reader, nil
}

// Clone returns a new Engine handle sharing the writer, index, and counters
// with e, but with its own empty readers table.
func (e *Engine) Clone() *Engine {
	return &Engine{shared: e.shared, readers: make(map[uint64]*segment.Reader)}
}

// WildBytes reports the number of bytes across all segments that belong to
// an overwritten or removed key, and would be reclaimed by a compaction.
func (e *Engine) WildBytes() uint64 {
	return e.shared.wild.Load()
}

// Release closes this handle's own local readers without touching the
// shared writer or index, so a per-connection clone can be discarded
// without tearing down the engine every other clone is still using. Use
// this instead of Close for any handle obtained from Clone whose lifetime
// is shorter than the engine's; use Close only on the handle returned by
// Open, once the whole engine is done.
func (e *Engine) Release() {
	e.readMu.Lock()
	defer e.readMu.Unlock()

	for generation, reader := range e.readers {
		reader.Close()
		delete(e.readers, generation)
	}
}

// Close releases this handle's local readers. The first handle to call
// Close across all clones also flushes and closes the active writer and
// the shared index; later calls from other clones are no-ops on the shared
// state.
func (e *Engine) Close() error {
	e.readMu.Lock()
	for generation, reader := range e.readers {
		reader.Close()
		delete(e.readers, generation)
	}
	e.readMu.Unlock()

	if !e.shared.closed.CompareAndSwap(false, true) {
		return nil
	}

	e.shared.writerMu.Lock()
	defer e.shared.writerMu.Unlock()

	if err := e.shared.writer.Close(); err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to close active segment writer").
			WithOperation("Close")
	}
	return e.shared.index.Close()
}
