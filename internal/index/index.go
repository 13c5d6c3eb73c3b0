// Package index provides the in-memory hash table implementation for the
// ignite key-value store. It embodies the core Bitcask architectural
// principle: keep every live key in memory with just enough metadata to
// locate its value on disk, while the value itself stays in the segment
// file.
//
// The index is the single source of truth for "which record is the current
// one for this key" (spec data model, invariant I1). Callers must copy an
// OffSet out under the read lock rather than holding the lock across disk
// I/O; Get already does this.
package index

import (
	stdErrors "errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ignitedb/ignite/internal/wire"
	"github.com/ignitedb/ignite/pkg/errors"
)

// ErrIndexClosed is returned when attempting to close an already-closed index.
var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// Index maps keys to their most recent OffSet. Reads take the RWMutex as a
// reader; writes and compaction take it as a writer.
type Index struct {
	log    *zap.SugaredLogger
	table  map[string]*wire.OffSet
	mu     sync.RWMutex
	closed atomic.Bool
}

// Config holds the parameters required to build an Index.
type Config struct {
	Logger *zap.SugaredLogger
}

// New creates an Index ready for concurrent use.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewRequiredFieldError("config.Logger")
	}
	return &Index{log: config.Logger, table: make(map[string]*wire.OffSet, 1024)}, nil
}

// Insert records key's new OffSet, returning the entry it replaced, if any,
// so the engine can credit its length to the wasted-byte counter.
func (idx *Index) Insert(key string, off wire.OffSet) (prior wire.OffSet, hadPrior bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	old, had := idx.table[key]
	entry := off
	idx.table[key] = &entry
	if !had {
		return wire.OffSet{}, false
	}
	return *old, true
}

// Remove deletes key's entry, returning the OffSet it held, if any.
func (idx *Index) Remove(key string) (prior wire.OffSet, hadPrior bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	old, had := idx.table[key]
	if !had {
		return wire.OffSet{}, false
	}
	delete(idx.table, key)
	return *old, true
}

// Get looks up key's current OffSet. The value is copied out while the read
// lock is held so callers never hold the index lock across the bounded disk
// read that follows.
func (idx *Index) Get(key string) (wire.OffSet, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	off, ok := idx.table[key]
	if !ok {
		return wire.OffSet{}, false
	}
	return *off, true
}

// Snapshot copies every key's current OffSet out under the read lock, so a
// caller doing bounded disk I/O per entry (compaction) never holds the
// index lock across that I/O. The copy may be stale by the time the caller
// acts on it if a write lands concurrently; BulkUpdate's write-back only
// replaces entries that still match what Snapshot saw.
func (idx *Index) Snapshot() map[string]wire.OffSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make(map[string]wire.OffSet, len(idx.table))
	for key, off := range idx.table {
		out[key] = *off
	}
	return out
}

// BulkUpdate moves every key in updates to its new OffSet in a single write
// lock acquisition, but only where the entry still matches expectedFrom
// exactly (the value Snapshot reported for that key) — a key a concurrent
// Set/Remove has since touched keeps its newer location instead of being
// clobbered with a now-stale compacted one.
func (idx *Index) BulkUpdate(updates map[string]wire.OffSet, expectedFrom map[string]wire.OffSet) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for key, newOff := range updates {
		current, ok := idx.table[key]
		if !ok || *current != expectedFrom[key] {
			continue
		}
		entry := newOff
		idx.table[key] = &entry
	}
}

// Len reports the number of live keys currently indexed.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.table)
}

// Close releases the index's memory. Calling it twice returns ErrIndexClosed.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.log.Infow("closing index", "entries", len(idx.table))
	clear(idx.table)
	idx.table = nil
	return nil
}
