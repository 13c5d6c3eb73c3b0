package engine_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/segment"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
)

func open(t *testing.T, opts ...options.OptionFunc) *engine.Engine {
	t.Helper()
	dir := t.TempDir()
	e, err := engine.Open(context.Background(), dir, logger.NewNop(), opts...)
	require.NoError(t, err)
	return e
}

func TestSetGetRoundTrip(t *testing.T) {
	e := open(t)
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))
	value, found, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", value)
}

func TestGetMissingKey(t *testing.T) {
	e := open(t)
	defer e.Close()

	_, found, err := e.Get("missing")
	require.NoError(t, err)
	require.False(t, found)
}

func TestOverwriteReturnsLatestValue(t *testing.T) {
	e := open(t)
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("a", "2"))

	value, found, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "2", value)
}

func TestRemoveTombstonesKey(t *testing.T) {
	e := open(t)
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Remove("a"))

	_, found, err := e.Get("a")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRemoveMissingKeyIsKeyNotFound(t *testing.T) {
	e := open(t)
	defer e.Close()

	err := e.Remove("missing")
	require.Error(t, err)
	require.True(t, errors.IsKeyNotFound(err))
}

// TestPersistenceAcrossReopen models spec property: replaying a directory
// produces the same key/value set a reference map would hold after the same
// operations.
func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	e, err := engine.Open(context.Background(), dir, logger.NewNop())
	require.NoError(t, err)

	reference := map[string]string{}
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("key-%d", i)
		value := fmt.Sprintf("value-%d", i)
		require.NoError(t, e.Set(key, value))
		reference[key] = value
	}
	require.NoError(t, e.Remove("key-10"))
	delete(reference, "key-10")

	require.NoError(t, e.Close())

	reopened, err := engine.Open(context.Background(), dir, logger.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	for key, want := range reference {
		got, found, err := reopened.Get(key)
		require.NoError(t, err)
		require.True(t, found, "key %s should be present after reopen", key)
		require.Equal(t, want, got)
	}
	_, found, err := reopened.Get("key-10")
	require.NoError(t, err)
	require.False(t, found)
}

// TestReplayIsIdempotent closes and reopens a directory twice with no
// intervening writes, and expects the second reopen to still return the
// value written before the first.
func TestReplayIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	e, err := engine.Open(context.Background(), dir, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Close())

	first, err := engine.Open(context.Background(), dir, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := engine.Open(context.Background(), dir, logger.NewNop())
	require.NoError(t, err)
	defer second.Close()

	value, found, err := second.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", value)
}

// TestCompactionPreservesLiveKeysAndResetsWild drives enough overwrites past
// a small compaction threshold to force at least one compaction, then checks
// all three documented compaction-correctness properties: live keys still
// read back correctly, stale segment files are gone from disk, and the
// wasted-byte counter no longer reflects the overwritten records.
func TestCompactionPreservesLiveKeysAndResetsWild(t *testing.T) {
	dir := t.TempDir()
	e, err := engine.Open(context.Background(), dir, logger.NewNop(),
		options.WithCompactThreshold(options.MinCompactThreshold))
	require.NoError(t, err)
	defer e.Close()

	generationsBefore, err := segment.List(dir)
	require.NoError(t, err)
	require.Len(t, generationsBefore, 1, "a freshly opened engine should have exactly one active segment")
	initialGeneration := generationsBefore[0]

	for i := 0; i < 2000; i++ {
		require.NoError(t, e.Set("hot-key", fmt.Sprintf("value-%d", i)))
	}
	require.NoError(t, e.Set("cold-key", "cold-value"))

	value, found, err := e.Get("hot-key")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "value-1999", value)

	value, found, err = e.Get("cold-key")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "cold-value", value)

	// Repeatedly overwriting one key past MinCompactThreshold must have
	// triggered at least one compaction: the wasted-byte counter can never
	// sit above the threshold once maybeCompact has had a chance to fire,
	// and the segment that existed before any writes must be gone.
	require.LessOrEqual(t, e.WildBytes(), options.MinCompactThreshold)

	generationsAfter, err := segment.List(dir)
	require.NoError(t, err)
	require.Len(t, generationsAfter, 2, "compaction should leave exactly the compacted and active generations")
	for _, generation := range generationsAfter {
		require.Greater(t, generation, initialGeneration, "stale pre-compaction segment should have been removed")
	}
}

// TestRemoveAccountsTombstoneBytes checks that a tombstone's own record
// length is credited to the wasted-byte counter at write time, the same way
// replay credits it when rebuilding the counter from scratch after a
// restart — otherwise a long-running process and one that periodically
// restarts would disagree on how many bytes a given history has wasted.
func TestRemoveAccountsTombstoneBytes(t *testing.T) {
	e := open(t)
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))
	before := e.WildBytes()

	require.NoError(t, e.Remove("a"))
	after := e.WildBytes()

	require.Greater(t, after, before, "removing a key should waste at least the tombstone record's own bytes")
}

// TestConcurrentDisjointKeysAreSafe exercises clones from separate
// goroutines writing to disjoint key partitions, then verifies every
// partition's writes all landed.
func TestConcurrentDisjointKeysAreSafe(t *testing.T) {
	e := open(t)
	defer e.Close()

	const goroutines = 8
	const perGoroutine = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			handle := e.Clone()
			for i := 0; i < perGoroutine; i++ {
				key := fmt.Sprintf("g%d-k%d", g, i)
				require.NoError(t, handle.Set(key, key))
			}
		}(g)
	}
	wg.Wait()

	for g := 0; g < goroutines; g++ {
		for i := 0; i < perGoroutine; i++ {
			key := fmt.Sprintf("g%d-k%d", g, i)
			value, found, err := e.Get(key)
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, key, value)
		}
	}
}

func TestOpenRejectsMismatchedEngineName(t *testing.T) {
	dir := t.TempDir()

	e, err := engine.Open(context.Background(), dir, logger.NewNop(), options.WithEngineName("native"))
	require.NoError(t, err)
	require.NoError(t, e.Close())

	_, err = engine.Open(context.Background(), dir, logger.NewNop(), options.WithEngineName("other"))
	require.Error(t, err)
	require.Equal(t, errors.ErrorCodeEngineMismatch, errors.Code(err))
}

func TestOpenCreatesMissingDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	e, err := engine.Open(context.Background(), dir, logger.NewNop())
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))
	value, found, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", value)
}
