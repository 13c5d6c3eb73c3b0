package segment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/internal/segment"
	"github.com/ignitedb/ignite/internal/wire"
)

func TestListIgnoresNonSegmentFiles(t *testing.T) {
	dir := t.TempDir()

	for _, generation := range []uint64{3, 1, 2} {
		w, err := segment.OpenWriter(dir, generation)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine"), []byte("native"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.db"), []byte("x"), 0644))
	generations, err := segment.List(dir)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 3}, generations)
}

func TestWriterReaderRoundTrip(t *testing.T) {
	dir := t.TempDir()

	w, err := segment.OpenWriter(dir, 7)
	require.NoError(t, err)

	start, end, err := w.WriteCommand(wire.SetCommand("a", "1"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := segment.OpenReader(dir, 7)
	require.NoError(t, err)
	defer r.Close()

	cmd, err := r.ReadCommandAt(start, end-start)
	require.NoError(t, err)
	require.Equal(t, wire.SetCommand("a", "1"), cmd)
}
