package server_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/internal/client"
	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/pool"
	"github.com/ignitedb/ignite/internal/server"
	"github.com/ignitedb/ignite/pkg/logger"
)

// newLoopbackAddr reserves an ephemeral loopback port, releases it, and
// returns the address so a Server can bind the same port moments later.
func newLoopbackAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

// waitForServer polls addr until a connection succeeds or the deadline
// passes.
func waitForServer(t *testing.T, addr string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("server never came up on %s", addr)
}

func startTestServer(t *testing.T, poolSize int) string {
	t.Helper()

	dir := t.TempDir()
	log := logger.NewNop()

	eng, err := engine.Open(context.Background(), dir, log)
	require.NoError(t, err)

	workers, err := pool.New(context.Background(), poolSize, log)
	require.NoError(t, err)

	srv := server.New(eng, workers, log)
	addr := newLoopbackAddr(t)

	go func() {
		_ = srv.ListenAndServe(addr)
	}()
	waitForServer(t, addr)

	t.Cleanup(func() {
		workers.Close()
		eng.Close()
	})

	return addr
}

// TestEndToEndSetGetRemoveGet drives one client connection through the
// full Set/Get/Remove/Get sequence against a live server.
func TestEndToEndSetGetRemoveGet(t *testing.T) {
	addr := startTestServer(t, 4)

	c, err := client.Connect(addr)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set("foo", "bar"))

	value, found, err := c.Get("foo")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "bar", value)

	require.NoError(t, c.Remove("foo"))

	_, found, err = c.Get("foo")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRemoveMissingKeySurfacesAsError(t *testing.T) {
	addr := startTestServer(t, 2)

	c, err := client.Connect(addr)
	require.NoError(t, err)
	defer c.Close()

	err = c.Remove("missing")
	require.Error(t, err)
}

func TestMultipleConnectionsAreIndependent(t *testing.T) {
	addr := startTestServer(t, 4)

	first, err := client.Connect(addr)
	require.NoError(t, err)
	defer first.Close()

	second, err := client.Connect(addr)
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, first.Set("shared-key", "from-first"))

	value, found, err := second.Get("shared-key")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "from-first", value)
}
