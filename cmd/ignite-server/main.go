// Command ignite-server runs the TCP front end for an ignite data
// directory: it opens the engine, starts a worker pool, and serves
// connections until it fails to bind or accept.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/pool"
	"github.com/ignitedb/ignite/internal/server"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:4000", "address to listen on")
	engineName := flag.String("engine", options.DefaultEngineName, "storage engine name recorded in the data directory")
	dir := flag.String("dir", options.DefaultDataDir, "data directory")
	poolSize := flag.Int("pool-size", options.DefaultPoolSize, "number of worker goroutines serving connections")
	threshold := flag.Uint64("threshold", options.DefaultCompactThreshold, "wasted-byte threshold that triggers compaction")
	flag.Parse()

	log := logger.New("ignite-server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, err := engine.Open(ctx, *dir, log,
		options.WithEngineName(*engineName),
		options.WithCompactThreshold(*threshold),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer eng.Close()

	workers, err := pool.New(ctx, *poolSize, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer workers.Close()

	srv := server.New(eng, workers, log)
	if err := srv.ListenAndServe(*addr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
