// Package ignite provides a high-performance key/value data store designed
// for fast read and write operations, inspired by Bitcask. It combines an
// in-memory hash table (the key index) with an append-only log structure on
// disk to achieve high throughput. It is the in-process entry point for
// applications that want the engine directly, without going through the
// TCP server and client.
package ignite

import (
	"context"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
)

// Instance is an in-process handle to the ignite key/value store. It wraps
// the engine and is safe to Clone (via NewHandle) for concurrent callers
// that want their own lazily-populated segment readers.
type Instance struct {
	engine  *engine.Engine
	options *options.Options
}

// Open creates and initializes a new ignite instance backed by dir.
func Open(ctx context.Context, service, dir string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	cfg := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	eng, err := engine.Open(ctx, dir, log, opts...)
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &cfg}, nil
}

// NewHandle returns a cheap handle sharing this instance's underlying
// engine state, suitable for use from another goroutine.
func (i *Instance) NewHandle() *Instance {
	return &Instance{engine: i.engine.Clone(), options: i.options}
}

// Set stores a key-value pair in the database. If the key already exists,
// its value is updated. The write is durably flushed to the active segment
// before Set returns.
func (i *Instance) Set(ctx context.Context, key, value string) error {
	return i.engine.Set(key, value)
}

// Get retrieves the value associated with key. found is false if the key
// has no entry.
func (i *Instance) Get(ctx context.Context, key string) (value string, found bool, err error) {
	return i.engine.Get(key)
}

// Delete removes a key-value pair from the database, returning
// ErrorCodeKeyNotFound if the key has no entry.
func (i *Instance) Delete(ctx context.Context, key string) error {
	return i.engine.Remove(key)
}

// Close gracefully shuts down the instance, flushing pending writes and
// closing open file handles.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
