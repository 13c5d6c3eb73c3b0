// Package logger builds the zap.SugaredLogger instances threaded through
// the engine, index, pool, and server components. Every component takes a
// logger at construction time through its Config struct; nothing in this
// module reaches for a global logger.
package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds a SugaredLogger tagged with the given service name. It uses a
// production JSON encoder unless IGNITE_ENV=development, in which case it
// switches to a human-readable console encoder.
func New(service string) *zap.SugaredLogger {
	var base *zap.Logger
	var err error

	if os.Getenv("IGNITE_ENV") == "development" {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		// Logging construction failing means the process can't report
		// anything useful; fall back to a no-op logger rather than panic.
		base = zap.NewNop()
	}

	return base.Sugar().With("service", service)
}

// NewNop returns a logger that discards everything, for tests that don't
// care about log output.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
