// Package server implements the TCP front end of the ignite store: it
// accepts connections, decodes a stream of wire.Request values per
// connection, dispatches each to a cloned engine handle, and writes back
// the matching wire.Response.
package server

import (
	"bufio"
	stdErrors "errors"
	"io"
	"net"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/pool"
	"github.com/ignitedb/ignite/internal/wire"
)

// Server binds a TCP listener and dispatches each connection's request
// stream to the engine through a worker pool.
type Server struct {
	engine *engine.Engine
	pool   *pool.Pool
	log    *zap.SugaredLogger
}

// New builds a Server over eng, dispatching connection handlers to pool.
func New(eng *engine.Engine, workerPool *pool.Pool, log *zap.SugaredLogger) *Server {
	return &Server{engine: eng, pool: workerPool, log: log}
}

// ListenAndServe binds addr and accepts connections until the listener
// errors (including on Close from another goroutine).
func (s *Server) ListenAndServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer listener.Close()

	s.log.Infow("listening", "addr", addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		s.accept(conn)
	}
}

// accept clones the engine and submits one pool job handling conn's entire
// request/response lifecycle. Multiple connections run in parallel up to
// the pool's concurrency; requests on the same connection are handled
// sequentially because one job runs one connection to completion.
func (s *Server) accept(conn net.Conn) {
	connID := uuid.NewString()
	handle := s.engine.Clone()
	log := s.log.With("connectionID", connID, "remoteAddr", conn.RemoteAddr().String())

	log.Infow("connection accepted")

	s.pool.Execute(func() {
		defer conn.Close()
		defer log.Infow("connection closed")
		defer handle.Release()
		handleConnection(conn, handle, log)
	})
}

// handleConnection decodes requests from conn until it errors (including a
// clean EOF), dispatching each to engine and writing back one response.
func handleConnection(conn net.Conn, eng *engine.Engine, log *zap.SugaredLogger) {
	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)
	stream := wire.NewStream[wire.Request](reader)

	for {
		req, err := stream.Next()
		if stdErrors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			log.Warnw("failed to decode request, closing connection", "error", err)
			return
		}

		resp := dispatch(eng, req, log)
		if err := wire.Encode(writer, resp); err != nil {
			log.Warnw("failed to encode response, closing connection", "error", err)
			return
		}
		if err := writer.Flush(); err != nil {
			log.Warnw("failed to flush response, closing connection", "error", err)
			return
		}
	}
}

func dispatch(eng *engine.Engine, req wire.Request, log *zap.SugaredLogger) wire.Response {
	switch req.Kind {
	case wire.KindGet:
		value, found, err := eng.Get(req.Key)
		if err != nil {
			log.Errorw("get failed", "key", req.Key, "error", err)
			return wire.ErrorResponse(wire.KindGet, err)
		}
		return wire.GetResponse(value, found)

	case wire.KindSet:
		if err := eng.Set(req.Key, req.Value); err != nil {
			log.Errorw("set failed", "key", req.Key, "error", err)
			return wire.ErrorResponse(wire.KindSet, err)
		}
		return wire.SetResponse()

	case wire.KindRemove:
		if err := eng.Remove(req.Key); err != nil {
			log.Warnw("remove failed", "key", req.Key, "error", err)
			return wire.ErrorResponse(wire.KindRemove, err)
		}
		return wire.RemoveResponse()

	default:
		return wire.ErrorResponse(req.Kind, stdErrors.New("unknown request kind"))
	}
}
