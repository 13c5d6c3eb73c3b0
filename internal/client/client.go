// Package client implements a thin stub for talking to an ignite server
// over its TCP protocol: one Request per call, flushed immediately, and
// exactly one matching Response read back.
package client

import (
	"bufio"
	"net"

	"github.com/ignitedb/ignite/internal/wire"
	"github.com/ignitedb/ignite/pkg/errors"
)

// Client is a single connection to an ignite server. It is not safe for
// concurrent use by multiple goroutines; callers wanting concurrency should
// open one Client per goroutine.
type Client struct {
	conn   net.Conn
	writer *bufio.Writer
	stream *wire.Stream[wire.Response]
}

// Connect dials addr and returns a Client ready to issue requests.
func Connect(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to connect to server").
			WithOperation("Connect")
	}

	return &Client{
		conn:   conn,
		writer: bufio.NewWriter(conn),
		stream: wire.NewStream[wire.Response](bufio.NewReader(conn)),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Get retrieves the value stored for key. found is false if the server has
// no entry for key.
func (c *Client) Get(key string) (value string, found bool, err error) {
	resp, err := c.roundTrip(wire.GetRequest(key))
	if err != nil {
		return "", false, err
	}
	if resp.IsError() {
		return "", false, errors.NewEngineError(nil, errors.ErrorCodeIO, resp.Err).WithOperation("Get").WithKey(key)
	}
	return resp.Value, resp.Found, nil
}

// Set stores value for key, overwriting any existing entry.
func (c *Client) Set(key, value string) error {
	resp, err := c.roundTrip(wire.SetRequest(key, value))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return errors.NewEngineError(nil, errors.ErrorCodeIO, resp.Err).WithOperation("Set").WithKey(key)
	}
	return nil
}

// Remove deletes key. It returns a KeyNotFound error if the server has no
// entry for key.
func (c *Client) Remove(key string) error {
	resp, err := c.roundTrip(wire.RemoveRequest(key))
	if err != nil {
		return err
	}
	if resp.IsError() {
		if resp.Err == errors.NewKeyNotFoundError(key).Error() {
			return errors.NewKeyNotFoundError(key)
		}
		return errors.NewEngineError(nil, errors.ErrorCodeIO, resp.Err).WithOperation("Remove").WithKey(key)
	}
	return nil
}

// roundTrip writes req, flushes, and reads back exactly one response of the
// matching Kind. A response carrying any other Kind is treated as a protocol
// error rather than trusted.
func (c *Client) roundTrip(req wire.Request) (wire.Response, error) {
	if err := wire.Encode(c.writer, req); err != nil {
		return wire.Response{}, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to send request").
			WithOperation(string(req.Kind)).WithKey(req.Key)
	}
	if err := c.writer.Flush(); err != nil {
		return wire.Response{}, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to flush request").
			WithOperation(string(req.Kind)).WithKey(req.Key)
	}

	resp, err := c.stream.Next()
	if err != nil {
		return wire.Response{}, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to read response").
			WithOperation(string(req.Kind)).WithKey(req.Key)
	}
	if resp.Kind != req.Kind {
		return wire.Response{}, errors.NewEngineError(nil, errors.ErrorCodeInvalidFormat, "response variant did not match request").
			WithOperation(string(req.Kind)).WithKey(req.Key).
			WithDetail("wantKind", req.Kind).WithDetail("gotKind", resp.Kind)
	}
	return resp, nil
}
