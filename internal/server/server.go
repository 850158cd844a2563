// Package server provides the line-delimited JSON-RPC server with lifecycle
// management.
package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/stepmcp/internal/metrics"
	"github.com/raphaelgruber/stepmcp/internal/tools"
)

// Version is the server version reported by initialize.
const Version = "1.1.0"

// Server reads one request per line and writes one response per line.
// Requests are handled strictly in order.
type Server struct {
	handler Handler
	logger  *slog.Logger
	metrics *metrics.Collector
}

// New creates a server named name over registry.
func New(name string, registry *tools.Registry, logger *slog.Logger) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: Version,
	}

	return &Server{
		handler: NewDispatcher(impl, registry).Handle,
		logger:  logger,
		metrics: metrics.NewCollector(),
	}
}

// Setup adds middleware to the server (recovery, metrics, logging).
func (s *Server) Setup() {
	s.handler = Chain(s.handler,
		LoggingMiddleware(s.logger),
		MetricsMiddleware(s.metrics),
		RecoveryMiddleware(s.logger),
	)
}

// Metrics returns the server's request statistics.
func (s *Server) Metrics() *metrics.Collector {
	return s.metrics
}

// Run serves stdin/stdout and blocks until EOF or context cancellation.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting server", "transport", "stdio")
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve handles newline-delimited requests from r, writing responses to w.
// Blank lines are ignored. Returns nil on EOF.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	// The reader may stay blocked on r after cancellation; it exits with the
	// process.
	go func() {
		defer close(lines)
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadBytes('\n')
			if len(line) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("read request: %w", err)
				default:
					return nil
				}
			}

			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}

			if err := s.write(enc, s.HandleLine(ctx, line)); err != nil {
				return err
			}
		}
	}
}

// HandleLine decodes and handles one non-blank request line.
func (s *Server) HandleLine(ctx context.Context, line []byte) *Response {
	req, err := DecodeRequest(line)
	switch {
	case errors.Is(err, ErrParse):
		s.logger.Warn("unparsable request", "line", truncate(string(line), maxArgLogLen))
		return NewError(nullID, CodeParseError, MsgParseError)
	case err != nil:
		s.logger.Warn("malformed request", "error", err, "line", truncate(string(line), maxArgLogLen))
		return NewError(nullID, CodeInternalError, MsgInternalError)
	}

	resp := s.handler(ctx, req)
	if resp == nil {
		return NewError(req.ID, CodeInternalError, MsgInternalError)
	}
	return resp
}

// write encodes resp as one line. A response that cannot be encoded is
// replaced by an internal error for the same id.
func (s *Server) write(enc *json.Encoder, resp *Response) error {
	err := enc.Encode(resp)
	if err == nil {
		return nil
	}

	var unsupported *json.UnsupportedValueError
	var unsupportedType *json.UnsupportedTypeError
	var marshalerErr *json.MarshalerError
	if errors.As(err, &unsupported) || errors.As(err, &unsupportedType) || errors.As(err, &marshalerErr) {
		s.logger.Error("failed to encode response", "error", err)
		if err := enc.Encode(NewError(resp.ID, CodeInternalError, MsgInternalError)); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("write response: %w", err)
}
