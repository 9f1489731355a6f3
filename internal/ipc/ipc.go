package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/types"
)

const (
	// Default socket path for Unix systems
	DefaultSocketPath = "/tmp/clipman.sock"

	requestTimeout = 30 * time.Second
)

// DialError means the daemon could not be reached. Nothing was sent, so the
// request is safe to repeat.
type DialError struct {
	Socket string
	Err    error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("failed to connect to daemon at %s: %v", e.Socket, e.Err)
}

func (e *DialError) Unwrap() error {
	return e.Err
}

// SendRequest connects to the daemon, sends a request, and returns the response.
func SendRequest(ctx context.Context, socketPath string, req *Request) (*Response, error) {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, &DialError{Socket: socketPath, Err: err}
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(requestTimeout))
	}

	enc := json.NewEncoder(conn)
	dec := json.NewDecoder(conn)

	if err := enc.Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// Server accepts connections on a unix socket, one request per connection.
type Server struct {
	socketPath string
	mux        *Mux
	logger     *zap.Logger
	wg         sync.WaitGroup
}

func NewServer(socketPath string, mux *Mux, logger *zap.Logger) *Server {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{socketPath: socketPath, mux: mux, logger: logger}
}

// ListenAndServe serves requests until ctx is cancelled, then waits for
// in-flight requests to finish.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	// Remove any stale socket
	os.Remove(s.socketPath)
	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	defer os.Remove(s.socketPath)
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		s.logger.Warn("Failed to restrict socket permissions", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.logger.Info("IPC server listening", zap.String("socket", s.socketPath))
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.wg.Wait()
				return nil
			}
			s.logger.Warn("Accept failed", zap.Error(err))
			continue // Accept next connection
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(requestTimeout))
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	var req Request
	if err := dec.Decode(&req); err != nil {
		resp := &Response{Status: StatusError, Code: types.CodeInvalidArgument, Message: "invalid request: " + err.Error()}
		enc.Encode(resp)
		return
	}

	resp := s.mux.Serve(ctx, &req)
	if resp.Status != StatusOK {
		s.logger.Debug("Command failed",
			zap.String("command", req.Command),
			zap.String("code", resp.Code),
			zap.String("message", resp.Message))
	}
	if err := enc.Encode(resp); err != nil {
		s.logger.Debug("Failed to write response", zap.String("command", req.Command), zap.Error(err))
	}
}
