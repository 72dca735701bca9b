package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"time"

	"github.com/ntripcaster/caster/internal/logger"
	"github.com/ntripcaster/caster/internal/ntrip/request"
	"github.com/ntripcaster/caster/internal/ntrip/router"
)

// handshakeReadTimeout bounds how long a connection may take to send its
// full handshake before the worker gives up and closes it; read/write
// timeouts beyond that are left as an implementation choice of the
// external I/O layer.
const handshakeReadTimeout = 10 * time.Second

// handshakeBufferSize is generous for an HTTP/1.0-like request line plus a
// handful of headers.
const handshakeBufferSize = 8192

// TCPServer is the out-of-scope "TCP accept loop and per-connection thread
// spawning" collaborator design: one accept goroutine spawns one
// worker goroutine per accepted connection, each driven through C1 (parse)
// and the Router (C4+C5).
type TCPServer struct {
	router *router.Router
}

// NewTCPServer wraps router for use by the accept loop.
func NewTCPServer(r *router.Router) *TCPServer {
	return &TCPServer{router: r}
}

// Serve accepts connections on ln until ctx is canceled, spawning one
// worker goroutine per connection.
func (s *TCPServer) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}
		go s.handleConnection(ctx, conn)
	}
}

// handleConnection drives one accepted connection end to end. A LogContext
// is attached to ctx for the lifetime of the call so every log line for
// this connection — handshake failure, admission outcome, attach, detach —
// carries the same client_ip/cid/mount/trace_id correlation fields.
func (s *TCPServer) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	lc := logger.NewLogContext(conn.RemoteAddr().String())
	ctx = logger.WithContext(ctx, lc)

	_ = conn.SetReadDeadline(time.Now().Add(handshakeReadTimeout))
	buf, err := readHandshake(conn)
	if err != nil {
		logger.DebugCtx(ctx, "handshake read failed", "error", err)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	req, err := request.Parse(buf)
	if err != nil {
		logger.DebugCtx(ctx, "malformed handshake", "error", err)
		return
	}

	attachment, outcome := s.router.Serve(ctx, conn, req)
	if outcome != router.OutcomeAttached {
		return
	}

	_ = attachment.Stream(ctx, conn)
}

// readHandshake reads until the first blank line (or the connection's first
// read error), matching C1's expectation of a buffer terminated by a blank
// line.
func readHandshake(conn net.Conn) ([]byte, error) {
	r := bufio.NewReaderSize(conn, handshakeBufferSize)
	var buf []byte

	for {
		line, err := r.ReadString('\n')
		buf = append(buf, line...)
		if err != nil {
			if len(buf) > 0 {
				return buf, nil
			}
			return nil, err
		}
		trimmed := trimCRLF(line)
		if trimmed == "" {
			return buf, nil
		}
		if len(buf) > handshakeBufferSize {
			return buf, nil
		}
	}
}

func trimCRLF(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
