// Package testserver provides an HTTP fixture with echo, capture, status
// and hold endpoints for exercising the client in tests.
package testserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"
)

// Handler is a http.Handler that returns an error.
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// Middleware defines a signature to chain Handler together.
type Middleware func(handler Handler) Handler

// Server is an httptest.Server that records what it receives.
type Server struct {
	*httptest.Server

	mux    *http.ServeMux
	mw     []Middleware
	logger *slog.Logger
	body   []byte

	mu       sync.Mutex
	hits     map[string]int
	captured map[string][][]byte
	headers  map[string]http.Header

	release     chan struct{}
	releaseOnce sync.Once
	arrived     chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithBody sets the body served by GET /data.
func WithBody(b []byte) Option {
	return func(s *Server) {
		s.body = b
	}
}

// WithLogger routes request logs to logger instead of discarding them.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRoute registers an extra handler, e.g. "GET /custom".
func WithRoute(pattern string, h http.HandlerFunc) Option {
	return func(s *Server) {
		s.handle(pattern, adapt(h))
	}
}

// DefaultBody is served by GET /data unless WithBody is used.
var DefaultBody = []byte("hello from testserver")

// New starts a Server that is closed when the test ends.
//
// Routes:
//
//	GET  /data           the configured body
//	GET  /status/{code}  the given status with a short body
//	GET  /hold           blocks until Release
//	GET  /redirect       302 to /data
//	GET  /panic          panics, answered with 500
//	POST /echo           the request body
//	POST /capture        204, body recorded
func New(t testing.TB, optFns ...Option) *Server {
	t.Helper()

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   slog.New(slog.DiscardHandler),
		body:     DefaultBody,
		hits:     make(map[string]int),
		captured: make(map[string][][]byte),
		headers:  make(map[string]http.Header),
		release:  make(chan struct{}),
		arrived:  make(chan struct{}, 1024),
	}
	s.mw = []Middleware{s.logged, errorsMW, panics, s.record}

	for _, opt := range optFns {
		opt(s)
	}

	s.handle("GET /data", s.data)
	s.handle("GET /status/{code}", status)
	s.handle("GET /hold", s.hold)
	s.handle("GET /redirect", redirect)
	s.handle("GET /panic", func(context.Context, http.ResponseWriter, *http.Request) error {
		panic("testserver: /panic requested")
	})
	s.handle("POST /echo", echo)
	s.handle("POST /capture", capture)

	s.Server = httptest.NewServer(s.mux)
	t.Cleanup(func() {
		s.Release()
		s.Server.Close()
	})

	return s
}

// URL joins path onto the server's base URL.
func (s *Server) URL(path string) string {
	return s.Server.URL + path
}

// Hits reports how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Captured returns every request body received on path, in arrival order.
func (s *Server) Captured(path string) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.captured[path])
}

// LastHeader returns the headers of the most recent request to path.
func (s *Server) LastHeader(path string) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[path].Clone()
}

// Release unblocks every current and future request to /hold.
func (s *Server) Release() {
	s.releaseOnce.Do(func() { close(s.release) })
}

// AwaitHeld waits until n requests are blocked in /hold.
func (s *Server) AwaitHeld(n int, timeout time.Duration) error {
	deadline := time.After(timeout)
	for i := range n {
		select {
		case <-s.arrived:
		case <-deadline:
			return fmt.Errorf("only %d of %d requests arrived at /hold", i, n)
		}
	}

	return nil
}

func (s *Server) handle(pattern string, handler Handler) {
	handler = wrap(s.mw, handler)

	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if err := handler(r.Context(), w, r); err != nil {
			s.logger.Error("testserver", "handle", err)
		}
	})
}

func (s *Server) data(_ context.Context, w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Length", fmt.Sprint(len(s.body)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(s.body)
	return err
}

func (s *Server) hold(ctx context.Context, w http.ResponseWriter, _ *http.Request) error {
	s.arrived <- struct{}{}

	select {
	case <-s.release:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.WriteHeader(http.StatusOK)
	_, err := io.WriteString(w, "released")
	return err
}

// adapt converts a standard http.Handler into a Handler.
func adapt(h http.Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		h.ServeHTTP(w, r)
		return nil
	}
}

// wrap middleware around the handler and execute in order given.
func wrap(mw []Middleware, handler Handler) Handler {
	for _, mwFn := range slices.Backward(mw) {
		if mwFn != nil {
			handler = mwFn(handler)
		}
	}

	return handler
}
