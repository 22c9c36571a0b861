package testserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"time"
)

// record counts the hit, keeps the headers and buffers the body.
func (s *Server) record(handler Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return fmt.Errorf("reading request body: %w", err)
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.headers[r.URL.Path] = r.Header.Clone()
		if r.Method != http.MethodGet {
			s.captured[r.URL.Path] = append(s.captured[r.URL.Path], body)
		}
		s.mu.Unlock()

		return handler(context.WithValue(ctx, bodyKey, body), w, r)
	}
}

func (s *Server) logged(handler Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		now := time.Now()

		s.logger.Info("request started", "method", r.Method, "path", r.URL.Path, "remoteaddr", r.RemoteAddr)

		err := handler(ctx, w, r)

		s.logger.Info("request completed", "method", r.Method, "path", r.URL.Path, "since", time.Since(now).String())

		return err
	}
}

// panics recovers from panics if they occur.
func panics(handler Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				trace := debug.Stack()
				err = fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(trace))
			}
		}()

		return handler(ctx, w, r)
	}
}

// errorsMW answers any error from the chain with a 500.
func errorsMW(handler Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		err := handler(ctx, w, r)
		if err == nil {
			return nil
		}

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return err
	}
}
