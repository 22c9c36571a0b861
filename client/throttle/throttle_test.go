package throttle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRoundTripper_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		cfg    Config
		next   http.RoundTripper
		expErr error
	}{
		{
			name:   "Invalid RPS (zero)",
			cfg:    Config{RPS: 0, Burst: 10},
			next:   http.DefaultTransport,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid RPS (negative)",
			cfg:    Config{RPS: -5, Burst: 10},
			next:   http.DefaultTransport,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid Burst (zero)",
			cfg:    Config{RPS: 10, Burst: 0},
			next:   http.DefaultTransport,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Nil next transport",
			cfg:    Config{RPS: 10, Burst: 10},
			expErr: ErrNilTransport,
		},
		{
			name: "Valid input",
			cfg:  Config{RPS: 10, Burst: 20},
			next: http.DefaultTransport,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rt, err := NewRoundTripper(tc.cfg, nil, tc.next)

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
				return
			}

			if err != nil {
				t.Errorf("exp nil err, got: %v", err)
			}
			if rt == nil {
				t.Error("exp non-nil RoundTripper")
			}
		})
	}
}

func TestRoundTripper_Behavior(t *testing.T) {
	testCases := []struct {
		name          string
		cfg           Config
		numRequests   int
		reqTimeout    time.Duration
		expectReqErrs int
		minDuration   time.Duration
		maxDuration   time.Duration
	}{
		{
			name:        "High Limits - Concurrent Load",
			cfg:         Config{RPS: 10000, Burst: 100},
			numRequests: 50,
			maxDuration: 500 * time.Millisecond,
		},
		{
			name:          "Low Limit - Exceed Burst & Timeout Waiting",
			cfg:           Config{RPS: 5, Burst: 2},
			numRequests:   5, // 2 use burst, the rest would wait ~200ms each
			reqTimeout:    50 * time.Millisecond,
			expectReqErrs: 3,
		},
		{
			name:        "Low Limit - Exceed Burst - Succeed Waiting",
			cfg:         Config{RPS: 10, Burst: 5},
			numRequests: 8,
			reqTimeout:  2 * time.Second,
			// (8-5) calls / 10 RPS, with a little slack for limiter rounding.
			minDuration: 250 * time.Millisecond,
		},
		{
			name:        "Low Limit - Within Burst",
			cfg:         Config{RPS: 5, Burst: 5},
			numRequests: 5,
			maxDuration: 200 * time.Millisecond,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var callCount atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				callCount.Add(1)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			var logged atomic.Bool
			logFn := func() *slog.Logger {
				logged.Store(true)
				return slog.New(slog.DiscardHandler)
			}

			rt, err := NewRoundTripper(tc.cfg, logFn, http.DefaultTransport)
			if err != nil {
				t.Fatal(err)
			}
			client := &http.Client{Transport: rt}

			var wg sync.WaitGroup
			errs := make([]error, tc.numRequests)

			start := time.Now()
			for i := range tc.numRequests {
				wg.Go(func() {
					ctx := t.Context()
					if tc.reqTimeout > 0 {
						var cancel context.CancelFunc
						ctx, cancel = context.WithTimeout(ctx, tc.reqTimeout)
						defer cancel()
					}

					req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
					if err != nil {
						errs[i] = fmt.Errorf("create req %d: %w", i, err)
						return
					}

					resp, err := client.Do(req)
					if err != nil {
						errs[i] = err
						return
					}
					resp.Body.Close()
				})
			}
			wg.Wait()
			duration := time.Since(start)

			var failed int
			for i, err := range errs {
				if err == nil {
					continue
				}
				failed++
				t.Logf("Request %d failed with: %v", i, err)
				if !errors.Is(err, ErrWaitingFailed) {
					t.Errorf("expected ErrWaitingFailed, got: %v", err)
				}
			}

			if failed != tc.expectReqErrs {
				t.Errorf("expected %d failed requests; got %d", tc.expectReqErrs, failed)
			}
			if got, want := callCount.Load(), int32(tc.numRequests-failed); got != want {
				t.Errorf("unexpected number of calls reached the server; exp %d, got %d", want, got)
			}
			if tc.minDuration > 0 && duration < tc.minDuration {
				t.Errorf("execution should be slowed down by throttle (>= %v), but took %v", tc.minDuration, duration)
			}
			if tc.maxDuration > 0 && duration > tc.maxDuration {
				t.Errorf("should be fast (< %v); but took %v", tc.maxDuration, duration)
			}
			if tc.expectReqErrs > 0 && !logged.Load() {
				t.Error("expected the logger to be resolved once tokens ran out")
			}
		})
	}
}
