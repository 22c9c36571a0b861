package async

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestResult_Wait(t *testing.T) {
	r := Go(t.Context(), func(ctx context.Context) (string, error) {
		return "hello", nil
	})

	got, err := r.Wait()
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
}

func TestResult_Wait_ErrorUnaltered(t *testing.T) {
	wantErr := errors.New("boom")

	r := Go(t.Context(), func(ctx context.Context) (int, error) {
		return 0, wantErr
	})

	if _, err := r.Wait(); err != wantErr {
		t.Errorf("expected the exact error %v, got %v", wantErr, err)
	}
}

func TestResult_Err(t *testing.T) {
	wantErr := errors.New("single fail")

	r := Go(t.Context(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, wantErr
	})

	if err := r.Err(); !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

func TestResult_Done(t *testing.T) {
	release := make(chan struct{})

	r := Go(t.Context(), func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	select {
	case <-r.Done():
		t.Fatal("Done channel closed before work finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)

	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatal("Done channel was not closed in time")
	}
}

func TestResult_Panic(t *testing.T) {
	r := Go(t.Context(), func(ctx context.Context) ([]byte, error) {
		panic("kaboom")
	})

	got, err := r.Wait()
	if got != nil {
		t.Errorf("expected zero value, got %v", got)
	}

	var pErr *PanicError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected *PanicError, got %T: %v", err, err)
	}
	if pErr.Value != "kaboom" {
		t.Errorf("expected panic value %q, got %v", "kaboom", pErr.Value)
	}
	if !strings.Contains(pErr.Error(), "kaboom") {
		t.Errorf("expected error text to contain panic value, got %q", pErr.Error())
	}
}

func TestResult_ContextValuesPassed(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(t.Context(), key{}, "v")

	r := Go(ctx, func(ctx context.Context) (string, error) {
		s, _ := ctx.Value(key{}).(string)
		return s, nil
	})

	if got, _ := r.Wait(); got != "v" {
		t.Errorf("expected context value %q, got %q", "v", got)
	}
}

func TestResult_RunConcurrently(t *testing.T) {
	const total = 10

	var running atomic.Int32
	var maxRunning atomic.Int32
	barrier := make(chan struct{})

	results := make([]*Result[int], 0, total)
	for i := range total {
		results = append(results, Go(t.Context(), func(ctx context.Context) (int, error) {
			cur := running.Add(1)
			for {
				old := maxRunning.Load()
				if cur <= old || maxRunning.CompareAndSwap(old, cur) {
					break
				}
			}
			<-barrier
			running.Add(-1)
			return i, nil
		}))
	}

	deadline := time.Now().Add(time.Second)
	for maxRunning.Load() < total && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	close(barrier)

	for i, r := range results {
		got, err := r.Wait()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != i {
			t.Errorf("result %d returned %d", i, got)
		}
	}

	if peak := maxRunning.Load(); peak < int32(total) {
		t.Errorf("expected all %d to run concurrently, peak was %d", total, peak)
	}
}
