package async

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Func is the signature for async work.
type Func[T any] func(ctx context.Context) (T, error)

// Result represents an in-flight or completed unit of async work.
type Result[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// PanicError is returned by a Result whose work panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("PANIC [%v] TRACE[%s]", e.Value, string(e.Stack))
}

// Go launches fn in a new goroutine and returns a Result for tracking it.
// A panic inside fn is recovered and reported as a *PanicError.
func Go[T any](ctx context.Context, fn Func[T]) *Result[T] {
	r := &Result[T]{done: make(chan struct{})}

	go func() {
		defer close(r.done)
		defer func() {
			if rec := recover(); rec != nil {
				var zero T
				r.value = zero
				r.err = &PanicError{Value: rec, Stack: debug.Stack()}
			}
		}()

		r.value, r.err = fn(ctx)
	}()

	return r
}

// Done returns a channel that is closed when the work completes.
func (r *Result[T]) Done() <-chan struct{} { return r.done }

// Wait blocks until the work completes and returns its outcome unchanged.
func (r *Result[T]) Wait() (T, error) {
	<-r.done
	return r.value, r.err
}

// Err blocks until the work completes and returns its error.
func (r *Result[T]) Err() error {
	<-r.done
	return r.err
}
