// Package async runs a unit of work on its own goroutine and exposes
// the outcome as a [Result] that callers can poll or block on.
//
//	r := async.Go(ctx, func(ctx context.Context) ([]byte, error) {
//		return fetch(ctx)
//	})
//	// ... do other work ...
//	body, err := r.Wait()
//
// Blocking helpers in the client package are built as Go(...).Wait(),
// so only the calling goroutine waits while the work proceeds on its own.
package async
