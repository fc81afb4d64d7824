package client

import "context"

// Result carries the outcome of a call started with Go.
type Result[T any] struct {
	Value T
	Err   error
}

// Go runs fn on its own goroutine and delivers the outcome on the returned channel,
// which is buffered so the goroutine never blocks if nobody reads it. A presentation
// loop can select on the channel alongside its own events instead of blocking on I/O.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		v, err := fn(ctx)
		out <- Result[T]{Value: v, Err: err}
	}()
	return out
}
