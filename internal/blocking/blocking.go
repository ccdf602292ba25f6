// Package blocking runs operations that may block for a while (lock
// acquisition, mostly) on their own goroutine, so the caller can give up
// when its context ends and a fault in the operation comes back as an
// error instead of taking the process down.
package blocking

import (
	"context"
	"fmt"
	"runtime/debug"
)

// PanicError is returned by Do when the operation panicked.
type PanicError struct {
	Value any    // Value passed to panic
	Stack []byte // Stack of the goroutine that panicked
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("blocking operation panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

type result[T any] struct {
	value T
	err   error
}

// Do runs fn on a new goroutine and waits for it to finish or for ctx to
// end, whichever comes first. When ctx ends first Do returns ctx.Err(); fn
// keeps the same ctx and is expected to notice and return on its own. If fn
// has already finished by the time Do sees ctx end, its result is returned.
func Do[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	// Buffered so the worker never blocks on send after the caller left.
	done := make(chan result[T], 1)

	go func() {
		var res result[T]
		defer func() {
			if v := recover(); v != nil {
				res = result[T]{err: &PanicError{Value: v, Stack: debug.Stack()}}
			}
			done <- res
		}()
		res.value, res.err = fn(ctx)
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		// A result that is already waiting beats the context.
		select {
		case res := <-done:
			return res.value, res.err
		default:
		}
		var zero T
		return zero, ctx.Err()
	}
}
