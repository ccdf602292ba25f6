package blocking

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoReturnsResult(t *testing.T) {
	got, err := Do(context.Background(), func(context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestDoReturnsError(t *testing.T) {
	_, err := Do(context.Background(), func(context.Context) (int, error) {
		return 0, io.ErrUnexpectedEOF
	})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDoRecoversPanic(t *testing.T) {
	_, err := Do(context.Background(), func(context.Context) (int, error) {
		panic("boom")
	})

	var perr *PanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "boom", perr.Value)
	assert.NotEmpty(t, perr.Stack)
	assert.Contains(t, err.Error(), "boom")
}

func TestDoPanicUnwrapsError(t *testing.T) {
	_, err := Do(context.Background(), func(context.Context) (int, error) {
		panic(io.ErrClosedPipe)
	})
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestDoStopsWaitingWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	_, err := Do(ctx, func(context.Context) (int, error) {
		<-release
		return 1, nil
	})

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)
}

// lateContext reports Done only once the operation has returned, so the
// result and the cancellation are both ready when Do selects.
type lateContext struct {
	context.Context
	finished chan struct{}
}

func (c lateContext) Done() <-chan struct{} {
	<-c.finished
	time.Sleep(5 * time.Millisecond)
	closed := make(chan struct{})
	close(closed)
	return closed
}

func (c lateContext) Err() error { return context.Canceled }

func TestDoPrefersFinishedResultOverEndedContext(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(context.Context) (int, error)
		want    int
		wantErr error
	}{
		{"value", func(context.Context) (int, error) { return 7, nil }, 7, nil},
		{"error", func(context.Context) (int, error) { return 0, io.ErrUnexpectedEOF }, 0, io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				ctx := lateContext{Context: context.Background(), finished: make(chan struct{})}
				got, err := Do[int](ctx, func(ctx context.Context) (int, error) {
					defer close(ctx.(lateContext).finished)
					return tt.fn(ctx)
				})

				if tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
				} else {
					require.NoError(t, err)
				}
				require.Equal(t, tt.want, got)
			}
		})
	}
}
