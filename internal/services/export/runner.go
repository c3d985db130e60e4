package export

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/ctxpack/internal/services/stream"
)

// ErrRunInProgress is returned when an export starts while another one is still running.
var ErrRunInProgress = errors.New("export already in progress")

// Runner serializes export runs. The zero value is ready to use.
type Runner struct {
	active atomic.Bool
}

// Run executes one export, refusing to start while another run of the same
// Runner is in flight.
func (runner *Runner) Run(ctx context.Context, options Options, out chan<- stream.Event) error {
	if !runner.active.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	defer runner.active.Store(false)
	return Stream(ctx, options, out)
}

// Running reports whether an export is currently in flight.
func (runner *Runner) Running() bool {
	return runner.active.Load()
}

// Dispatch runs produce on a worker goroutine and hands every event it sends
// to consume on the calling side of the channel. Cancellation is not reported
// as an error.
func Dispatch(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
