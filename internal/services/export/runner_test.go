package export_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ctxpack/internal/commands"
	"github.com/temirov/ctxpack/internal/services/export"
	"github.com/temirov/ctxpack/internal/services/stream"
)

func TestRunnerRejectsConcurrentRuns(t *testing.T) {
	root := writeProject(t)
	options := export.Options{
		Root:       root,
		OutputPath: filepath.Join(t.TempDir(), "out.txt"),
		Source:     commands.RuleSource{},
	}
	runner := &export.Runner{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan stream.Event)
	finished := make(chan error, 1)
	go func() {
		finished <- runner.Run(ctx, options, events)
	}()

	first := <-events
	require.Equal(t, stream.EventKindStart, first.Kind)
	require.True(t, runner.Running())

	secondError := runner.Run(context.Background(), options, make(chan stream.Event, 64))
	require.ErrorIs(t, secondError, export.ErrRunInProgress)

	cancel()
	require.True(t, errors.Is(<-finished, context.Canceled))
	require.False(t, runner.Running())
}

func TestDispatchPropagatesConsumerErrors(t *testing.T) {
	consumerError := errors.New("sink closed")
	err := export.Dispatch(context.Background(), func(ctx context.Context, ch chan<- stream.Event) error {
		emitter := stream.NewEmitter(ctx, ch, "export")
		for index := 0; index < 3; index++ {
			if sendError := emitter.Send(stream.Event{Kind: stream.EventKindInfo}); sendError != nil {
				return sendError
			}
		}
		return nil
	}, func(stream.Event) error {
		return consumerError
	})
	require.ErrorIs(t, err, consumerError)
}

func TestDispatchIgnoresCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := export.Dispatch(ctx, func(ctx context.Context, ch chan<- stream.Event) error {
		return stream.NewEmitter(ctx, ch, "export").Send(stream.Event{Kind: stream.EventKindInfo})
	}, func(stream.Event) error {
		return nil
	})
	require.NoError(t, err)
}
