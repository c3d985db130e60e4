package stream_test

import (
	"context"
	"errors"
	"testing"

	"github.com/temirov/ctxpack/internal/services/stream"
)

func TestEmitterStampsEvents(t *testing.T) {
	events := make(chan stream.Event, 4)
	emitter := stream.NewEmitter(context.Background(), events, "export")

	if err := emitter.Log(stream.EventKindInfo, stream.LevelInfo, "/tmp/root", "hello\n"); err != nil {
		t.Fatalf("log: %v", err)
	}
	if err := emitter.Log(stream.EventKindInfo, stream.LevelInfo, "/tmp/root", "\n"); err != nil {
		t.Fatalf("empty log: %v", err)
	}
	if err := emitter.Fail("/tmp/root", errors.New("disk full")); err != nil {
		t.Fatalf("fail: %v", err)
	}
	close(events)

	var collected []stream.Event
	for event := range events {
		collected = append(collected, event)
	}
	if len(collected) != 2 {
		t.Fatalf("expected two events, got %d", len(collected))
	}
	first := collected[0]
	if first.Version != stream.SchemaVersion || first.Command != "export" || first.EmittedAt.IsZero() {
		t.Fatalf("event not stamped: %+v", first)
	}
	if first.Text() != "hello" || first.LevelOf() != stream.LevelInfo {
		t.Fatalf("unexpected log line %q at %s", first.Text(), first.LevelOf())
	}
	second := collected[1]
	if second.Kind != stream.EventKindError || second.LevelOf() != stream.LevelError || second.Err == nil {
		t.Fatalf("unexpected error event: %+v", second)
	}
}

func TestEmitterHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	emitter := stream.NewEmitter(ctx, make(chan stream.Event), "export")
	if err := emitter.Send(stream.Event{Kind: stream.EventKindInfo}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestEmitterRequiresChannel(t *testing.T) {
	emitter := stream.NewEmitter(context.Background(), nil, "export")
	if err := emitter.Send(stream.Event{}); !errors.Is(err, stream.ErrNilChannel) {
		t.Fatalf("expected ErrNilChannel, got %v", err)
	}
}
