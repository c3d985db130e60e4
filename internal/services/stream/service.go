// Package stream carries export progress as a channel of events.
package stream

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNilChannel is returned when an emitter has no destination channel.
var ErrNilChannel = errors.New("stream: event channel is nil")

// Emitter stamps and sends events on a channel, honoring context cancellation.
type Emitter struct {
	ctx     context.Context
	out     chan<- Event
	command string
	now     func() time.Time
}

// NewEmitter returns an emitter sending events for command on out.
func NewEmitter(ctx context.Context, out chan<- Event, command string) *Emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Emitter{ctx: ctx, out: out, command: command, now: time.Now}
}

// Send stamps the event with the schema version, command and emission time and
// delivers it. It blocks until the consumer receives the event or ctx ends.
func (emitter *Emitter) Send(event Event) error {
	if emitter.out == nil {
		return ErrNilChannel
	}
	event.Version = SchemaVersion
	if event.Command == "" {
		event.Command = emitter.command
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = emitter.now().UTC()
	}
	select {
	case <-emitter.ctx.Done():
		return emitter.ctx.Err()
	case emitter.out <- event:
		return nil
	}
}

// Log sends a plain log line of the given kind and level.
func (emitter *Emitter) Log(kind EventKind, level Level, path string, message string) error {
	trimmed := strings.TrimRight(message, "\n")
	if trimmed == "" {
		return nil
	}
	return emitter.Send(Event{
		Kind:    kind,
		Path:    path,
		Message: &LogEvent{Level: level, Message: trimmed},
	})
}

// Warn sends a warning line, dropping delivery errors.
func (emitter *Emitter) Warn(path, message string) {
	_ = emitter.Log(EventKindWarning, LevelWarning, path, message)
}

// Fail sends an error event describing a fatal failure.
func (emitter *Emitter) Fail(path string, failure error) error {
	if failure == nil {
		return nil
	}
	return emitter.Send(Event{
		Kind:    EventKindError,
		Path:    path,
		Message: &LogEvent{Level: LevelError, Message: failure.Error()},
		Err:     &ErrorEvent{Message: failure.Error()},
	})
}
