package output

import (
	"github.com/temirov/ctxpack/internal/services/stream"
)

// StreamRenderer consumes export events as they arrive.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}
