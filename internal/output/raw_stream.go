package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/ctxpack/internal/services/stream"
)

type rawStreamRenderer struct {
	stdout io.Writer
	stderr io.Writer
	styles LevelStyles
}

// NewRawStreamRenderer prints one styled log line per event. Warnings and
// errors go to stderr, everything else to stdout.
func NewRawStreamRenderer(stdout, stderr io.Writer) StreamRenderer {
	return &rawStreamRenderer{
		stdout: stdout,
		stderr: stderr,
		styles: NewLevelStyles(lipgloss.NewRenderer(stdout)),
	}
}

func (renderer *rawStreamRenderer) Handle(event stream.Event) error {
	text := event.Text()
	if text == "" {
		return nil
	}
	level := event.LevelOf()
	destination := renderer.stdout
	if level == stream.LevelWarning || level == stream.LevelError {
		destination = renderer.stderr
	}
	if destination == nil {
		return nil
	}
	for _, line := range strings.Split(text, "\n") {
		if _, err := fmt.Fprintln(destination, renderer.styles.Render(level, line)); err != nil {
			return err
		}
	}
	return nil
}

func (renderer *rawStreamRenderer) Flush() error {
	return nil
}
