package stream

import (
	"time"

	"github.com/temirov/ctxpack/internal/types"
)

const SchemaVersion = 1

type EventKind string

const (
	EventKindStart     EventKind = "start"
	EventKindInfo      EventKind = "info"
	EventKindTree      EventKind = "tree"
	EventKindProcessed EventKind = "processed"
	EventKindSkipped   EventKind = "skipped"
	EventKindFailed    EventKind = "failed"
	EventKindWarning   EventKind = "warning"
	EventKindSummary   EventKind = "summary"
	EventKindError     EventKind = "error"
	EventKindDone      EventKind = "done"
)

// Level tags a log line for presentation.
type Level string

const (
	LevelInfo       Level = "info"
	LevelInfoHeader Level = "info_header"
	LevelSuccess    Level = "success"
	LevelSkipped    Level = "skipped"
	LevelProcessed  Level = "processed"
	LevelWarning    Level = "warning"
	LevelError      Level = "error"
)

// Event is one progress message of an export run. Every event carries a
// human-readable Message so a log sink can print it without inspecting the payload.
type Event struct {
	Version   int       `json:"version"`
	Kind      EventKind `json:"kind"`
	Command   string    `json:"command,omitempty"`
	Path      string    `json:"path,omitempty"`
	EmittedAt time.Time `json:"emittedAt,omitempty"`

	Message *LogEvent            `json:"message,omitempty"`
	File    *FileEvent           `json:"file,omitempty"`
	Tree    *TreeEvent           `json:"tree,omitempty"`
	Summary *types.ExportSummary `json:"summary,omitempty"`
	Err     *ErrorEvent          `json:"error,omitempty"`
}

type LogEvent struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type FileEvent struct {
	RelativePath string `json:"relativePath"`
	IsDirectory  bool   `json:"isDirectory,omitempty"`
	SizeBytes    int64  `json:"sizeBytes,omitempty"`
	Tokens       int    `json:"tokens,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

type TreeEvent struct {
	Lines       int `json:"lines"`
	Files       int `json:"files"`
	Directories int `json:"directories"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}

// Text returns the log line carried by the event, or an empty string.
func (event Event) Text() string {
	if event.Message != nil {
		return event.Message.Message
	}
	if event.Err != nil {
		return event.Err.Message
	}
	return ""
}

// LevelOf returns the presentation level of the event.
func (event Event) LevelOf() Level {
	if event.Message != nil && event.Message.Level != "" {
		return event.Message.Level
	}
	if event.Kind == EventKindError {
		return LevelError
	}
	return LevelInfo
}
