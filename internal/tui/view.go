package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/ctxpack/internal/output"
	"github.com/temirov/ctxpack/internal/selection"
)

const (
	checkboxIncluded = "[x]"
	checkboxExcluded = "[ ]"
	checkboxPartial  = "[~]"
	markerExpanded   = "▾ "
	markerCollapsed  = "▸ "
	markerFile       = "  "
	cursorMarker     = "> "
	noCursorMarker   = "  "
	depthIndent      = "  "

	titleFormat  = "ctxpack: %s"
	statusFormat = "tree block: %s | %d/%d files selected | output: %s"
	runningLabel = " | exporting..."
	onLabel      = "on"
	offLabel     = "off"
)

type styles struct {
	title    lipgloss.Style
	cursor   lipgloss.Style
	included lipgloss.Style
	partial  lipgloss.Style
	excluded lipgloss.Style
	banner   lipgloss.Style
	status   lipgloss.Style
	levels   output.LevelStyles
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),
		included: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		partial:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		excluded: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		banner:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("196")).Padding(0, 1),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		levels:   output.NewLevelStyles(nil),
	}
}

func (model Model) View() string {
	if model.quitting {
		return ""
	}
	var builder strings.Builder
	builder.WriteString(model.styles.title.Render(fmt.Sprintf(titleFormat, model.options.Selection.RootPath())))
	builder.WriteString("\n")
	if model.banner != "" {
		builder.WriteString(model.styles.banner.Render(model.banner))
		builder.WriteString("\n")
	}
	builder.WriteString("\n")

	end := model.offset + model.listHeight
	if end > len(model.rows) {
		end = len(model.rows)
	}
	for index := model.offset; index < end; index++ {
		builder.WriteString(model.renderRow(index))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	builder.WriteString(model.styles.status.Render(model.statusLine()))
	builder.WriteString("\n")
	if model.status != "" {
		builder.WriteString(model.status)
		builder.WriteString("\n")
	}
	for _, line := range model.visibleLog() {
		builder.WriteString(model.styles.levels.Render(line.level, line.text))
		builder.WriteString("\n")
	}
	builder.WriteString(model.help.View(model.keys))
	return builder.String()
}

func (model Model) renderRow(index int) string {
	node, found := model.options.Selection.Node(model.rows[index])
	if !found {
		return ""
	}
	marker := markerFile
	name := node.Name
	if node.IsDirectory {
		marker = markerCollapsed
		if model.expanded[node.ID] {
			marker = markerExpanded
		}
		name += "/"
	}

	var checkbox string
	switch model.options.Selection.State(node.ID) {
	case selection.StateIncluded:
		checkbox = model.styles.included.Render(checkboxIncluded)
	case selection.StatePartial:
		checkbox = model.styles.partial.Render(checkboxPartial)
	default:
		checkbox = model.styles.excluded.Render(checkboxExcluded)
	}

	line := strings.Repeat(depthIndent, node.Depth) + marker + checkbox + " " + name
	if index == model.cursor {
		return model.styles.cursor.Render(cursorMarker + line)
	}
	return noCursorMarker + line
}

func (model Model) statusLine() string {
	treeLabel := offLabel
	if model.includeTree {
		treeLabel = onLabel
	}
	included, total := model.options.Selection.Counts()
	line := fmt.Sprintf(statusFormat, treeLabel, included, total, model.options.Export.OutputPath)
	if model.running {
		line += runningLabel
	}
	return line
}

// visibleLog returns the tail of the progress log, one entry per text line.
func (model Model) visibleLog() []logLine {
	var lines []logLine
	for _, entry := range model.log {
		for _, text := range strings.Split(entry.text, "\n") {
			lines = append(lines, logLine{level: entry.level, text: text})
		}
	}
	if len(lines) > maximumLogLines {
		lines = lines[len(lines)-maximumLogLines:]
	}
	return lines
}
