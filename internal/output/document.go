package output

import (
	"bufio"
	"io"
	"strings"
)

const (
	DefaultTreeHeader       = "專案完整目錄結構:"
	DefaultFileHeaderFormat = "(%s的內容)"

	codeFence         = "```"
	pathPlaceholder   = "%s"
	blockTerminator   = "\n"
	documentLineBreak = "\n"
)

// DocumentFormat holds the header strings of an export document.
type DocumentFormat struct {
	TreeHeader string
	// FileHeader contains one %s placeholder replaced by the relative path.
	// Without a placeholder the path is appended.
	FileHeader string
}

// DefaultDocumentFormat returns the stock headers.
func DefaultDocumentFormat() DocumentFormat {
	return DocumentFormat{TreeHeader: DefaultTreeHeader, FileHeader: DefaultFileHeaderFormat}
}

func (format DocumentFormat) fileHeader(relativePath string) string {
	header := format.FileHeader
	if header == "" {
		header = DefaultFileHeaderFormat
	}
	if strings.Contains(header, pathPlaceholder) {
		return strings.Replace(header, pathPlaceholder, relativePath, 1)
	}
	return header + relativePath
}

func (format DocumentFormat) treeHeader() string {
	if format.TreeHeader == "" {
		return DefaultTreeHeader
	}
	return format.TreeHeader
}

// DocumentWriter writes the tree block and file blocks of an export document
// sequentially. Callers must call Flush once all blocks are written.
type DocumentWriter struct {
	writer  *bufio.Writer
	format  DocumentFormat
	written int64
}

// NewDocumentWriter wraps writer with buffering.
func NewDocumentWriter(writer io.Writer, format DocumentFormat) *DocumentWriter {
	return &DocumentWriter{writer: bufio.NewWriter(writer), format: format}
}

// WriteTreeBlock writes the header line, an opening fence, the tree lines, a
// closing fence and a blank line.
func (document *DocumentWriter) WriteTreeBlock(lines []string) error {
	if err := document.writeString(document.format.treeHeader() + documentLineBreak + codeFence + documentLineBreak); err != nil {
		return err
	}
	for _, line := range lines {
		if err := document.writeString(line + documentLineBreak); err != nil {
			return err
		}
	}
	return document.writeString(codeFence + documentLineBreak + blockTerminator)
}

// WriteFileBlock writes one fenced block holding content under the header for relativePath.
func (document *DocumentWriter) WriteFileBlock(relativePath string, content string) error {
	header := document.format.fileHeader(relativePath)
	if err := document.writeString(header + documentLineBreak + codeFence + documentLineBreak); err != nil {
		return err
	}
	if err := document.writeString(content); err != nil {
		return err
	}
	return document.writeString(documentLineBreak + codeFence + documentLineBreak + blockTerminator)
}

func (document *DocumentWriter) Flush() error {
	return document.writer.Flush()
}

// BytesWritten reports how many document bytes were produced so far, buffered or not.
func (document *DocumentWriter) BytesWritten() int64 {
	return document.written
}

func (document *DocumentWriter) writeString(value string) error {
	count, err := document.writer.WriteString(value)
	document.written += int64(count)
	return err
}
