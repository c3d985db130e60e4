// Package clipboard copies finished export documents to the system clipboard.
package clipboard

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

const readDocumentErrorFormat = "read export document %s: %w"

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// CopyFile places the contents of the document at path on the clipboard.
func CopyFile(copier Copier, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf(readDocumentErrorFormat, path, err)
	}
	return copier.Copy(string(data))
}

var _ Copier = (*Service)(nil)
