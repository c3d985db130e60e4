// Package tokenizer estimates how many model tokens an export document costs.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const (
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	initializeTokenizerErrorFormat = "initialize tokenizer for %s: %w"
)

var errMissingEncoding = errors.New("tiktoken encoding not loaded")

// encodingCounter counts tokens with one tiktoken encoding.
type encodingCounter struct {
	encoding *tiktoken.Tiktoken
	label    string
}

func (counter encodingCounter) Name() string {
	return counter.label
}

func (counter encodingCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errMissingEncoding
	}
	return len(counter.encoding.EncodeOrdinary(input)), nil
}

// NewCounter returns a tiktoken counter for the requested model together with
// the name the count should be reported under. Models tiktoken does not know
// fall back to the cl100k_base encoding.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	lowerModel := strings.ToLower(model)

	if isOpenAIModel(lowerModel) {
		encoding, err := tiktoken.EncodingForModel(lowerModel)
		if err == nil && encoding != nil {
			return encodingCounter{encoding: encoding, label: lowerModel}, model, nil
		}
	}
	fallback, err := tiktoken.GetEncoding(defaultEncodingName)
	if err != nil {
		return nil, "", fmt.Errorf(initializeTokenizerErrorFormat, defaultEncodingName, err)
	}
	return encodingCounter{encoding: fallback, label: defaultEncodingName}, defaultEncodingName, nil
}

func isOpenAIModel(model string) bool {
	prefixes := []string{
		"gpt-",
		"o1",
		"o3",
		"text-embedding",
		"davinci",
		"curie",
		"babbage",
		"ada",
		"code-",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
