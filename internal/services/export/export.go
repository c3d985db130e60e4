// Package export writes the concatenated project document and reports progress as events.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/ctxpack/internal/commands"
	"github.com/temirov/ctxpack/internal/exclusion"
	"github.com/temirov/ctxpack/internal/output"
	"github.com/temirov/ctxpack/internal/services/stream"
	"github.com/temirov/ctxpack/internal/tokenizer"
	"github.com/temirov/ctxpack/internal/types"
	"github.com/temirov/ctxpack/internal/utils"
)

const (
	startedMessageFormat      = "Export started: %s"
	treeStartedMessage        = "Building directory tree..."
	treeWrittenMessageFormat  = "Directory tree written (%d directories, %d files)."
	rulesHeaderMessage        = "Exclusion rules:"
	rulesLineFormat           = "  %s: %s"
	gitignoreActiveMessage    = "  .gitignore patterns: on"
	listModeMessageFormat     = "Exporting %d selected paths."
	skippedMessageFormat      = "Skipped (%s): %s"
	processedMessageFormat    = "Processed: %s"
	failedMessageFormat       = "Failed to read %s: %v"
	tokenWarningMessageFormat = "Token count unavailable for %s: %v"
	doneMessageFormat         = "Export finished. Output written to %s"
	noneLabel                 = "(none)"

	errorResolveOutputFormat = "resolving output path %s: %w"
	errorOpenOutputFormat    = "opening output file %s: %w"
	errorWriteOutputFormat   = "writing output file %s: %w"
	errorCloseOutputFormat   = "closing output file %s: %w"
	errorTreeFormat          = "rendering directory tree: %w"
	errorCandidatesFormat    = "collecting files: %w"
)

// ErrMissingSource is returned when no candidate source was configured.
var ErrMissingSource = errors.New("export: no file source configured")

// Options configures one export run.
type Options struct {
	// Root is the absolute directory being exported.
	Root       string
	OutputPath string
	Source     commands.CandidateSource
	// Rules are only reported in the progress log; filtering happens in Source.
	Rules         *exclusion.RuleSet
	UseGitignore  bool
	IncludeTree   bool
	IncludeHidden bool
	Format        output.DocumentFormat
	TokenCounter  tokenizer.Counter
	TokenModel    string
}

// Stream performs the export described by options and sends progress events to out.
// Per-file read failures are reported and skipped. Failures to create, write or
// close the output, or to list the root, end the run with an error event and a
// returned error; the partially written file stays on disk.
func Stream(ctx context.Context, options Options, out chan<- stream.Event) error {
	emitter := stream.NewEmitter(ctx, out, types.CommandExport)
	runError := run(ctx, emitter, options)
	if runError != nil && !errors.Is(runError, context.Canceled) {
		_ = emitter.Fail(options.Root, runError)
	}
	return runError
}

func run(ctx context.Context, emitter *stream.Emitter, options Options) (runError error) {
	if options.Source == nil {
		return ErrMissingSource
	}
	if err := emitter.Log(stream.EventKindStart, stream.LevelInfoHeader, options.Root, fmt.Sprintf(startedMessageFormat, options.Root)); err != nil {
		return err
	}

	outputPath, absoluteError := filepath.Abs(options.OutputPath)
	if absoluteError != nil {
		return fmt.Errorf(errorResolveOutputFormat, options.OutputPath, absoluteError)
	}
	outputFile, openError := os.Create(outputPath)
	if openError != nil {
		return fmt.Errorf(errorOpenOutputFormat, outputPath, openError)
	}
	defer func() {
		if closeError := outputFile.Close(); closeError != nil && runError == nil {
			runError = fmt.Errorf(errorCloseOutputFormat, outputPath, closeError)
		}
	}()

	document := output.NewDocumentWriter(outputFile, options.Format)
	if options.IncludeTree {
		if err := writeTreeBlock(emitter, document, options, outputPath); err != nil {
			return err
		}
	}

	if err := reportRules(emitter, options); err != nil {
		return err
	}

	candidates, candidatesError := withWarnings(options.Source, emitter, options.Root).Candidates(options.Root)
	if candidatesError != nil {
		return fmt.Errorf(errorCandidatesFormat, candidatesError)
	}

	tally := tokenizer.NewTally(options.TokenCounter)
	summary := types.ExportSummary{}
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if candidate.Included() && filepath.Clean(candidate.AbsolutePath) == outputPath {
			candidate.Reason = exclusion.ReasonOutputFile
		}
		if !candidate.Included() {
			summary.Skipped++
			if err := sendSkipped(emitter, candidate); err != nil {
				return err
			}
			continue
		}

		data, readError := os.ReadFile(candidate.AbsolutePath)
		if readError != nil {
			summary.Failed++
			if err := emitter.Send(stream.Event{
				Kind:    stream.EventKindFailed,
				Path:    candidate.AbsolutePath,
				Message: &stream.LogEvent{Level: stream.LevelError, Message: fmt.Sprintf(failedMessageFormat, candidate.RelativePath, readError)},
				File:    &stream.FileEvent{RelativePath: candidate.RelativePath},
			}); err != nil {
				return err
			}
			continue
		}

		content := strings.ToValidUTF8(string(data), "")
		if err := document.WriteFileBlock(candidate.RelativePath, content); err != nil {
			return fmt.Errorf(errorWriteOutputFormat, outputPath, err)
		}
		tokens, tokenError := tally.Add(content)
		if tokenError != nil {
			emitter.Warn(candidate.AbsolutePath, fmt.Sprintf(tokenWarningMessageFormat, candidate.RelativePath, tokenError))
		}
		summary.Processed++
		summary.Bytes += int64(len(content))
		if err := emitter.Send(stream.Event{
			Kind:    stream.EventKindProcessed,
			Path:    candidate.AbsolutePath,
			Message: &stream.LogEvent{Level: stream.LevelProcessed, Message: fmt.Sprintf(processedMessageFormat, candidate.RelativePath)},
			File:    &stream.FileEvent{RelativePath: candidate.RelativePath, SizeBytes: int64(len(content)), Tokens: tokens},
		}); err != nil {
			return err
		}
	}

	if err := document.Flush(); err != nil {
		return fmt.Errorf(errorWriteOutputFormat, outputPath, err)
	}

	summary.DocumentBytes = document.BytesWritten()
	summary.TotalSize = utils.FormatFileSize(summary.DocumentBytes)
	if options.TokenCounter != nil {
		summary.Tokens = tally.Total()
		summary.Model = options.TokenModel
	}
	if err := emitter.Send(stream.Event{
		Kind:    stream.EventKindSummary,
		Path:    options.Root,
		Message: &stream.LogEvent{Level: stream.LevelInfo, Message: output.FormatSummaryLine(&summary)},
		Summary: &summary,
	}); err != nil {
		return err
	}
	return emitter.Log(stream.EventKindDone, stream.LevelSuccess, outputPath, fmt.Sprintf(doneMessageFormat, outputPath))
}

// withWarnings routes walk warnings of a rule source without its own callback
// into the event stream.
func withWarnings(source commands.CandidateSource, emitter *stream.Emitter, root string) commands.CandidateSource {
	ruleSource, isRuleSource := source.(commands.RuleSource)
	if !isRuleSource || ruleSource.Warn != nil {
		return source
	}
	ruleSource.Warn = func(message string) {
		emitter.Warn(root, message)
	}
	return ruleSource
}

func writeTreeBlock(emitter *stream.Emitter, document *output.DocumentWriter, options Options, outputPath string) error {
	if err := emitter.Log(stream.EventKindInfo, stream.LevelInfo, options.Root, treeStartedMessage); err != nil {
		return err
	}
	builder := commands.TreeBuilder{
		IncludeHidden: options.IncludeHidden,
		Warn: func(message string) {
			emitter.Warn(options.Root, message)
		},
	}
	tree, buildError := builder.Build(options.Root)
	if buildError != nil {
		return fmt.Errorf(errorTreeFormat, buildError)
	}
	lines := output.RenderTree(tree)
	if err := document.WriteTreeBlock(lines); err != nil {
		return fmt.Errorf(errorWriteOutputFormat, outputPath, err)
	}
	files, directories := tree.CountEntries()
	return emitter.Send(stream.Event{
		Kind:    stream.EventKindTree,
		Path:    options.Root,
		Message: &stream.LogEvent{Level: stream.LevelSuccess, Message: fmt.Sprintf(treeWrittenMessageFormat, directories, files)},
		Tree:    &stream.TreeEvent{Lines: len(lines), Files: files, Directories: directories},
	})
}

func reportRules(emitter *stream.Emitter, options Options) error {
	if options.Rules == nil {
		if listed, isList := options.Source.(commands.ListSource); isList {
			return emitter.Log(stream.EventKindInfo, stream.LevelInfo, options.Root, fmt.Sprintf(listModeMessageFormat, len(listed.Files)))
		}
		return nil
	}
	lines := []string{
		rulesHeaderMessage,
		fmt.Sprintf(rulesLineFormat, "extensions", joinOrNone(options.Rules.Extensions())),
		fmt.Sprintf(rulesLineFormat, "directories", joinOrNone(options.Rules.Directories())),
		fmt.Sprintf(rulesLineFormat, "files", joinOrNone(options.Rules.Files())),
	}
	if options.UseGitignore {
		lines = append(lines, gitignoreActiveMessage)
	}
	return emitter.Log(stream.EventKindInfo, stream.LevelInfo, options.Root, strings.Join(lines, "\n"))
}

func sendSkipped(emitter *stream.Emitter, candidate commands.Candidate) error {
	displayPath := candidate.RelativePath
	if candidate.IsDirectory {
		displayPath += "/"
	}
	return emitter.Send(stream.Event{
		Kind:    stream.EventKindSkipped,
		Path:    candidate.AbsolutePath,
		Message: &stream.LogEvent{Level: stream.LevelSkipped, Message: fmt.Sprintf(skippedMessageFormat, candidate.Reason, displayPath)},
		File: &stream.FileEvent{
			RelativePath: candidate.RelativePath,
			IsDirectory:  candidate.IsDirectory,
			Reason:       string(candidate.Reason),
		},
	})
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return noneLabel
	}
	return strings.Join(values, ", ")
}
