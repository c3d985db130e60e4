package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/ctxpack/internal/utils"
)

type configTestCase struct {
	name              string
	globalContent     string
	localContent      string
	explicitContent   string
	expectOutput      string
	expectIncludeTree *bool
	expectHidden      *bool
	expectTokens      *bool
	expectModel       string
	expectExtensions  []string
	expectClipboard   *bool
	expectFileHeader  string
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if content == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func equalBool(expected, actual *bool) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}
	return *expected == *actual
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:              "local_overrides_global",
			globalContent:     "export:\n  output: global.txt\n  include_tree: false\nclipboard: true\n",
			localContent:      "export:\n  output: local.txt\ntokens:\n  enabled: true\n  model: gpt-4o-mini\n",
			expectOutput:      "local.txt",
			expectIncludeTree: boolPointer(false),
			expectTokens:      boolPointer(true),
			expectModel:       "gpt-4o-mini",
			expectClipboard:   boolPointer(true),
		},
		{
			name:             "explicit_overrides_local",
			localContent:     "paths:\n  hidden: false\nexclude:\n  extensions: [png]\n",
			explicitContent:  "paths:\n  hidden: true\ndocument:\n  file_header: \"# %s\"\n",
			expectHidden:     boolPointer(true),
			expectExtensions: []string{"png"},
			expectFileHeader: "# %s",
		},
		{
			name:             "lists_are_replaced_not_appended",
			globalContent:    "exclude:\n  extensions: [.log, .png]\n",
			localContent:     "exclude:\n  extensions: [.md, .md]\n",
			expectExtensions: []string{".md"},
		},
		{
			name: "nothing_configured",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			workingDirectory := t.TempDir()
			writeConfig(t, GlobalConfigurationPath(homeDirectory), testCase.globalContent)
			writeConfig(t, filepath.Join(workingDirectory, utils.ConfigFileName), testCase.localContent)
			explicitPath := ""
			if testCase.explicitContent != "" {
				explicitPath = "custom.yaml"
				writeConfig(t, filepath.Join(workingDirectory, explicitPath), testCase.explicitContent)
			}

			loaded, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: explicitPath,
				HomeDirectory:    homeDirectory,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			if loaded.Export.Output != testCase.expectOutput {
				t.Fatalf("expected output %q, got %q", testCase.expectOutput, loaded.Export.Output)
			}
			if !equalBool(testCase.expectIncludeTree, loaded.Export.IncludeTree) {
				t.Fatalf("unexpected include_tree %v", loaded.Export.IncludeTree)
			}
			if !equalBool(testCase.expectHidden, loaded.Paths.Hidden) {
				t.Fatalf("unexpected hidden %v", loaded.Paths.Hidden)
			}
			if !equalBool(testCase.expectTokens, loaded.Tokens.Enabled) {
				t.Fatalf("unexpected tokens %v", loaded.Tokens.Enabled)
			}
			if !equalBool(testCase.expectClipboard, loaded.Clipboard) {
				t.Fatalf("unexpected clipboard %v", loaded.Clipboard)
			}
			if loaded.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loaded.Tokens.Model)
			}
			if loaded.Document.FileHeader != testCase.expectFileHeader {
				t.Fatalf("expected file header %q, got %q", testCase.expectFileHeader, loaded.Document.FileHeader)
			}
			if len(loaded.Exclude.Extensions) != len(testCase.expectExtensions) {
				t.Fatalf("expected extensions %v, got %v", testCase.expectExtensions, loaded.Exclude.Extensions)
			}
			for index, extension := range testCase.expectExtensions {
				if loaded.Exclude.Extensions[index] != extension {
					t.Fatalf("expected extensions %v, got %v", testCase.expectExtensions, loaded.Exclude.Extensions)
				}
			}
		})
	}
}

func TestLoadApplicationConfigurationRequiresExplicitFile(t *testing.T) {
	_, err := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory: t.TempDir(),
		HomeDirectory:    t.TempDir(),
		ExplicitFilePath: "missing.yaml",
	})
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration")
	}
}

func TestLoadApplicationConfigurationRejectsInvalidYAML(t *testing.T) {
	workingDirectory := t.TempDir()
	writeConfig(t, filepath.Join(workingDirectory, utils.ConfigFileName), "export: [unterminated\n")
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()}); err == nil {
		t.Fatalf("expected error for invalid YAML")
	}
}

func TestRuleSetFallsBackToDefaults(t *testing.T) {
	configured := ExclusionConfiguration{Extensions: []string{"md"}}
	rules := configured.RuleSet()
	if _, excluded := rules.MatchFile("README.md"); !excluded {
		t.Fatalf("configured extension should be excluded")
	}
	if _, excluded := rules.MatchFile("image.png"); excluded {
		t.Fatalf("configured extensions replace the default list")
	}
	if !rules.ExcludesDirectory("node_modules") {
		t.Fatalf("unset directory list should fall back to defaults")
	}
}

func TestScalarDefaults(t *testing.T) {
	var empty ApplicationConfiguration
	if empty.Export.OutputPath() != DefaultOutputFileName {
		t.Fatalf("unexpected default output %q", empty.Export.OutputPath())
	}
	if empty.Tokens.TokenModel() != "gpt-4o" {
		t.Fatalf("unexpected default model %q", empty.Tokens.TokenModel())
	}
	if BoolValue(nil, true) != true || BoolValue(boolPointer(false), true) != false {
		t.Fatalf("BoolValue did not honor its arguments")
	}
}
