package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/eventc/internal/cli/config"
)

const gameJSON = `{
  "name": "Game",
  "layouts": [
    {
      "name": "Level",
      "objects": [{"name": "Player", "type": "Sprite"}],
      "events": [
        {
          "type": "BuiltinCommonInstructions::Standard",
          "actions": [{"type": "SetX", "parameters": ["Player", "+", "5"]}]
        }
      ]
    },
    {
      "name": "Menu",
      "events": [{"type": "BuiltinCommonInstructions::Comment", "comment": "menu"}]
    }
  ]
}`

const brokenGameJSON = `{
  "name": "Game",
  "layouts": [
    {
      "name": "Level",
      "objects": [{"name": "Player", "type": "Sprite"}],
      "events": [
        {
          "type": "BuiltinCommonInstructions::Standard",
          "actions": [{"type": "NoSuchAction", "parameters": ["Player"]}]
        }
      ]
    }
  ]
}`

// syncBuffer is a bytes.Buffer safe for a command writing from another
// goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testProject writes a project and its configuration to a temporary
// directory and returns the configuration path
func testProject(t *testing.T, project string, configure func(*config.Config)) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.json"), []byte(project), 0644))

	cfg := config.Default()
	cfg.OutputDir = filepath.Join(dir, "build")
	if configure != nil {
		configure(cfg)
	}
	configPath = filepath.Join(dir, config.FileName)
	require.NoError(t, config.Write(configPath, cfg))
	return dir, configPath
}

func execute(t *testing.T, ctx context.Context, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut syncBuffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--no-color"))
	err = cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return execute(t, context.Background(), args...)
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "eventc", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "generate", "check", "extensions", "init", "watch", "history", "lsp"} {
		assert.Contains(t, names, expected)
	}

	for _, flag := range []string{"config", "verbose", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	t.Cleanup(func() {
		Version = "dev"
		GitCommit = "unknown"
	})

	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "eventc version: 1.0.0-test")
	assert.Contains(t, stdout, "Git commit: abc123")
	assert.Contains(t, stdout, "Go version:")
}

func TestGenerateCommand(t *testing.T) {
	dir, configPath := testProject(t, gameJSON, nil)

	stdout, _, err := run(t, "generate", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 2 file(s)")

	code, err := os.ReadFile(filepath.Join(dir, "build", "LevelCode.js"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "setX")
	assert.FileExists(t, filepath.Join(dir, "build", "MenuCode.js"))
}

func TestGenerateCommand_Flags(t *testing.T) {
	dir, configPath := testProject(t, gameJSON, nil)
	output := filepath.Join(dir, "native")

	_, _, err := run(t, "generate", filepath.Join(dir, "game.json"),
		"--config", configPath, "--scene", "Level", "--platform", "native", "--output", output)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(output, "LevelCode.cpp"))
	assert.NoFileExists(t, filepath.Join(output, "MenuCode.cpp"))
}

func TestGenerateCommand_UnknownScene(t *testing.T) {
	_, configPath := testProject(t, gameJSON, nil)

	_, stderr, err := run(t, "generate", "--config", configPath, "--scene", "Levle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scene "Levle" not found`)
	assert.Contains(t, stderr, "SCENE NOT FOUND")
	assert.Contains(t, stderr, "Did you mean: Level?")
}

func TestGenerateCommand_UnknownPlatform(t *testing.T) {
	_, configPath := testProject(t, gameJSON, nil)

	_, _, err := run(t, "generate", "--config", configPath, "--platform", "flash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target")
}

func TestGenerateCommand_FailedScene(t *testing.T) {
	dir, configPath := testProject(t, brokenGameJSON, nil)

	stdout, stderr, err := run(t, "generate", "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 unit(s) failed to generate")
	assert.Contains(t, stdout, "GEN601")
	assert.Contains(t, stderr, "GENERATION FAILED")
	assert.NoFileExists(t, filepath.Join(dir, "build", "LevelCode.js"))
}

func TestGenerateCommand_JSON(t *testing.T) {
	_, configPath := testProject(t, brokenGameJSON, nil)

	stdout, stderr, err := run(t, "generate", "--config", configPath, "--json")
	require.Error(t, err)
	assert.Empty(t, stderr)

	var diagnostics []struct {
		Code     string `json:"code"`
		Severity string `json:"severity"`
		Location struct {
			Scene string `json:"scene"`
		} `json:"location"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &diagnostics))
	require.NotEmpty(t, diagnostics)
	assert.Equal(t, "GEN601", diagnostics[0].Code)
	assert.Equal(t, "error", diagnostics[0].Severity)
	assert.Equal(t, "Level", diagnostics[0].Location.Scene)
}

func TestGenerateCommand_RecordsHistory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	_, configPath := testProject(t, gameJSON, func(cfg *config.Config) {
		cfg.History.DSN = dbPath
	})

	_, _, err := run(t, "generate", "--config", configPath)
	require.NoError(t, err)

	stdout, _, err := run(t, "history", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "STARTED")
	assert.Contains(t, stdout, "Level")
	assert.Contains(t, stdout, "Menu")
	assert.Contains(t, stdout, "ok")

	stdout, _, err = run(t, "history", "--config", configPath, "--scene", "Menu")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Menu")
	assert.NotContains(t, stdout, "Level")
}

func TestGenerateCommand_HistoryUnavailable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing", "history.db")
	dir, configPath := testProject(t, gameJSON, func(cfg *config.Config) {
		cfg.History.DSN = dbPath
	})

	_, stderr, err := run(t, "generate", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Generation history was not recorded")
	assert.FileExists(t, filepath.Join(dir, "build", "LevelCode.js"))
}

func TestHistoryCommand_Disabled(t *testing.T) {
	_, configPath := testProject(t, gameJSON, nil)

	_, stderr, err := run(t, "history", "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, stderr, "No history database is configured")
}

func TestCheckCommand(t *testing.T) {
	dir, configPath := testProject(t, gameJSON, nil)

	stdout, _, err := run(t, "check", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Game: 2 scene(s) and 0 function(s) checked")
	assert.NoDirExists(t, filepath.Join(dir, "build"))
}

func TestCheckCommand_Errors(t *testing.T) {
	_, configPath := testProject(t, brokenGameJSON, nil)

	stdout, _, err := run(t, "check", "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Game: 1 error(s)")
	assert.Contains(t, stdout, "GEN601 Level")
	assert.Contains(t, stdout, "1 error(s), 0 warning(s)")
}

func TestCheckCommand_Compact(t *testing.T) {
	dir, configPath := testProject(t, brokenGameJSON, nil)

	stdout, _, err := run(t, "check", "--compact", "--config", configPath)
	require.Error(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], filepath.Join(dir, "game.json")+":Level:1"), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "[GEN601]"), lines[0])
	assert.NotContains(t, stdout, "checked")
}

func TestCheckCommand_MissingProject(t *testing.T) {
	_, configPath := testProject(t, gameJSON, nil)

	_, _, err := run(t, "check", "missing.json", "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read project")
}

func TestExtensionsListCommand(t *testing.T) {
	stdout, _, err := run(t, "extensions", "list", "--platform", "js")
	require.NoError(t, err)

	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "BuiltinCommonInstructions")
	assert.Contains(t, stdout, "Sprite")
}

func TestExtensionsListCommand_JSON(t *testing.T) {
	stdout, _, err := run(t, "extensions", "list", "--platform", "native", "--json")
	require.NoError(t, err)

	var catalog struct {
		Platform    string `json:"platform"`
		Fingerprint string `json:"fingerprint"`
		Extensions  []struct {
			Name string `json:"name"`
		} `json:"extensions"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &catalog))
	assert.Equal(t, "native", catalog.Platform)
	assert.NotEmpty(t, catalog.Fingerprint)
	assert.NotEmpty(t, catalog.Extensions)
}

func TestExtensionsShowCommand(t *testing.T) {
	stdout, _, err := run(t, "extensions", "show", "BuiltinObject", "--platform", "js")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Name:")
	assert.Contains(t, stdout, "BuiltinObject")
	assert.Contains(t, stdout, "actions:")

	_, stderr, err := run(t, "extensions", "show", "Sprit", "--platform", "js")
	require.Error(t, err)
	assert.Contains(t, stderr, "Did you mean:")
	assert.Contains(t, stderr, "Sprite")
}

func TestExtensionsUsedCommand(t *testing.T) {
	dir, configPath := testProject(t, gameJSON, nil)

	stdout, _, err := run(t, "extensions", "used", filepath.Join(dir, "game.json"), "--config", configPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Contains(t, lines, "BuiltinCommonInstructions")
	assert.Contains(t, lines, "Sprite")
	assert.NotContains(t, lines, "TextObject")
}

func TestExtensionsExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog", "extensions.json")

	_, _, err := run(t, "extensions", "export", path, "--platform", "js")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"platform": "js"`)
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := run(t, "init", "--yes", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created")

	cfg, err := config.LoadFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "game.json", cfg.Project)
	assert.Equal(t, "js", cfg.Platform)

	_, _, err = run(t, "init", "--yes", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = run(t, "init", "--yes", "--force", "--dir", dir)
	require.NoError(t, err)
}

func TestWatchCommand(t *testing.T) {
	_, configPath := testProject(t, gameJSON, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"watch", "--config", configPath, "--port", "0", "--no-output", "--no-color"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Press Ctrl+C to stop")
	}, 10*time.Second, 20*time.Millisecond)
	assert.Contains(t, out.String(), "eventc preview server")
	assert.Contains(t, out.String(), "ws://127.0.0.1:")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Contains(t, out.String(), "Shutting down")
}

func TestLSPCommand_UnknownPlatform(t *testing.T) {
	_, configPath := testProject(t, gameJSON, nil)

	_, _, err := run(t, "lsp", "--config", configPath, "--platform", "flash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target")
}
