package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/eventc/internal/compiler/cache"
	"github.com/conduit-lang/eventc/internal/compiler/codegen"
	"github.com/conduit-lang/eventc/internal/compiler/extensions"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/history"
)

const projectJSON = `{
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

const brokenProjectJSON = `{
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
    },
    {
      "name": "Menu",
      "events": [{"type": "BuiltinCommonInstructions::Comment", "comment": "menu"}]
    }
  ]
}`

type fakeRecorder struct {
	mu   sync.Mutex
	runs []*history.Run
}

func (r *fakeRecorder) Record(ctx context.Context, run *history.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRecorder) Runs() []*history.Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*history.Run(nil), r.runs...)
}

// writeProject writes content as the project file of dir
func writeProject(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "game.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestGenerator(t *testing.T, projectPath, outputDir string, recorder Recorder) (*IncrementalGenerator, *platform.Platform) {
	t.Helper()
	p := extensions.NewPlatform(platform.TargetJS)
	backend, err := codegen.NewBackend(platform.TargetJS)
	require.NoError(t, err)
	coordinator := cache.NewCoordinator(p, backend, cache.NewMemoryStore(), nil)
	return NewIncrementalGenerator(projectPath, outputDir, p, backend, coordinator, recorder, nil), p
}
