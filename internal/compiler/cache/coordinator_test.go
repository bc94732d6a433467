package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/eventc/internal/compiler/codegen"
	"github.com/conduit-lang/eventc/internal/compiler/events"
	"github.com/conduit-lang/eventc/internal/compiler/extensions"
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
)

func newTestCoordinator(t *testing.T, store Store) (*Coordinator, *platform.Platform) {
	t.Helper()
	backend, err := codegen.NewBackend(platform.TargetJS)
	require.NoError(t, err)
	p := extensions.NewPlatform(platform.TargetJS)
	return NewCoordinator(p, backend, store, nil), p
}

func TestCoordinator_Generate(t *testing.T) {
	store := NewMemoryStore()
	coordinator, _ := newTestCoordinator(t, store)
	proj := keyProject()
	ctx := context.Background()

	results, metrics, err := coordinator.Generate(ctx, proj)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Level", results[0].Name)
	assert.Contains(t, results[0].Code, "gdjs.LevelCode.GDPlayerObjects1[i].setX(1);")
	assert.Equal(t, 0, metrics.CacheHits)
	assert.Equal(t, 2, metrics.CacheMisses)
	assert.Equal(t, 2, metrics.ScenesGenerated)
	assert.Equal(t, 2, store.Size())

	again, metrics, err := coordinator.Generate(ctx, proj)
	require.NoError(t, err)
	assert.Equal(t, 2, metrics.CacheHits)
	assert.Equal(t, 0, metrics.ScenesGenerated)
	assert.Equal(t, 100.0, metrics.CacheHitRate())
	assert.Equal(t, results[0].Code, again[0].Code)
	assert.Equal(t, results[0].Includes, again[0].Includes)
	assert.Equal(t, metrics, coordinator.GetMetrics())
}

func TestCoordinator_RegeneratesChangedScenes(t *testing.T) {
	coordinator, _ := newTestCoordinator(t, NewMemoryStore())
	proj := keyProject()
	ctx := context.Background()

	_, _, err := coordinator.Generate(ctx, proj)
	require.NoError(t, err)

	proj.Scenes[0].Events[0].Actions[0].SetParameter(2, "42")
	results, metrics, err := coordinator.Generate(ctx, proj)
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.CacheHits)
	assert.Equal(t, 1, metrics.ScenesGenerated)
	assert.Contains(t, results[0].Code, ".setX(42);")
}

func TestCoordinator_FailedScenesAreNotStored(t *testing.T) {
	store := NewMemoryStore()
	coordinator, _ := newTestCoordinator(t, store)
	proj := keyProject()
	proj.Scenes[1].Events = []*events.Event{
		events.NewStandardEvent(nil, []*events.Instruction{events.NewInstruction("DoesNotExist")}),
	}

	results, _, err := coordinator.Generate(context.Background(), proj, "Menu")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed)
	assert.Empty(t, results[0].Code)
	assert.Equal(t, 0, store.Size())
}

func TestCoordinator_PlatformChangeClearsStore(t *testing.T) {
	store := NewMemoryStore()
	coordinator, p := newTestCoordinator(t, store)
	proj := keyProject()
	ctx := context.Background()

	_, _, err := coordinator.Generate(ctx, proj, "Level")
	require.NoError(t, err)

	p.AddExtension(metadata.NewExtension("Extra", "Extra", "Extra", "An extension loaded later", "", "MIT"))

	_, metrics, err := coordinator.Generate(ctx, proj, "Level")
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.CacheHits)
	assert.Equal(t, 1, metrics.ScenesGenerated)
	assert.Equal(t, 1, store.Size())
}

func TestCoordinator_UnknownScene(t *testing.T) {
	coordinator, _ := newTestCoordinator(t, NewMemoryStore())

	_, _, err := coordinator.Generate(context.Background(), keyProject(), "Nowhere")
	assert.Error(t, err)
}

func TestCoordinator_WithRedis(t *testing.T) {
	store, _ := setupTestRedis(t)
	coordinator, _ := newTestCoordinator(t, store)
	ctx := context.Background()

	_, _, err := coordinator.Generate(ctx, keyProject(), "Level")
	require.NoError(t, err)

	results, metrics, err := coordinator.Generate(ctx, keyProject(), "Level")
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.CacheHits)
	assert.Contains(t, results[0].Code, "gdjs.LevelCode.func")

	require.NoError(t, coordinator.Clear(ctx))
	_, metrics, err = coordinator.Generate(ctx, keyProject(), "Level")
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.CacheHits)
}
