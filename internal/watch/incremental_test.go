package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementalGenerator_Build(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, projectJSON)
	outputDir := filepath.Join(dir, "build")
	recorder := &fakeRecorder{}
	gen, _ := newTestGenerator(t, path, outputDir, recorder)

	result, err := gen.Build(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "Level", result.Results[0].Name)
	assert.Equal(t, "Menu", result.Results[1].Name)
	assert.NotEmpty(t, result.Hash)
	assert.Equal(t, 2, result.Metrics.CacheMisses)
	assert.Empty(t, result.FailedScenes())

	assert.ElementsMatch(t, []string{
		filepath.Join(outputDir, "LevelCode.js"),
		filepath.Join(outputDir, "MenuCode.js"),
	}, result.GeneratedFiles)
	code, err := os.ReadFile(filepath.Join(outputDir, "LevelCode.js"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "gdjs.LevelCode")

	require.NotNil(t, gen.Project())
	assert.Equal(t, "Game", gen.Project().Name)
	assert.Same(t, result, gen.LastBuild())

	runs := recorder.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, "Game", runs[0].Project)
	assert.Equal(t, "js", runs[0].Backend)
	assert.True(t, runs[0].Success)
	assert.Contains(t, runs[0].Extensions, "Sprite")
}

func TestIncrementalGenerator_RebuildUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, projectJSON)
	gen, _ := newTestGenerator(t, path, "", nil)

	first, err := gen.Build(context.Background())
	require.NoError(t, err)
	second, err := gen.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, second.Metrics.CacheHits)
	assert.Equal(t, first.Hash, second.Hash)
	assert.Empty(t, second.GeneratedFiles)
}

func TestIncrementalGenerator_FailedSceneKeepsPreviousCode(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, projectJSON)
	gen, _ := newTestGenerator(t, path, "", nil)

	_, err := gen.Build(context.Background())
	require.NoError(t, err)
	good, ok := gen.Scene("Level")
	require.True(t, ok)
	require.NotEmpty(t, good.Code)

	writeProject(t, dir, brokenProjectJSON)
	result, err := gen.Build(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, []string{"Level"}, result.FailedScenes())
	assert.True(t, result.Diagnostics.HasErrors())
	assert.Equal(t, 1, result.Metrics.CacheHits, "Menu did not change")

	level, ok := gen.Scene("Level")
	require.True(t, ok)
	assert.True(t, level.Failed)
	assert.Equal(t, good.Code, level.Code)
	assert.NotEmpty(t, level.Diagnostics)

	scenes := gen.Scenes()
	require.Len(t, scenes, 2)
	assert.Equal(t, "Level", scenes[0].Name)
	assert.Equal(t, "Menu", scenes[1].Name)
}

func TestIncrementalGenerator_FailedSceneWithoutPreviousCode(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, brokenProjectJSON)
	gen, _ := newTestGenerator(t, path, "", nil)

	result, err := gen.Build(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Success)

	level, ok := gen.Scene("Level")
	require.True(t, ok)
	assert.Empty(t, level.Code)
}

func TestIncrementalGenerator_LoadError(t *testing.T) {
	dir := t.TempDir()
	gen, _ := newTestGenerator(t, filepath.Join(dir, "missing.json"), "", nil)

	_, err := gen.Build(context.Background())
	assert.Error(t, err)
	assert.Nil(t, gen.Project())
	assert.Nil(t, gen.LastBuild())
}

func TestIncrementalGenerator_ClearCache(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, projectJSON)
	gen, _ := newTestGenerator(t, path, "", nil)

	_, err := gen.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, gen.ClearCache(context.Background()))

	result, err := gen.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Metrics.CacheHits)
	assert.Equal(t, 2, result.Metrics.ScenesGenerated)
}
