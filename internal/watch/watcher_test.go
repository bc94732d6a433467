package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_DetectsChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, projectJSON)

	var mu sync.Mutex
	var changes [][]string
	watcher, err := NewFileWatcher([]string{dir}, []string{"*.json"}, nil, func(files []string) error {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, files)
		return nil
	}, nil)
	require.NoError(t, err)
	defer watcher.Stop()
	require.NoError(t, watcher.Start())

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(brokenProjectJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(changes) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, batch := range changes {
		for _, file := range batch {
			assert.Equal(t, "game.json", filepath.Base(file))
		}
	}
}

func TestFileWatcher_StartMissingDirectory(t *testing.T) {
	watcher, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "missing")}, nil, nil, func([]string) error { return nil }, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.Error(t, watcher.Start())
}

func TestFileWatcher_StopTwice(t *testing.T) {
	watcher, err := NewFileWatcher([]string{t.TempDir()}, nil, nil, func([]string) error { return nil }, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())

	assert.NoError(t, watcher.Stop())
	assert.NoError(t, watcher.Stop())
}

func TestFileWatcher_ShouldIgnore(t *testing.T) {
	watcher := &FileWatcher{ignored: []string{"*.swp", "*~", "build/"}}

	tests := []struct {
		path     string
		expected bool
	}{
		{"game.json", false},
		{"game.json.swp", true},
		{"game.json~", true},
		{".hidden", true},
		{"project/build/LevelCode.js", true},
		{"project/builder.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, watcher.shouldIgnore(tt.path))
		})
	}
}

func TestFileWatcher_MatchesPattern(t *testing.T) {
	tests := []struct {
		patterns []string
		path     string
		expected bool
	}{
		{[]string{"*.json"}, "game.json", true},
		{[]string{"*.json"}, "game.yml", false},
		{[]string{"*.json", "*.yml"}, "eventc.yml", true},
		{[]string{"game.toml"}, "dir/game.toml", true},
		{nil, "anything.txt", true},
	}

	for _, tt := range tests {
		watcher := &FileWatcher{patterns: tt.patterns}
		assert.Equal(t, tt.expected, watcher.matchesPattern(tt.path), "patterns %v, path %s", tt.patterns, tt.path)
	}
}

func TestDebouncer_CollapsesDuplicates(t *testing.T) {
	var mu sync.Mutex
	var batches [][]string

	debouncer := NewDebouncer(30 * time.Millisecond)
	defer debouncer.Stop()
	debouncer.SetCallback(func(files []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, files)
	})

	debouncer.Add("a.json")
	debouncer.Add("b.json")
	debouncer.Add("a.json")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a.json", "b.json"}, batches[0])
}

func TestDebouncer_SeparateBatches(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	debouncer := NewDebouncer(20 * time.Millisecond)
	defer debouncer.Stop()
	debouncer.SetCallback(func([]string) {
		mu.Lock()
		defer mu.Unlock()
		calls++
	})

	debouncer.Add("a.json")
	time.Sleep(80 * time.Millisecond)
	debouncer.Add("b.json")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 2
	}, time.Second, 10*time.Millisecond)
}

func TestDebouncer_StopCancelsPendingFlush(t *testing.T) {
	var mu sync.Mutex
	called := false

	debouncer := NewDebouncer(30 * time.Millisecond)
	debouncer.SetCallback(func([]string) {
		mu.Lock()
		defer mu.Unlock()
		called = true
	})

	debouncer.Add("a.json")
	debouncer.Stop()
	debouncer.Add("b.json")
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, called)
}
