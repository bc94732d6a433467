package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/conduit-lang/eventc/internal/compiler/errors"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
		excludes []string
	}{
		{
			name:     "with context",
			opts:     ErrorOptions{Context: "Scene not found", Problem: "Cannot find scene 'Levle'."},
			contains: []string{"❌ SCENE NOT FOUND\n", "   Cannot find scene 'Levle'.\n"},
		},
		{
			name:     "without context",
			opts:     ErrorOptions{Level: ErrorLevelWarning, Problem: "careful"},
			contains: []string{"⚠️ careful\n"},
		},
		{
			name: "suggestions and help",
			opts: ErrorOptions{
				Problem:      "bad",
				Consequence:  "nothing written",
				Suggestions:  []string{"Level", "Menu"},
				HelpCommands: []string{"Check: eventc check"},
			},
			contains: []string{"nothing written", "Did you mean: Level, Menu?", "→ Check: eventc check"},
		},
		{
			name:     "no suggestions",
			opts:     ErrorOptions{Level: ErrorLevelInfo, Problem: "fyi"},
			contains: []string{"ℹ️ fyi"},
			excludes: []string{"Did you mean"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.NoColor = true
			out := FormatError(tt.opts)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSceneNotFoundError(t *testing.T) {
	out := SceneNotFoundError("Levle", []string{"Level", "Menu", "Credits"}, true)
	assert.Contains(t, out, "Cannot find scene 'Levle'.")
	assert.Contains(t, out, "Did you mean: Level?")
}

func TestGenerationError(t *testing.T) {
	out := GenerationError([]string{"Level", "Boss"}, true)
	assert.Contains(t, out, "2 scene(s) could not be generated: Level, Boss")
	assert.Contains(t, out, "eventc generate --json")
}

func TestWriteDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	WriteDiagnostics(&buf, nil, true)
	assert.Empty(t, buf.String())

	diagnostics := cerrors.ErrorList{
		cerrors.NewUnknownVariable(cerrors.Location{Scene: "Level", Event: "1", Parameter: cerrors.NoParameter}, "Ghost"),
		cerrors.NewUnknownObject(cerrors.Location{Scene: "Level", Event: "2", Instruction: "SetX", Parameter: 0}, "Enemy"),
	}
	WriteDiagnostics(&buf, diagnostics, true)
	out := buf.String()

	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "GEN602 Level:2:SetX[0]: "), lines[0])
	assert.Contains(t, out, "GEN607 Level:1: ")
	assert.Contains(t, out, "1 error(s), 1 warning(s)")
	assert.Less(t, strings.Index(out, "GEN602"), strings.Index(out, "GEN607"))
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"Level", "Menu", "Credits", "Level2"}

	tests := []struct {
		target string
		opts   *FuzzyMatchOptions
		want   []string
	}{
		{"Levle", nil, []string{"Level", "Level2"}},
		{"level", nil, []string{"Level", "Level2"}},
		{"level", &FuzzyMatchOptions{CaseSensitive: true, MaxDistance: 1}, []string{"Level"}},
		{"LEVEL", &FuzzyMatchOptions{CaseSensitive: true}, []string{}},
		{"Mneu", nil, []string{"Menu"}},
		{"Zzzzzzzzz", nil, []string{}},
		{"Levl", &FuzzyMatchOptions{MaxSuggestions: 1}, []string{"Level"}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, FindSimilar(tt.target, candidates, tt.opts))
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Scène", "Scene", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b), "%q -> %q", tt.a, tt.b)
	}
	assert.Empty(t, FindSimilar("Qwerty", []string{"Level"}, nil))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"NAME", "TYPE", "USED"}, &TableOptions{NoColor: true})
	table.AddRow("Sprite", "objects", "yes")
	table.AddRow("BuiltinObject", "base")
	table.Render()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME           TYPE     USED", lines[0])
	assert.Equal(t, "─────────────  ───────  ────", lines[1])
	assert.Equal(t, "Sprite         objects  yes", lines[2])
	assert.Equal(t, "BuiltinObject  base     ", lines[3])
	assert.Equal(t, 2, table.Len())
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewKeyValueTable(&buf, true)
	table.AddRow("Scenes", "2")
	table.AddRow("Cache hits", "1")
	table.Render()

	assert.Equal(t, "Scenes:     2\nCache hits: 1\n", buf.String())
}

func TestWithSpinner(t *testing.T) {
	var buf bytes.Buffer
	err := WithSpinner(&buf, "Generating", true, func(status func(string)) error {
		status("Generating functions")
		time.Sleep(30 * time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ Generating")

	buf.Reset()
	boom := errors.New("boom")
	err = WithSpinner(&buf, "Generating", true, func(func(string)) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "❌ Generating failed")
}

func TestSpinnerUpdateMessage(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, SpinnerOptions{Message: "Generating Game", NoColor: true, Interval: time.Millisecond})
	s.Start()
	s.UpdateMessage("Generating functions of Game")
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	assert.Contains(t, buf.String(), "Generating functions of Game")
}

func TestSpinnerStopTwice(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, SpinnerOptions{Message: "x", NoColor: true, Interval: time.Millisecond})
	s.Start()
	s.Start()
	s.UpdateMessage("y")
	s.Stop()
	s.Stop()
}
