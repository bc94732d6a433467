package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	testBinary     string
	testBinaryOnce sync.Once
	testBinaryErr  error
)

// buildTestBinary builds the eventc binary once for all tests
func buildTestBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}

	testBinaryOnce.Do(func() {
		tmpBinary := filepath.Join(os.TempDir(), "eventc-test")
		cmd := exec.Command("go", "build", "-o", tmpBinary, ".")
		if out, err := cmd.CombinedOutput(); err != nil {
			testBinaryErr = err
			testBinary = string(out)
			return
		}
		testBinary = tmpBinary
	})

	if testBinaryErr != nil {
		t.Fatalf("failed to build test binary: %v\n%s", testBinaryErr, testBinary)
	}
	return testBinary
}

func TestVersionCommand(t *testing.T) {
	binary := buildTestBinary(t)

	output, err := exec.Command(binary, "version", "--no-color").CombinedOutput()
	if err != nil {
		t.Fatalf("version command failed: %v\nOutput: %s", err, output)
	}

	for _, expected := range []string{"eventc version:", "Git commit:", "Build date:", "Go version:"} {
		if !strings.Contains(string(output), expected) {
			t.Errorf("version output missing %q\nGot: %s", expected, output)
		}
	}
}

func TestInitThenGenerate(t *testing.T) {
	binary := buildTestBinary(t)
	dir := t.TempDir()

	project := `{
  "name": "Game",
  "layouts": [
    {
      "name": "Level",
      "variables": [{"name": "Score", "type": "number", "value": "0"}],
      "events": [
        {
          "type": "BuiltinCommonInstructions::Standard",
          "actions": [{"type": "ModVarScene", "parameters": ["Score", "+", "1"]}]
        }
      ]
    }
  ]
}`
	if err := os.WriteFile(filepath.Join(dir, "game.json"), []byte(project), 0644); err != nil {
		t.Fatal(err)
	}

	for _, args := range [][]string{
		{"init", "--yes"},
		{"check"},
		{"generate"},
	} {
		cmd := exec.Command(binary, append(args, "--no-color")...)
		cmd.Dir = dir
		if output, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("%s failed: %v\nOutput: %s", args[0], err, output)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "build", "LevelCode.js")); err != nil {
		t.Errorf("generated scene not written: %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	binary := buildTestBinary(t)

	output, err := exec.Command(binary, "compile").CombinedOutput()
	if err == nil {
		t.Fatalf("expected unknown command to fail\nOutput: %s", output)
	}
	if !strings.Contains(string(output), "unknown command") {
		t.Errorf("expected unknown command error, got: %s", output)
	}
}
