package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputFileName returns the file the code of a scene or function is
// written to: the mangled name followed by Code and the target extension.
func OutputFileName(backend Backend, name string) string {
	ext := ".js"
	if backend.Name() == "native" {
		ext = ".cpp"
	}
	return MangleName(strings.ReplaceAll(name, "::", "__")) + "Code" + ext
}

// WriteResults writes the code of every successful result to dir and
// returns the written paths. Failed results are skipped.
func WriteResults(dir string, backend Backend, results []Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, result := range results {
		if result.Failed {
			continue
		}
		path := filepath.Join(dir, OutputFileName(backend, result.Name))
		if err := os.WriteFile(path, []byte(result.Code), 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
