package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Catalog is the serializable description of a set of extensions, used by
// `eventc extensions list --json` and the preview server
type Catalog struct {
	Platform    string               `json:"platform"`
	Fingerprint string               `json:"fingerprint"`
	Extensions  []*PlatformExtension `json:"extensions"`
}

// ExtensionSummary is one line of an extension listing
type ExtensionSummary struct {
	Name           string `json:"name"`
	FullName       string `json:"fullName"`
	Conditions     int    `json:"conditions"`
	Actions        int    `json:"actions"`
	Expressions    int    `json:"expressions"`
	StrExpressions int    `json:"strExpressions"`
	Objects        int    `json:"objects"`
	Behaviors      int    `json:"behaviors"`
	Events         int    `json:"events"`
}

// Summarize counts what an extension declares, object and behavior
// members included
func Summarize(ext *PlatformExtension) ExtensionSummary {
	s := ExtensionSummary{
		Name:      ext.Name,
		FullName:  ext.FullName,
		Objects:   len(ext.Objects),
		Behaviors: len(ext.Behaviors),
		Events:    len(ext.Events),
	}
	add := func(m Members) {
		s.Conditions += len(m.Conditions)
		s.Actions += len(m.Actions)
		s.Expressions += len(m.Expressions)
		s.StrExpressions += len(m.StrExpressions)
	}
	add(ext.Members)
	for _, obj := range ext.Objects {
		add(obj.Members)
	}
	for _, b := range ext.Behaviors {
		add(b.Members)
	}
	return s
}

// Serialize converts a catalog to JSON.
// The output is deterministic: maps are encoded with sorted keys and the
// extensions are sorted by name.
func Serialize(catalog *Catalog) ([]byte, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}

	sorted := *catalog
	sorted.Extensions = append([]*PlatformExtension(nil), catalog.Extensions...)
	sort.SliceStable(sorted.Extensions, func(i, j int) bool {
		return sorted.Extensions[i].Name < sorted.Extensions[j].Name
	})

	data, err := json.MarshalIndent(&sorted, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize catalog: %w", err)
	}

	return data, nil
}

// WriteToFile writes the JSON catalog to outputPath, creating directories
func WriteToFile(catalog *Catalog, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	data, err := Serialize(catalog)
	if err != nil {
		return err
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog to %s: %w", outputPath, err)
	}

	return nil
}
