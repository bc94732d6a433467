// Package cache stores generated scene code by content hash, so that
// watch mode and repeated builds only regenerate the scenes that changed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/conduit-lang/eventc/internal/compiler/events"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// FileHasher computes content hashes for cache keys
type FileHasher struct{}

// NewFileHasher creates a new file hasher
func NewFileHasher() *FileHasher {
	return &FileHasher{}
}

// HashFile computes a SHA-256 hash of the file contents
func (fh *FileHasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashContent computes a SHA-256 hash of the given content
func (fh *FileHasher) HashContent(content []byte) string {
	hasher := sha256.New()
	hasher.Write(content)
	return hex.EncodeToString(hasher.Sum(nil))
}

// HashString computes a SHA-256 hash of the given string
func (fh *FileHasher) HashString(content string) string {
	return fh.HashContent([]byte(content))
}

// sceneInput is everything the code of a scene depends on in the project:
// the scene itself, the external events generated in it, and the global
// objects and variables its events can see.
type sceneInput struct {
	Scene          *project.Scene     `json:"scene"`
	ExternalEvents [][]*events.Event  `json:"externalEvents,omitempty"`
	Objects        []project.Object   `json:"objects,omitempty"`
	Groups         []project.Group    `json:"groups,omitempty"`
	Variables      []project.Variable `json:"variables,omitempty"`
}

// SceneKey returns the cache key of the code of scene generated by backend
// on the platform identified by fingerprint
func (fh *FileHasher) SceneKey(proj *project.Project, scene *project.Scene, backend, fingerprint string) (string, error) {
	input := sceneInput{
		Scene:     scene,
		Objects:   proj.Objects,
		Groups:    proj.Groups,
		Variables: proj.Variables,
	}
	for _, external := range proj.ExternalEvents {
		if external.AssociatedScene == scene.Name {
			input.ExternalEvents = append(input.ExternalEvents, external.Events)
		}
	}

	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to encode scene %s: %w", scene.Name, err)
	}

	hasher := sha256.New()
	hasher.Write([]byte(backend))
	hasher.Write([]byte{0})
	hasher.Write([]byte(fingerprint))
	hasher.Write([]byte{0})
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
