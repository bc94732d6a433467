package watch

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// AssetWatcher reloads preview clients when files the generated code
// depends on at runtime change
type AssetWatcher struct {
	reloadServer *ReloadServer
	logger       *zap.Logger
}

// NewAssetWatcher creates a new asset watcher
func NewAssetWatcher(reloadServer *ReloadServer, logger *zap.Logger) *AssetWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetWatcher{
		reloadServer: reloadServer,
		logger:       logger,
	}
}

// HandleAssetChange notifies clients of changed assets. Runtime scripts
// and images are reloaded the same way; other files are ignored.
func (aw *AssetWatcher) HandleAssetChange(files []string) error {
	var changed []string
	for _, file := range files {
		if IsAssetFile(file) {
			changed = append(changed, file)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	aw.logger.Info("assets changed", zap.Strings("files", changed))
	aw.reloadServer.NotifyReload("assets", changed)
	return nil
}

// IsAssetFile reports files loaded by the game at runtime: runtime
// scripts and sources, images, fonts and sounds
func IsAssetFile(path string) bool {
	slashed := filepath.ToSlash(path)
	if strings.Contains(slashed, "assets/") || strings.Contains(slashed, "runtime/") {
		return true
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".ts", ".h", ".hpp", ".cpp",
		".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp",
		".woff", ".woff2", ".ttf",
		".mp3", ".ogg", ".wav":
		return true
	}
	return false
}

// ChangeImpact describes what a batch of changed files requires
type ChangeImpact struct {
	Scope                ImpactScope
	RequiresRegeneration bool
	RequiresConfigReload bool
	Assets               []string
}

// ImpactScope orders changes by how much must be redone
type ImpactScope int

const (
	ScopeNone   ImpactScope = iota // Nothing relevant changed
	ScopeAssets                    // Preview reload only
	ScopeScenes                    // Scenes must be regenerated
	ScopeConfig                    // Configuration and scenes must be reloaded
)

// AnalyzeImpact classifies changed files against the project file and
// the configuration file being watched
func AnalyzeImpact(files []string, projectPath, configPath string) *ChangeImpact {
	impact := &ChangeImpact{}

	for _, file := range files {
		switch {
		case configPath != "" && samePath(file, configPath):
			impact.Scope = ScopeConfig
			impact.RequiresConfigReload = true
			impact.RequiresRegeneration = true

		case samePath(file, projectPath):
			if impact.Scope < ScopeScenes {
				impact.Scope = ScopeScenes
			}
			impact.RequiresRegeneration = true

		case IsAssetFile(file):
			if impact.Scope < ScopeAssets {
				impact.Scope = ScopeAssets
			}
			impact.Assets = append(impact.Assets, file)
		}
	}

	return impact
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
