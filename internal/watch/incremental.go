package watch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/eventc/internal/compiler/cache"
	"github.com/conduit-lang/eventc/internal/compiler/codegen"
	"github.com/conduit-lang/eventc/internal/compiler/errors"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
	"github.com/conduit-lang/eventc/internal/compiler/visitors"
	"github.com/conduit-lang/eventc/internal/history"
)

// Recorder stores the outcome of generation runs
type Recorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// IncrementalGenerator reloads a project file and regenerates its scenes
// through a cache coordinator, so unchanged scenes are served from the
// cache. It keeps the last successful code of every scene for the preview.
type IncrementalGenerator struct {
	projectPath string
	outputDir   string
	platform    *platform.Platform
	backend     codegen.Backend
	coordinator *cache.Coordinator
	recorder    Recorder
	hasher      *cache.FileHasher
	logger      *zap.Logger

	mu        sync.RWMutex
	project   *project.Project
	scenes    map[string]codegen.Result
	order     []string
	lastBuild *BuildResult
}

// BuildResult holds the result of a generation pass
type BuildResult struct {
	Success        bool
	Results        []codegen.Result
	Diagnostics    errors.ErrorList
	Metrics        *cache.GenerationMetrics
	Duration       time.Duration
	Hash           string
	GeneratedFiles []string
}

// FailedScenes returns the names of the scenes that failed to generate
func (br *BuildResult) FailedScenes() []string {
	var names []string
	for _, result := range br.Results {
		if result.Failed {
			names = append(names, result.Name)
		}
	}
	return names
}

// NewIncrementalGenerator creates a generator for the project at
// projectPath. outputDir may be empty to keep the code in memory only, and
// recorder may be nil.
func NewIncrementalGenerator(projectPath, outputDir string, p *platform.Platform, backend codegen.Backend, coordinator *cache.Coordinator, recorder Recorder, logger *zap.Logger) *IncrementalGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IncrementalGenerator{
		projectPath: projectPath,
		outputDir:   outputDir,
		platform:    p,
		backend:     backend,
		coordinator: coordinator,
		recorder:    recorder,
		hasher:      cache.NewFileHasher(),
		logger:      logger,
		scenes:      make(map[string]codegen.Result),
	}
}

// Build reloads the project and regenerates every scene. The error is only
// set when the project cannot be loaded or generation could not run;
// failing scenes are reported in the result and keep their previous code.
func (ig *IncrementalGenerator) Build(ctx context.Context) (*BuildResult, error) {
	start := time.Now()

	proj, err := project.Load(ig.projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	result := &BuildResult{Diagnostics: proj.Validate()}

	results, metrics, err := ig.coordinator.Generate(ctx, proj)
	if err != nil {
		return nil, fmt.Errorf("failed to generate scenes: %w", err)
	}
	result.Results = results
	result.Metrics = metrics
	result.Success = true

	var code strings.Builder
	for _, r := range results {
		result.Diagnostics = append(result.Diagnostics, r.Diagnostics...)
		if r.Failed {
			result.Success = false
		}
		code.WriteString(r.Name)
		code.WriteByte(0)
		code.WriteString(r.Code)
		code.WriteByte(0)
	}
	result.Hash = ig.hasher.HashString(code.String())

	if ig.outputDir != "" {
		written, err := codegen.WriteResults(ig.outputDir, ig.backend, results)
		if err != nil {
			return nil, err
		}
		result.GeneratedFiles = written
	}
	result.Duration = time.Since(start)

	ig.store(proj, result)
	ig.record(ctx, proj, result, start)

	ig.logger.Info("scenes generated",
		zap.Int("scenes", len(results)),
		zap.Int("cache_hits", metrics.CacheHits),
		zap.Bool("success", result.Success),
		zap.Duration("duration", result.Duration))

	return result, nil
}

func (ig *IncrementalGenerator) store(proj *project.Project, result *BuildResult) {
	ig.mu.Lock()
	defer ig.mu.Unlock()

	ig.project = proj
	ig.order = proj.SceneNames()
	kept := make(map[string]codegen.Result, len(result.Results))
	for _, r := range result.Results {
		if r.Failed {
			// Keep serving the last good code of a scene being edited
			if previous, ok := ig.scenes[r.Name]; ok {
				previous.Diagnostics = r.Diagnostics
				previous.Failed = true
				kept[r.Name] = previous
				continue
			}
		}
		kept[r.Name] = r
	}
	ig.scenes = kept
	ig.lastBuild = result
}

func (ig *IncrementalGenerator) record(ctx context.Context, proj *project.Project, result *BuildResult, started time.Time) {
	if ig.recorder == nil {
		return
	}
	used := visitors.SortedNames(visitors.GetUsedExtensions(ig.platform, proj))
	for _, r := range result.Results {
		run := history.NewRun(proj.Name, ig.backend.Name(), r, used, started, result.Duration)
		if err := ig.recorder.Record(ctx, run); err != nil {
			ig.logger.Warn("failed to record generation run", zap.String("scene", r.Name), zap.Error(err))
		}
	}
}

// Project returns the project of the last build, nil before the first one
func (ig *IncrementalGenerator) Project() *project.Project {
	ig.mu.RLock()
	defer ig.mu.RUnlock()
	return ig.project
}

// Scenes returns the scene results of the last build in project order
func (ig *IncrementalGenerator) Scenes() []codegen.Result {
	ig.mu.RLock()
	defer ig.mu.RUnlock()

	results := make([]codegen.Result, 0, len(ig.order))
	for _, name := range ig.order {
		if r, ok := ig.scenes[name]; ok {
			results = append(results, r)
		}
	}
	return results
}

// Scene returns the last result of one scene
func (ig *IncrementalGenerator) Scene(name string) (codegen.Result, bool) {
	ig.mu.RLock()
	defer ig.mu.RUnlock()
	r, ok := ig.scenes[name]
	return r, ok
}

// LastBuild returns the result of the last build, nil before the first one
func (ig *IncrementalGenerator) LastBuild() *BuildResult {
	ig.mu.RLock()
	defer ig.mu.RUnlock()
	return ig.lastBuild
}

// ClearCache drops the generated code cache so the next build regenerates
// every scene
func (ig *IncrementalGenerator) ClearCache(ctx context.Context) error {
	return ig.coordinator.Clear(ctx)
}
