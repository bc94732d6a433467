package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/eventc/internal/compiler/codegen"
	"github.com/conduit-lang/eventc/internal/compiler/errors"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// GenerationMetrics tracks cache performance for one generation run
type GenerationMetrics struct {
	TotalScenes        int
	CacheHits          int
	CacheMisses        int
	ScenesGenerated    int
	TotalDuration      time.Duration
	GenerationDuration time.Duration
	StartTime          time.Time
	EndTime            time.Time
}

// CacheHitRate returns the cache hit rate as a percentage
func (gm *GenerationMetrics) CacheHitRate() float64 {
	if gm.TotalScenes == 0 {
		return 0.0
	}
	return float64(gm.CacheHits) / float64(gm.TotalScenes) * 100.0
}

// Coordinator generates scenes through a Store: a scene whose key is
// stored is not generated again.
//
// Thread Safety: Generate calls are serialized.
type Coordinator struct {
	platform    *platform.Platform
	backend     codegen.Backend
	store       Store
	hasher      *FileHasher
	logger      *zap.Logger
	metrics     *GenerationMetrics
	fingerprint string
	mu          sync.Mutex
}

// NewCoordinator creates a coordinator generating for backend on p
func NewCoordinator(p *platform.Platform, backend codegen.Backend, store Store, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		platform: p,
		backend:  backend,
		store:    store,
		hasher:   NewFileHasher(),
		logger:   logger,
		metrics:  &GenerationMetrics{},
	}
}

// Generate returns the code of the given scenes, or of every scene when
// none is given, in the requested order. Scenes that failed to generate
// are not stored.
func (c *Coordinator) Generate(ctx context.Context, proj *project.Project, scenes ...string) ([]codegen.Result, *GenerationMetrics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(scenes) == 0 {
		scenes = proj.SceneNames()
	}
	metrics := &GenerationMetrics{TotalScenes: len(scenes), StartTime: time.Now()}

	fingerprint := c.platform.Fingerprint()
	if c.fingerprint != "" && c.fingerprint != fingerprint {
		c.logger.Info("extensions changed, clearing generated code cache")
		if err := c.store.Clear(ctx); err != nil {
			return nil, nil, err
		}
	}
	c.fingerprint = fingerprint

	results := make([]codegen.Result, len(scenes))
	keys := make([]string, len(scenes))
	var missing []int
	for i, name := range scenes {
		scene, ok := proj.Scene(name)
		if !ok {
			return nil, nil, errors.NewSceneNotFound(name)
		}
		key, err := c.hasher.SceneKey(proj, scene, c.backend.Name(), fingerprint)
		if err != nil {
			return nil, nil, err
		}
		keys[i] = key

		entry, err := c.store.Get(ctx, key)
		switch {
		case err == nil && entry.Fingerprint == fingerprint:
			metrics.CacheHits++
			results[i] = codegen.Result{Name: name, Code: entry.Code, Includes: entry.Includes}
			c.logger.Debug("cache hit", zap.String("scene", name), zap.String("key", key))
			continue
		case err != nil && !IsCacheMiss(err):
			c.logger.Warn("cache read failed", zap.String("scene", name), zap.Error(err))
		}
		metrics.CacheMisses++
		missing = append(missing, i)
	}

	if len(missing) > 0 {
		names := make([]string, len(missing))
		for j, i := range missing {
			names[j] = scenes[i]
		}

		start := time.Now()
		generated, err := codegen.NewProject(c.platform, proj, c.backend).GenerateProjectCode(ctx, names...)
		metrics.GenerationDuration = time.Since(start)
		if err != nil {
			return nil, nil, err
		}

		for j, i := range missing {
			result := generated[j]
			results[i] = result
			metrics.ScenesGenerated++
			if result.Failed {
				continue
			}
			entry := &Entry{
				Scene:       result.Name,
				Code:        result.Code,
				Includes:    result.Includes,
				Fingerprint: fingerprint,
				CachedAt:    time.Now(),
			}
			if err := c.store.Set(ctx, keys[i], entry, 0); err != nil {
				c.logger.Warn("cache write failed", zap.String("scene", result.Name), zap.Error(err))
			}
		}
	}

	metrics.EndTime = time.Now()
	metrics.TotalDuration = metrics.EndTime.Sub(metrics.StartTime)
	c.metrics = metrics
	c.logger.Debug("scenes generated",
		zap.Int("scenes", metrics.TotalScenes),
		zap.Int("cache_hits", metrics.CacheHits),
		zap.Duration("duration", metrics.TotalDuration))

	copied := *metrics
	return results, &copied, nil
}

// GetMetrics returns the metrics of the last run
func (c *Coordinator) GetMetrics() *GenerationMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	metrics := *c.metrics
	return &metrics
}

// Clear drops every stored entry
func (c *Coordinator) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics = &GenerationMetrics{}
	return c.store.Clear(ctx)
}
