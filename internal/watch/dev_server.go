// Package watch regenerates a project when its files change and serves the
// generated code to live preview clients.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/conduit-lang/eventc/internal/compiler/errors"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/visitors"
)

// DevServerConfig holds configuration for the dev server
type DevServerConfig struct {
	Host           string
	Port           int
	ProjectPath    string
	ConfigPath     string
	WatchPatterns  []string
	IgnorePatterns []string
}

// DefaultDevServerConfig watches the directory of projectPath on
// localhost:8090, ignoring editor files and the output directory
func DefaultDevServerConfig(projectPath, outputDir string) *DevServerConfig {
	ignored := []string{"*.swp", "*.swo", "*~", ".DS_Store"}
	if outputDir != "" {
		ignored = append(ignored, filepath.ToSlash(filepath.Clean(outputDir))+"/")
	}
	return &DevServerConfig{
		Host:           "127.0.0.1",
		Port:           8090,
		ProjectPath:    projectPath,
		IgnorePatterns: ignored,
	}
}

// DevServer watches a project, regenerates it on change and serves the
// preview API
type DevServer struct {
	config       *DevServerConfig
	generator    *IncrementalGenerator
	platform     *platform.Platform
	reloadServer *ReloadServer
	assetWatcher *AssetWatcher
	watcher      *FileWatcher
	router       chi.Router
	httpServer   *http.Server
	listener     net.Listener
	logger       *zap.Logger

	buildMutex sync.Mutex
	stopOnce   sync.Once
}

// NewDevServer creates a dev server around generator. p is the platform
// the generator uses; the preview lists its extensions.
func NewDevServer(config *DevServerConfig, generator *IncrementalGenerator, p *platform.Platform, logger *zap.Logger) (*DevServer, error) {
	if config == nil || config.ProjectPath == "" {
		return nil, fmt.Errorf("dev server needs a project path")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ds := &DevServer{
		config:       config,
		generator:    generator,
		platform:     p,
		reloadServer: NewReloadServer(logger.Named("reload")),
		logger:       logger,
	}
	ds.assetWatcher = NewAssetWatcher(ds.reloadServer, logger.Named("assets"))
	ds.router = ds.routes()

	dirs := []string{filepath.Dir(config.ProjectPath)}
	if config.ConfigPath != "" {
		if dir := filepath.Dir(config.ConfigPath); dir != dirs[0] {
			dirs = append(dirs, dir)
		}
	}

	var err error
	ds.watcher, err = NewFileWatcher(dirs, config.WatchPatterns, config.IgnorePatterns, ds.handleFileChange, logger.Named("watcher"))
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return ds, nil
}

func (ds *DevServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/scenes", ds.handleScenes)
	r.Get("/scenes/{name}/code", ds.handleSceneCode)
	r.Get("/extensions", ds.handleExtensions)
	r.Get("/ws", ds.reloadServer.HandleWebSocket)
	return r
}

// Handler returns the preview API
func (ds *DevServer) Handler() http.Handler {
	return ds.router
}

// Start performs the initial build, then starts watching and serving. A
// failing initial build is reported but does not stop the server so that
// fixes can be picked up.
func (ds *DevServer) Start(ctx context.Context) error {
	if err := ds.Rebuild(ctx, nil); err != nil {
		ds.logger.Error("initial generation failed", zap.Error(err))
	}

	if err := ds.watcher.Start(); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	addr := net.JoinHostPort(ds.config.Host, strconv.Itoa(ds.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		ds.watcher.Stop()
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	ds.listener = listener
	ds.httpServer = &http.Server{
		Handler:           ds.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := ds.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			ds.logger.Error("preview server failed", zap.Error(err))
		}
	}()

	ds.logger.Info("preview server ready", zap.String("addr", listener.Addr().String()))
	return nil
}

// Addr returns the address the preview server listens on
func (ds *DevServer) Addr() string {
	if ds.listener == nil {
		return ""
	}
	return ds.listener.Addr().String()
}

// Stop stops watching and serving
func (ds *DevServer) Stop(ctx context.Context) error {
	var err error
	ds.stopOnce.Do(func() {
		if stopErr := ds.watcher.Stop(); stopErr != nil {
			err = stopErr
		}
		ds.reloadServer.Close()
		if ds.httpServer != nil {
			if shutdownErr := ds.httpServer.Shutdown(ctx); shutdownErr != nil && err == nil {
				err = shutdownErr
			}
		}
	})
	return err
}

// Rebuild regenerates the project and tells preview clients the outcome.
// files are the changes that triggered it, empty for a forced rebuild.
func (ds *DevServer) Rebuild(ctx context.Context, files []string) error {
	ds.buildMutex.Lock()
	defer ds.buildMutex.Unlock()

	ds.reloadServer.NotifyBuilding(files)

	result, err := ds.generator.Build(ctx)
	if err != nil {
		ds.reloadServer.NotifyErrors(errors.ErrorList{
			errors.NewCodeGenFailed(errors.Location{Parameter: errors.NoParameter}, err.Error()),
		})
		return err
	}

	if !result.Success {
		ds.logger.Warn("scenes failed to generate", zap.Strings("scenes", result.FailedScenes()))
		ds.reloadServer.NotifyErrors(result.Diagnostics)
		return nil
	}

	scenes := make([]string, len(result.Results))
	for i, r := range result.Results {
		scenes[i] = r.Name
	}
	ds.reloadServer.NotifySuccess(scenes, result.Hash, result.Duration)
	return nil
}

func (ds *DevServer) handleFileChange(files []string) error {
	impact := AnalyzeImpact(files, ds.config.ProjectPath, ds.config.ConfigPath)
	ctx := context.Background()

	switch impact.Scope {
	case ScopeConfig:
		ds.logger.Info("configuration changed, regenerating every scene")
		if err := ds.generator.ClearCache(ctx); err != nil {
			return err
		}
		return ds.Rebuild(ctx, files)
	case ScopeScenes:
		return ds.Rebuild(ctx, files)
	case ScopeAssets:
		return ds.assetWatcher.HandleAssetChange(impact.Assets)
	}
	return nil
}

type sceneSummary struct {
	Name     string   `json:"name"`
	Failed   bool     `json:"failed"`
	HasCode  bool     `json:"hasCode"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Includes []string `json:"includes,omitempty"`
}

func (ds *DevServer) handleScenes(w http.ResponseWriter, r *http.Request) {
	results := ds.generator.Scenes()
	summaries := make([]sceneSummary, 0, len(results))
	for _, result := range results {
		errorCount, warningCount, _ := result.Diagnostics.ErrorCount()
		summaries = append(summaries, sceneSummary{
			Name:     result.Name,
			Failed:   result.Failed,
			HasCode:  result.Code != "",
			Errors:   errorCount,
			Warnings: warningCount,
			Includes: result.Includes,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (ds *DevServer) handleSceneCode(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	result, ok := ds.generator.Scene(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("scene %q not found", name)})
		return
	}
	if result.Code == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":       fmt.Sprintf("scene %q failed to generate", name),
			"diagnostics": result.Diagnostics,
		})
		return
	}

	contentType := "text/javascript; charset=utf-8"
	if ds.generator.backend.Name() == platform.TargetNative {
		contentType = "text/x-c++src; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(result.Code))
}

type extensionSummary struct {
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	Description string `json:"description,omitempty"`
	Used        bool   `json:"used"`
}

func (ds *DevServer) handleExtensions(w http.ResponseWriter, r *http.Request) {
	used := map[string]struct{}{}
	if proj := ds.generator.Project(); proj != nil {
		used = visitors.GetUsedExtensions(ds.platform, proj)
	}

	exts := ds.platform.Extensions()
	summaries := make([]extensionSummary, 0, len(exts))
	for _, ext := range exts {
		_, isUsed := used[ext.Name]
		summaries = append(summaries, extensionSummary{
			Name:        ext.Name,
			FullName:    ext.FullName,
			Description: ext.Description,
			Used:        isUsed,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
