package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/conduit-lang/eventc/internal/cli/config"
	"github.com/conduit-lang/eventc/internal/compiler/cache"
	"github.com/conduit-lang/eventc/internal/compiler/codegen"
	"github.com/conduit-lang/eventc/internal/compiler/extensions"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/history"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configPath string
	verbose    bool
	noColor    bool
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger logs to stderr with --verbose and discards otherwise
func (o *rootOptions) newLogger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// projectArg returns the project file given on the command line, or the
// one of the configuration
func projectArg(cfg *config.Config, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.ProjectPath()
}

// newTarget creates the platform and backend of a target
func newTarget(target string) (*platform.Platform, codegen.Backend, error) {
	backend, err := codegen.NewBackend(target)
	if err != nil {
		return nil, nil, err
	}
	return extensions.NewPlatform(target), backend, nil
}

// openCache creates the configured store. The returned function releases
// it.
func openCache(cfg *config.Config) (cache.Store, func(), error) {
	storeConfig := cache.DefaultStoreConfig()
	storeConfig.DefaultTTL = cfg.Cache.TTL

	switch cfg.Cache.Backend {
	case "redis":
		redisConfig := cache.DefaultRedisConfig()
		redisConfig.Addr = cfg.Cache.RedisAddr
		redisConfig.StoreConfig = storeConfig
		store, err := cache.NewRedisStoreWithConfig(redisConfig)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return cache.NewMemoryStoreWithConfig(storeConfig), func() {}, nil
	}
}

// openHistory opens the configured history database. It returns nil when
// no DSN is configured.
func openHistory(ctx context.Context, cfg *config.Config) (*history.Store, error) {
	if cfg.History.DSN == "" {
		return nil, nil
	}
	store, err := history.Open(cfg.History.Driver, cfg.History.DSN)
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
