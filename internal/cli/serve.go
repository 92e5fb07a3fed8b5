package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/internal/config"
	"github.com/matzehuels/sankeyflow/internal/server"
	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/observability/prom"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
	"github.com/matzehuels/sankeyflow/pkg/store"
)

// serveCommand creates the serve command for running the render API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the render API server",
		Long: `Run the render API server.

Configuration is read from the environment:

  SANKEYFLOW_ADDR             listen address (default :8080)
  SANKEYFLOW_MAX_BODY_BYTES   request body limit (default 1 MiB)
  SANKEYFLOW_REDIS_URL        shared layout and artifact cache (optional)
  SANKEYFLOW_CACHE_TTL        stored chart cache lifetime (default 24h)
  SANKEYFLOW_MONGO_URI        chart store (optional, in memory otherwise)
  SANKEYFLOW_MONGO_DATABASE   chart store database (default sankeyflow)
  SANKEYFLOW_LOG_LEVEL        debug, info, warn or error
  SANKEYFLOW_LOG_FORMAT       text or json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SANKEYFLOW_ADDR)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config) error {
	logger := newLoggerWith(os.Stderr, log.Options{
		Level:     cfg.Level(),
		Formatter: cfg.Formatter(),
		Prefix:    "serve",
	})

	prom.New(prometheus.DefaultRegisterer).Register()

	var artifacts cache.Cache = cache.NewNullCache()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		artifacts = rc
		logger.Info("using redis cache")
	}

	// Keys are namespaced within the shared cache.
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")

	var st store.Store = store.NewMemory()
	if cfg.MongoURI != "" {
		ms, err := store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			artifacts.Close()
			return fmt.Errorf("connect mongo: %w", err)
		}
		st = ms
		logger.Info("using mongo chart store", "database", cfg.MongoDatabase)
	} else {
		logger.Warn("no chart store configured, charts are kept in memory")
	}
	if cfg.RedisURL != "" {
		st = store.NewCached(st, artifacts, keyer, cfg.CacheTTLDuration())
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	runner := pipeline.NewRunner(artifacts, keyer, logger)
	defer runner.Close()

	srv := server.New(runner, st,
		server.WithLogger(logger),
		server.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)
	return srv.ListenAndServe(ctx, cfg.Addr)
}
