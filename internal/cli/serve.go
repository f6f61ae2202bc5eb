package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/lattix/trellis/internal/api"
	"github.com/lattix/trellis/pkg/app"
	"github.com/lattix/trellis/pkg/cache"
	"github.com/lattix/trellis/pkg/observability"
	"github.com/lattix/trellis/pkg/pipeline"
)

// serveOpts holds the serve command's flags.
type serveOpts struct {
	addr     string
	redis    string
	cacheDir string
	noCache  bool
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trellis API over HTTP",
		Long: `Serve the trellis API over HTTP.

Clients create graphs from scene TOML or JSON documents, receive a handle,
and drive paints, path updates, and annotations through REST calls.
Rendered artifacts are cached in Redis when --redis is set, on disk
otherwise. Prometheus metrics are exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis address for the artifact cache (host:port)")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "file cache directory (default ~/.cache/trellis)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

// runServe wires the registry, pipeline, and metrics into an HTTP server
// and blocks until the context is cancelled or the listener fails.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	hooks := observability.NewPrometheusHooks(prometheus.DefaultRegisterer)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	store, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	server := api.NewServer(app.NewRegistry(), runner, c.Logger)
	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	printInfo("Serving trellis API on %s", opts.addr)
	printDetail("metrics at %s/metrics", opts.addr)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	}
}

// serveCache selects the cache backend: redis when requested, the file
// cache otherwise. A missing redis is an error since the flag asked for it;
// an unusable file cache only downgrades to no caching.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redis != "" {
		store, err := cache.NewRedisCache(ctx, opts.redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", opts.redis, err)
		}
		c.Logger.Info("artifact cache", "backend", "redis", "addr", opts.redis)
		return store, nil
	}

	dir := opts.cacheDir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			printWarning("No cache directory available, caching disabled")
			return cache.NewNullCache(), nil
		}
	}
	store, err := cache.NewFileCache(dir)
	if err != nil {
		printWarning("Cache directory %s unusable, caching disabled", dir)
		return cache.NewNullCache(), nil
	}
	c.Logger.Info("artifact cache", "backend", "file", "dir", dir)
	return store, nil
}
