package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bingbr/League-API-datastore/internal/config"
	"github.com/bingbr/League-API-datastore/internal/datasource"
	"github.com/bingbr/League-API-datastore/internal/ghost"
	"github.com/bingbr/League-API-datastore/internal/history"
	"github.com/bingbr/League-API-datastore/internal/metrics"
	"github.com/bingbr/League-API-datastore/internal/riot"
	"github.com/bingbr/League-API-datastore/internal/riot/cdn"
	"github.com/bingbr/League-API-datastore/internal/storage"
	"github.com/bingbr/League-API-datastore/internal/storage/logs"
	"github.com/bingbr/League-API-datastore/internal/storage/postgres"
	"github.com/bingbr/League-API-datastore/internal/storage/sqlite"
)

const (
	dbTimeout       = 5 * time.Second
	dbRetries       = 3
	dbRetryDelay    = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

var errNoCache = errors.New("no match reference cache configured")

// Run wires the datastore from cfg and executes the command named by args.
func Run(ctx context.Context, cfg config.Config, args []string, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if stdout == nil {
		stdout = os.Stdout
	}

	cmd, err := parseCommand(args, cfg.DefaultRegion)
	if err != nil {
		return err
	}

	// Setup Database
	db, closeDB, err := connectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer closeDB()

	logger := setupLogger(cfg, db)

	var cache storage.CacheDB
	if db != nil {
		cache = db
	}
	if cfg.SQLitePath != "" {
		lite, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite cache: %w", err)
		}
		defer func() {
			if err := lite.Close(); err != nil {
				logger.Warn("Failed to close sqlite cache", "path", cfg.SQLitePath, "error", err)
			}
		}()
		cache = lite
		logger.Debug("SQLite cache opened", "path", cfg.SQLitePath)
	}

	m := metrics.New(prometheus.NewRegistry())
	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, m, logger)
		defer stop()
	}

	svc, err := newServices(cfg, cache, m, logger)
	if err != nil {
		return err
	}
	return cmd.run(ctx, svc, stdout)
}

func connectDB(ctx context.Context, url string) (*postgres.Database, func(), error) {
	if url == "" {
		return nil, func() {}, nil
	}
	// Retry logic to handle transient connection issues at startup, such as the database not being ready yet.
	var lastErr error
	for i := range dbRetries {
		if i > 0 {
			timer := time.NewTimer(dbRetryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, nil, fmt.Errorf("database connection canceled: %w", ctx.Err())
			case <-timer.C:
			}
		}
		tCtx, cancel := context.WithTimeout(ctx, dbTimeout)
		db, err := postgres.Open(tCtx, url)
		cancel()

		if err == nil {
			return db, func() { _ = db.Close() }, nil
		}
		lastErr = err
	}
	return nil, nil, fmt.Errorf("database connection failed after retries: %w", lastErr)
}

func setupLogger(cfg config.Config, database *postgres.Database) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)

	if database != nil {
		dbHandler := logs.NewHandler(database, slog.LevelDebug, 2*time.Second)
		handler = slog.NewMultiHandler(handler, dbHandler)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	if cfg.IsDev {
		logger.Info("Development mode enabled")
	}
	return logger
}

func serveMetrics(addr string, m *metrics.Metrics, logger *slog.Logger) func() {
	srv := metrics.NewServer(addr, m)
	goSafe(logger, "metrics_server", func() {
		logger.Info("Metrics listener started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics listener stopped", "addr", addr, "error", err)
		}
	})
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Metrics listener shutdown failed", "error", err)
		}
	}
}

// services is everything a command needs. cache and metrics may be nil.
type services struct {
	pipeline *datasource.Riot
	store    *ghost.Store
	static   *cdn.Client
	realms   *cdn.Realms
	cache    storage.CacheDB
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func newServices(cfg config.Config, cache storage.CacheDB, m *metrics.Metrics, logger *slog.Logger) (*services, error) {
	if logger == nil {
		logger = slog.Default()
	}

	limiter := riot.NewLimiter()
	if loaded, err := limiter.LoadFile(cfg.RateLimitCfg); err != nil {
		return nil, fmt.Errorf("configure riot rate limits: %w", err)
	} else if loaded {
		logger.Info("Riot rate limits configured", "path", cfg.RateLimitCfg)
	}

	opts := []riot.Option{riot.WithLimiter(limiter), riot.WithLogger(logger)}
	if cfg.RiotAPIBaseURL != "" {
		opts = append(opts, riot.WithBaseURL(cfg.RiotAPIBaseURL))
	}
	if m != nil {
		opts = append(opts, riot.WithObserver(m))
	}
	api, err := riot.NewClient(cfg.RiotAPIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("create riot client: %w", err)
	}

	static := cdn.NewClient(cdn.WithBaseURL(cfg.StaticBaseURL))
	realms := cdn.NewRealms(static, 0)
	pipeline, err := datasource.NewRiot(api, static, realms)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	s := &services{
		pipeline: pipeline,
		static:   static,
		realms:   realms,
		cache:    cache,
		metrics:  m,
		logger:   logger,
	}
	s.store = ghost.New(pipeline, s.storeOptions(s.livePages())...)
	return s, nil
}

// livePages reads from the API and writes through to the cache when one is configured.
func (s *services) livePages() history.PageSource {
	if s.cache == nil {
		return s.pipeline
	}
	opts := []datasource.CachedOption{datasource.WithCacheLogger(s.logger)}
	if s.metrics != nil {
		opts = append(opts, datasource.WithCacheObserver(s.metrics))
	}
	return datasource.NewCached(s.pipeline, s.cache, opts...)
}

// replayStore resolves match histories from the cache alone.
func (s *services) replayStore() (*ghost.Store, error) {
	if s.cache == nil {
		return nil, errNoCache
	}
	replay, err := datasource.NewReplay(s.cache, 0)
	if err != nil {
		return nil, err
	}
	return ghost.New(s.pipeline, s.storeOptions(replay)...), nil
}

func (s *services) storeOptions(pages history.PageSource) []ghost.Option {
	opts := []ghost.Option{
		ghost.WithDefaults(s.realms),
		ghost.WithLogger(s.logger),
		ghost.WithPageSource(pages),
	}
	if s.metrics != nil {
		opts = append(opts, ghost.WithObserver(s.metrics), ghost.WithPageObserver(s.metrics))
	}
	return opts
}

func goSafe(logger *slog.Logger, task string, fn func()) {
	if logger == nil {
		logger = slog.Default()
	}
	task = strings.TrimSpace(task)
	if task == "" {
		task = "unnamed"
	}
	if fn == nil {
		logger.Error("Background task not started: nil func", "task", task)
		return
	}

	taskLogger := logger.With("task", task)
	go func() {
		startedAt := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				taskLogger.Error("Background task panicked", "panic", recovered, "elapsed", time.Since(startedAt), "stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}
