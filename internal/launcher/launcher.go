package launcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	apihttp "github.com/GriffinCanCode/assetpack/internal/api/http"
	"github.com/GriffinCanCode/assetpack/internal/api/middleware"
	"github.com/GriffinCanCode/assetpack/internal/domain/loader"
	"github.com/GriffinCanCode/assetpack/internal/domain/update"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/config"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/storage"
	"github.com/GriffinCanCode/assetpack/internal/providers/local"
	"github.com/GriffinCanCode/assetpack/internal/providers/remote"
	"github.com/GriffinCanCode/assetpack/internal/shared/paths"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Application is called once the loader is installed
type Application func(ctx context.Context, l *loader.Synchronized) error

// Option customises a Launcher
type Option func(*Launcher)

// WithApplication sets the hook run after the loader is installed
func WithApplication(app Application) Option {
	return func(l *Launcher) { l.app = app }
}

// WithLogger overrides the logger built from configuration
func WithLogger(logger *logging.Logger) Option {
	return func(l *Launcher) { l.logger = logger }
}

// WithRegistry overrides the Prometheus registry
func WithRegistry(reg *prometheus.Registry) Option {
	return func(l *Launcher) { l.registry = reg }
}

// Launcher owns every component of a running process
type Launcher struct {
	cfg          *config.Config
	logger       *logging.Logger
	registry     *prometheus.Registry
	metrics      *monitoring.Metrics
	store        *storage.FileStorage
	orchestrator *update.Orchestrator
	admin        *http.Server
	app          Application

	mu      sync.RWMutex
	lastRun *update.Result
}

// New builds a launcher from cfg
func New(cfg *config.Config, opts ...Option) (*Launcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l := &Launcher{cfg: cfg}
	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		logger, err := logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		l.logger = logger
	}
	if l.registry == nil {
		l.registry = prometheus.NewRegistry()
	}
	l.metrics = monitoring.NewMetrics(l.registry)

	roots := paths.Roots{
		Bundled:    cfg.Storage.BundledRoot,
		Persistent: cfg.Storage.PersistentRoot,
	}
	l.store = storage.NewFileStorage(roots.Ordered(), l.logger)

	orchestrator, err := l.buildOrchestrator(roots)
	if err != nil {
		return nil, err
	}
	l.orchestrator = orchestrator

	l.logger.Info("Launcher initialized",
		zap.Strings("roots", l.store.Roots()),
		zap.Bool("update_enabled", cfg.Update.Enabled),
		zap.String("update_base_url", cfg.Update.BaseURL))
	return l, nil
}

func (l *Launcher) buildOrchestrator(roots paths.Roots) (*update.Orchestrator, error) {
	cfg := l.cfg
	localSource := local.NewSource(roots, local.Options{
		Scan:   cfg.Update.ScanLocal,
		Logger: l.logger,
	})

	deps := update.Collaborators{
		Local:         localSource,
		LocalContent:  localSource,
		VersionWriter: localSource,
		Starter:       update.StarterFunc(l.start),
	}

	if cfg.Update.Enabled {
		client := remote.NewClient(remote.ClientConfig{
			Timeout:   cfg.Update.Timeout,
			Retries:   cfg.Update.Retries,
			RateLimit: cfg.Update.RateLimit,
			Logger:    l.logger,
			Metrics:   l.metrics,
		})
		remoteSource := remote.NewSource(client, cfg.Update.BaseURL).
			WithManifestFile(cfg.Update.ManifestFile)

		deps.Remote = remoteSource
		deps.RemoteContent = remoteSource
		deps.Updater = remote.NewDownloader(client, cfg.Update.BaseURL, remote.DownloaderConfig{
			Root:        roots.Persistent,
			Concurrency: cfg.Update.Concurrency,
			Manifest:    localSource,
			Logger:      l.logger,
		})
	}

	return update.NewOrchestrator(deps, update.Config{
		Enabled: cfg.Update.Enabled,
		Exclude: cfg.Update.Exclude,
		Logger:  l.logger,
		Metrics: l.metrics,
	})
}

// start loads the catalog and installs the process-wide loader
func (l *Launcher) start(ctx context.Context) error {
	pkgLoader := loader.Init(l.store, loader.Config{
		PoolSize:   l.cfg.Loader.PoolSize,
		Transitive: l.cfg.Loader.Transitive,
		Logger:     l.logger,
		Metrics:    l.metrics,
	})

	if err := pkgLoader.Catalog().LoadFromStorage(l.store); err != nil {
		return err
	}
	l.logger.Info("Package loader ready",
		zap.Int("descriptors", pkgLoader.Catalog().Len()),
		zap.Bool("transitive", l.cfg.Loader.Transitive))

	if l.app == nil {
		return nil
	}
	return l.app(ctx, pkgLoader)
}

// Run starts the admin endpoint when configured and runs the update check
func (l *Launcher) Run(ctx context.Context) (*update.Result, error) {
	if l.cfg.Metrics.Addr != "" && l.admin == nil {
		if err := l.serveAdmin(); err != nil {
			return nil, err
		}
	}

	res, err := l.orchestrator.Run(ctx)

	l.mu.Lock()
	l.lastRun = res
	l.mu.Unlock()
	return res, err
}

// LastRun returns the result of the most recent Run
func (l *Launcher) LastRun() *update.Result {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastRun
}

// Registry returns the Prometheus registry metrics are recorded into
func (l *Launcher) Registry() *prometheus.Registry {
	return l.registry
}

// Handler returns the admin router
func (l *Launcher) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	handlers := apihttp.NewHandlers(loader.Default, l)
	return apihttp.NewRouter(handlers, l.registry, apihttp.RouterConfig{
		CORS: middleware.CORSConfig{
			AllowOrigins: l.cfg.Metrics.CORSOrigins,
			MaxAge:       12 * time.Hour,
		},
		RateLimit: l.cfg.Metrics.RateLimit,
		Burst:     int(l.cfg.Metrics.RateLimit) * 2,
		Logger:    l.logger,
	})
}

func (l *Launcher) serveAdmin() error {
	l.admin = &http.Server{
		Addr:              l.cfg.Metrics.Addr,
		Handler:           l.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		l.logger.Info("Admin endpoint listening", zap.String("addr", l.cfg.Metrics.Addr))
		if err := l.admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.Error("Admin endpoint stopped", zap.Error(err))
		}
	}()
	return nil
}

// Close stops the admin endpoint and flushes the logger
func (l *Launcher) Close() error {
	var err error
	if l.admin != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = l.admin.Shutdown(ctx)
	}
	_ = l.logger.Sync()
	return err
}
