package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"contrib.go.opencensus.io/integrations/ocsql"

	"github.com/Notifuse/emailbuilder/config"
	"github.com/Notifuse/emailbuilder/internal/database"
	"github.com/Notifuse/emailbuilder/internal/domain"
	httpHandler "github.com/Notifuse/emailbuilder/internal/http"
	"github.com/Notifuse/emailbuilder/internal/http/middleware"
	"github.com/Notifuse/emailbuilder/internal/repository"
	"github.com/Notifuse/emailbuilder/internal/service"
	"github.com/Notifuse/emailbuilder/pkg/logger"
	"github.com/Notifuse/emailbuilder/pkg/ratelimiter"
	"github.com/Notifuse/emailbuilder/pkg/tracing"
)

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	// Getters for app components accessed in tests
	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB
	GetTemplateRepository() domain.TemplateRepository
	GetBuilderService() domain.BuilderService

	// Server status methods
	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	// Methods for initialization steps
	InitTracing() error
	InitDB() error
	InitStorage() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	// Graceful shutdown methods
	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
	GetShutdownContext() context.Context
}

// App encapsulates the application dependencies and configuration
type App struct {
	config        *config.Config
	logger        logger.Logger
	db            *sql.DB
	mediaProvider domain.MediaProvider

	// metricsHandler serves /metrics when Prometheus is enabled
	metricsHandler http.Handler
	stopDBStats    func()

	templateRepo domain.TemplateRepository

	templateService *service.TemplateService
	mediaService    *service.MediaService
	builderService  *service.BuilderService

	mux    *http.ServeMux
	server *http.Server

	// Server synchronization
	serverMu      sync.RWMutex
	serverStarted chan struct{}

	// Graceful shutdown management
	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	activeRequests  int64
	requestWg       sync.WaitGroup
	shutdownTimeout time.Duration
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithMediaProvider replaces the S3 media provider
func WithMediaProvider(provider domain.MediaProvider) AppOption {
	return func(a *App) {
		a.mediaProvider = provider
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		config:          cfg,
		logger:          logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus tracing
func (a *App) InitTracing() error {
	tracingConfig := &a.config.Tracing

	metrics, err := tracing.InitTracing(tracingConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.metricsHandler = metrics

	if tracingConfig.Enabled {
		a.logger.WithField("trace_exporter", tracingConfig.TraceExporter).
			WithField("metrics_exporter", tracingConfig.MetricsExporter).
			WithField("sampling_rate", tracingConfig.SamplingProbability).
			Info("Tracing initialized successfully")
	}
	return nil
}

// InitDB connects to PostgreSQL and creates the schema. A database injected
// with WithMockDB is kept as is.
func (a *App) InitDB() error {
	if a.db != nil {
		return nil
	}

	password := a.config.Database.Password
	maskedPassword := ""
	if len(password) > 0 {
		maskedPassword = fmt.Sprintf("%c...%c", password[0], password[len(password)-1])
	}
	a.logger.Info(fmt.Sprintf("Connecting to database %s:%d, user %s, sslmode %s, password: %s, dbname: %s",
		a.config.Database.Host, a.config.Database.Port, a.config.Database.User,
		a.config.Database.SSLMode, maskedPassword, a.config.Database.DBName))

	db, err := database.Connect(a.config)
	if err != nil {
		a.logger.Error(err.Error())
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if a.config.Tracing.Enabled {
		a.stopDBStats = ocsql.RecordStats(db, 5*time.Second)
	}

	a.db = db
	return nil
}

// InitStorage connects the media bucket. Without a bucket the media
// endpoints answer 503 and the rest of the builder works.
func (a *App) InitStorage() error {
	if a.mediaProvider != nil {
		return nil
	}
	if !a.config.HasStorage() {
		a.logger.Warn("No media bucket configured, image embedding is disabled")
		return nil
	}

	client, err := repository.NewS3Client(a.config.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize media storage: %w", err)
	}
	a.mediaProvider = repository.NewS3MediaProvider(client, a.config.Storage.Bucket, a.config.Storage.Prefix)
	a.logger.WithField("bucket", a.config.Storage.Bucket).
		WithField("prefix", a.config.Storage.Prefix).
		Info("Media storage initialized")
	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database must be initialized before repositories")
	}

	a.templateRepo = repository.NewTemplateRepository(a.db)
	return nil
}

// InitServices initializes all application services
func (a *App) InitServices() error {
	if a.templateRepo == nil {
		return fmt.Errorf("repositories must be initialized before services")
	}
	builderCfg := a.config.Builder

	a.templateService = service.NewTemplateService(a.templateRepo, a.logger)

	a.mediaService = service.NewMediaService(a.mediaProvider, a.logger, service.MediaServiceConfig{
		CacheSize:     builderCfg.MediaCacheSize,
		CacheTTL:      builderCfg.MediaCacheTTL,
		MaxEmbedBytes: builderCfg.MaxEmbedBytes,
	})

	a.builderService = service.NewBuilderService(a.templateService, a.mediaService, a.logger, service.BuilderServiceConfig{
		SessionTTL:     builderCfg.SessionTTL,
		MaxSessions:    builderCfg.MaxSessions,
		PreviewTimeout: builderCfg.PreviewTimeout,
		DragActivation: builderCfg.DragActivation,
	})

	return nil
}

// InitHandlers registers the API routes on a fresh mux
func (a *App) InitHandlers() error {
	if a.builderService == nil {
		return fmt.Errorf("services must be initialized before handlers")
	}

	a.mux = http.NewServeMux()
	jwtSecret := []byte(a.config.Security.JWTSecret)

	// both media endpoints share one budget per user
	var mediaLimiter *ratelimiter.RateLimiter
	if a.config.Builder.MediaRateLimit > 0 {
		mediaLimiter = ratelimiter.NewRateLimiter(a.config.Builder.MediaRateLimit, a.config.Builder.MediaRateBurst)
	}

	httpHandler.NewBuilderHandler(a.builderService, jwtSecret, mediaLimiter, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewTemplateHandler(a.templateService, jwtSecret, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewMediaHandler(a.mediaService, jwtSecret, mediaLimiter, a.logger).RegisterRoutes(a.mux)

	a.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if a.metricsHandler != nil {
		a.mux.Handle("/metrics", a.metricsHandler)
	}

	return nil
}

// Start starts the HTTP server
func (a *App) Start() error {
	var handler http.Handler = a.mux

	handler = a.gracefulShutdownMiddleware(handler)

	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
		a.logger.Info("OpenCensus tracing middleware enabled")
	}

	handler = middleware.CORSMiddleware(handler)

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info(fmt.Sprintf("Server starting on %s", addr))

	a.serverMu.Lock()
	if a.serverStarted != nil {
		select {
		case <-a.serverStarted:
		default:
			close(a.serverStarted)
		}
	}
	a.serverStarted = make(chan struct{})
	a.server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := a.server
	serverStarted := a.serverStarted
	a.serverMu.Unlock()

	close(serverStarted)

	return server.ListenAndServe()
}

// Shutdown stops accepting requests, waits for the active ones and releases
// the database.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	a.shutdownCancel()

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		a.logger.Info("No server to shutdown")
		return a.cleanupResources()
	}

	a.logger.WithField("active_requests", a.GetActiveRequestCount()).Info("Active requests at shutdown start")

	shutdownTimeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < shutdownTimeout {
			shutdownTimeout = remaining - time.Second
			if shutdownTimeout < 0 {
				shutdownTimeout = 0
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Warn("HTTP server shutdown did not complete")
	}

	requestsDone := make(chan struct{})
	go func() {
		a.requestWg.Wait()
		close(requestsDone)
	}()
	select {
	case <-requestsDone:
	case <-shutdownCtx.Done():
		a.logger.WithField("active_requests", a.GetActiveRequestCount()).Warn("Shutdown timeout reached, forcing shutdown")
		if shutdownErr == nil {
			shutdownErr = fmt.Errorf("shutdown timeout exceeded")
		}
	}

	if err := a.cleanupResources(); err != nil && shutdownErr == nil {
		shutdownErr = err
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Error("Graceful shutdown completed with errors")
	} else {
		a.logger.Info("Graceful shutdown completed successfully")
	}
	return shutdownErr
}

func (a *App) cleanupResources() error {
	if a.stopDBStats != nil {
		a.stopDBStats()
		a.stopDBStats = nil
	}
	if a.db != nil {
		a.logger.Info("Closing database connection")
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error closing database connection")
			return err
		}
	}
	return nil
}

// IsServerCreated safely checks if the server has been created
func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart waits for the server to be created. It returns false
// when ctx expires first.
func (a *App) WaitForServerStart(ctx context.Context) bool {
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	if started == nil {
		a.logger.Error("serverStarted channel is nil - server initialization error")
		<-ctx.Done()
		return false
	}

	select {
	case <-started:
		return a.IsServerCreated()
	case <-ctx.Done():
		return false
	}
}

// Initialize sets up all components of the application
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting email builder")

	steps := []func() error{
		a.InitTracing,
		a.InitDB,
		a.InitStorage,
		a.InitRepositories,
		a.InitServices,
		a.InitHandlers,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	a.logger.Info("Application successfully initialized")
	return nil
}

func (a *App) GetConfig() *config.Config {
	return a.config
}

func (a *App) GetLogger() logger.Logger {
	return a.logger
}

func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

func (a *App) GetDB() *sql.DB {
	return a.db
}

func (a *App) GetTemplateRepository() domain.TemplateRepository {
	return a.templateRepo
}

func (a *App) GetBuilderService() domain.BuilderService {
	if a.builderService == nil {
		return nil
	}
	return a.builderService
}

func (a *App) GetActiveRequestCount() int64 {
	return atomic.LoadInt64(&a.activeRequests)
}

// SetShutdownTimeout sets the timeout for graceful shutdown
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
	a.logger.WithField("shutdown_timeout", timeout.String()).Info("Shutdown timeout configured")
}

// GetShutdownContext is cancelled once Shutdown starts
func (a *App) GetShutdownContext() context.Context {
	return a.shutdownCtx
}

func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

// gracefulShutdownMiddleware tracks active requests and refuses new ones
// once shutdown started.
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isShuttingDown() {
			http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		atomic.AddInt64(&a.activeRequests, 1)
		a.requestWg.Add(1)
		defer func() {
			atomic.AddInt64(&a.activeRequests, -1)
			a.requestWg.Done()
		}()

		next.ServeHTTP(w, r)
	})
}

// Ensure App implements AppInterface
var _ AppInterface = (*App)(nil)
