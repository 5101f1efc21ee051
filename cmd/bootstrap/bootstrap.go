package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/config"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/catalog"
	deliveryHttp "github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/http"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/http/handler"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/http/middleware"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/infrastructure/cache"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/infrastructure/database"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/repository"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/service"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/usecase"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/pkg/jwt"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client

	Catalog      *catalog.Catalog
	Gateway      service.SyncGateway
	Reconciler   *service.ReconcileService
	AdminUsecase usecase.AdminUsecase

	rateLimiter *middleware.RateLimiter
	Server      *http.Server
}

// Setup loads configuration and builds the logger. Used alone by commands
// that do not need the stores, such as migrations.
func Setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := setupLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Configuration loaded successfully")

	return cfg, log, nil
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	// Load catalog
	cat, err := catalog.LoadFile(cfg.Catalog.Path, cfg.Catalog.Services)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	app.Catalog = cat
	log.Infof("Catalog loaded: %d items, %d services", len(cat.All()), len(cat.Services()))

	// Initialize database
	db, err := database.NewPostgresConnection(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	if err := app.initialize(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(lvl)
	return log, nil
}

// initialize wires every layer and creates the HTTP server
func (app *App) initialize() error {
	cfg, log := app.Config, app.Log
	loc := cfg.Location()

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	reportRepo := repository.NewReportRepository(app.DB)
	fallbackRepo := repository.NewFallbackRepository(app.RedisClient, cfg.Sync.FallbackKey)
	sessionRepo := repository.NewPhysicianSessionRepository(app.RedisClient, cfg.Sync.PhysicianKey)

	// Initialize services
	app.Gateway = service.NewSyncGateway(log, reportRepo, fallbackRepo, app.Catalog.IsKnownService)
	app.Reconciler = service.NewReconcileService(log, reportRepo, fallbackRepo, cfg.Sync.ReconcileInterval, loc)
	sessionService := service.NewPhysicianSessionService(log, sessionRepo, loc, time.Now)

	// Initialize usecases
	catalogUsecase := usecase.NewCatalogUsecase(app.Catalog)
	reportUsecase := usecase.NewReportUsecase(log, app.Catalog, app.Gateway, sessionService, loc, time.Now)
	adminUsecase, err := usecase.NewAdminUsecase(log, app.Gateway, app.Reconciler, jwtService, app.RedisClient, cfg.App.AdminSecret, loc, time.Now)
	if err != nil {
		return fmt.Errorf("failed to init admin usecase: %w", err)
	}
	app.AdminUsecase = adminUsecase

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(reportRepo, handler.PingerFunc(func(ctx context.Context) error {
		return app.RedisClient.Ping(ctx).Err()
	}))
	catalogHandler := handler.NewCatalogHandler(catalogUsecase)
	reportHandler := handler.NewReportHandler(reportUsecase, customValidator)
	adminHandler := handler.NewAdminHandler(adminUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, app.RedisClient)
	clientMiddleware := middleware.NewClientMiddleware(cfg.App.Env == "prod")
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	app.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)

	// Initialize router
	router := deliveryHttp.NewRouter(
		healthHandler,
		catalogHandler,
		reportHandler,
		adminHandler,
		authMiddleware,
		clientMiddleware,
		corsMiddleware,
		loggingMiddleware,
		app.rateLimiter,
	)

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the reconciler and the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	if err := app.Reconciler.Start(); err != nil {
		return err
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	return app.waitForShutdown(serverErr)
}

// waitForShutdown blocks until an interrupt signal or a server failure
func (app *App) waitForShutdown(serverErr <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case <-quit:
		app.Log.Info("Shutting down server...")
	case err := <-serverErr:
		runErr = fmt.Errorf("failed to start server: %w", err)
	}

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
	return runErr
}

// Close stops background work and closes all connections (database, redis).
func (app *App) Close() {
	if app.Reconciler != nil {
		app.Reconciler.Stop()
	}

	if app.rateLimiter != nil {
		app.rateLimiter.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
