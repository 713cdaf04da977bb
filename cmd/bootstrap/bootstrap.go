package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-queue-engine/config"
	deliveryHttp "clinic-queue-engine/internal/delivery/http"
	"clinic-queue-engine/internal/delivery/http/handler"
	"clinic-queue-engine/internal/delivery/http/middleware"
	"clinic-queue-engine/internal/domain/entity"
	"clinic-queue-engine/internal/infrastructure/cache"
	"clinic-queue-engine/internal/infrastructure/database"
	"clinic-queue-engine/internal/repository"
	"clinic-queue-engine/internal/service"
	"clinic-queue-engine/internal/usecase"
	"clinic-queue-engine/pkg/clock"
	"clinic-queue-engine/pkg/jwt"
	"clinic-queue-engine/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	locker      *service.ClinicLocker
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if err := db.AutoMigrate(
		&entity.Doctor{},
		&entity.DoctorSchedule{},
		&entity.DoctorTimeOff{},
		&entity.ClinicQueueSettings{},
		&entity.Appointment{},
		&entity.QueueToken{},
		&entity.QueueEvent{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	if err := app.initializeServer(); err != nil {
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer wires repositories, services, usecases and handlers
// into the HTTP server.
func (app *App) initializeServer() error {
	cfg := app.Config
	db := app.DB
	redisClient := app.RedisClient

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger and clock
	log := logrus.StandardLogger()
	clk := clock.System()

	// Initialize repositories
	doctorRepo := repository.NewDoctorRepository()
	scheduleRepo := repository.NewDoctorScheduleRepository()
	timeOffRepo := repository.NewDoctorTimeOffRepository()
	settingsRepo := repository.NewClinicSettingsRepository()
	tokenRepo := repository.NewQueueTokenRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	eventRepo := repository.NewQueueEventRepository()

	// Initialize services
	auditService := service.NewAuditService(log, eventRepo)
	tokenCounter := service.NewTokenCounter(db, redisClient, log, tokenRepo)
	app.locker = service.NewClinicLocker(log)

	// Rebuild today's token counters before accepting traffic, so a
	// restart cannot hand out duplicate numbers.
	syncCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := tokenCounter.SyncOnStartup(syncCtx, clk.Now().Truncate(24*time.Hour)); err != nil {
		return fmt.Errorf("failed to sync token counters: %w", err)
	}

	// Initialize usecases
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo)
	scheduleUsecase := usecase.NewDoctorScheduleUsecase(db, log, scheduleRepo, timeOffRepo, doctorRepo, auditService)
	slotUsecase := usecase.NewSlotUsecase(db, log, clk, scheduleRepo, timeOffRepo, appointmentRepo)
	queueUsecase := usecase.NewQueueUsecase(db, log, clk, cfg.Queue, tokenRepo, settingsRepo, appointmentRepo, tokenCounter, app.locker, auditService)
	queueEventUsecase := usecase.NewQueueEventUsecase(db, log, eventRepo)

	// Initialize handlers
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	scheduleHandler := handler.NewDoctorScheduleHandler(scheduleUsecase, customValidator)
	slotHandler := handler.NewSlotHandler(slotUsecase)
	queueHandler := handler.NewQueueHandler(queueUsecase, customValidator)
	queueEventHandler := handler.NewQueueEventHandler(queueEventUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(doctorHandler, scheduleHandler, slotHandler, queueHandler, queueEventHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	app.Server = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.App.Port),
		Handler: httpRouter,
	}
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.locker != nil {
		app.locker.Stop()
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
