package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/config"
	deliveryHttp "github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/http"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/http/handler"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/http/middleware"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/scheduling"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/infrastructure/cache"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/infrastructure/database"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/repository"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/service"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/usecase"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/jwt"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/metrics"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const metricsNamespace = "dcms"

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	DayLocker   *service.DayLocker
	Server      *http.Server
}

// Usecases groups the application services built from one set of dependencies
type Usecases struct {
	Slot         usecase.SlotUsecase
	Appointment  usecase.AppointmentUsecase
	Availability usecase.AvailabilityUsecase
}

// Clinic is the resolved scheduling configuration
type Clinic struct {
	Calendar usecase.Calendar
	Window   scheduling.TimeWindow
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = NewLogger(cfg.Log.Level)
	app.Log.Info("Configuration loaded successfully")

	clinic, err := LoadClinic(cfg.Scheduling)
	if err != nil {
		return nil, err
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.Scheduling.Timezone, cfg.App.Env == "development")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.Log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.Log.Info("Redis connected successfully")

	// Initialize all layers
	app.DayLocker = service.NewDayLocker(app.Log)
	app.Server = initializeServer(cfg, clinic, app.Log, db, redisClient, app.DayLocker)

	return app, nil
}

// NewLogger configures a JSON logrus logger at the given level
func NewLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// LoadClinic resolves the clinic timezone and default booking window
func LoadClinic(cfg config.SchedulingConfig) (*Clinic, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULING_TIMEZONE %q: %w", cfg.Timezone, err)
	}

	window, err := scheduling.NewTimeWindow(cfg.WindowStart, cfg.WindowEnd, cfg.SlotStepMinutes)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduling window: %w", err)
	}

	return &Clinic{Calendar: usecase.NewCalendar(loc), Window: window}, nil
}

// BuildUsecases wires repositories and services into usecases. redisClient and
// locker may be nil for read-only callers such as the CLI.
func BuildUsecases(
	cfg *config.Config,
	clinic *Clinic,
	log *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	locker *service.DayLocker,
	m *metrics.Metrics,
) *Usecases {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository()
	serviceRepo := repository.NewServiceRepository()
	dentistRepo := repository.NewDentistRepository()
	patientRepo := repository.NewPatientRepository()
	availabilityRepo := repository.NewDentistAvailabilityRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(db, log, auditLogRepo)
	var idempotency service.IdempotencyStore
	if redisClient != nil {
		idempotency = service.NewIdempotencyStore(redisClient, log, cfg.Scheduling.IdempotencyTTL)
	}

	// Initialize usecases
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, clinic.Calendar, clinic.Window, availabilityRepo, dentistRepo, auditService)

	var windows scheduling.WindowProvider = scheduling.FixedWindow(clinic.Window)
	if cfg.Scheduling.UseDentistHours {
		windows = availabilityUsecase
		log.Info("Per-dentist working hours enabled for slot generation")
	}

	slotUsecase := usecase.NewSlotUsecase(db, log, clinic.Calendar, windows, appointmentRepo, serviceRepo, dentistRepo, m)

	var appointmentUsecase usecase.AppointmentUsecase
	if locker != nil {
		appointmentUsecase = usecase.NewAppointmentUsecase(
			db, log, customValidator, clinic.Calendar, windows, cfg.Scheduling.SubmissionTimeout,
			appointmentRepo, serviceRepo, dentistRepo, patientRepo,
			auditService, locker, idempotency, m,
		)
	}

	return &Usecases{
		Slot:         slotUsecase,
		Appointment:  appointmentUsecase,
		Availability: availabilityUsecase,
	}
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, clinic *Clinic, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client, locker *service.DayLocker) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry, metricsNamespace)

	usecases := BuildUsecases(cfg, clinic, log, db, redisClient, locker, m)

	// Initialize handlers
	slotHandler := handler.NewSlotHandler(usecases.Slot, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(usecases.Appointment)
	availabilityHandler := handler.NewAvailabilityHandler(usecases.Availability, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		slotHandler,
		appointmentHandler,
		availabilityHandler,
		authMiddleware,
		corsMiddleware,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
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

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops background workers and closes all connections
func (app *App) Close() {
	if app.DayLocker != nil {
		app.DayLocker.Stop()
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
