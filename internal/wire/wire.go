// Package wire provides dependency injection for the upkeep application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/example/upkeep/internal/adapters/sqlite"
	"github.com/example/upkeep/internal/app"
	"github.com/example/upkeep/internal/config"
	"github.com/example/upkeep/internal/db"
	"github.com/example/upkeep/internal/metrics"
	"github.com/example/upkeep/internal/ports/primary"
)

var (
	cfg           *config.Config
	logger        *slog.Logger
	database      *sql.DB
	registry      *prometheus.Registry
	appMetrics    *metrics.Metrics
	taskService   primary.TaskService
	equipmentRepo *sqlite.EquipmentRepository
	once          sync.Once
)

// TaskService returns the singleton TaskService instance.
func TaskService() primary.TaskService {
	once.Do(initServices)
	return taskService
}

// EquipmentRepository returns the singleton equipment repository.
func EquipmentRepository() *sqlite.EquipmentRepository {
	once.Do(initServices)
	return equipmentRepo
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the application logger.
func Logger() *slog.Logger {
	once.Do(initServices)
	return logger
}

// Database returns the shared database handle.
func Database() *sql.DB {
	once.Do(initServices)
	return database
}

// Registry returns the Prometheus registry all collectors are registered
// against.
func Registry() *prometheus.Registry {
	once.Do(initServices)
	return registry
}

// Metrics returns the application metric collectors.
func Metrics() *metrics.Metrics {
	once.Do(initServices)
	return appMetrics
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cfg = config.MustLoad()
	logger = setupLogger(cfg.Env)

	db.SetPath(cfg.DBPath)
	var err error
	database, err = db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	registry = prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	appMetrics = metrics.NewMetrics(registry)

	// Create repository adapters (secondary ports) with the injected DB
	taskRepo := sqlite.NewTaskRepository(database)
	equipmentRepo = sqlite.NewEquipmentRepository(database)

	// Create services (primary ports implementation)
	taskService = app.NewTaskService(taskRepo, equipmentRepo, logger, app.Options{
		AutoFollowUp: cfg.Scheduling.AutoFollowUp,
		HorizonDays:  cfg.Scheduling.HorizonDays,
		Metrics:      appMetrics,
	})
}

// setupLogger picks the handler for the environment: readable text with
// debug detail locally, JSON elsewhere.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "local", "dev", "development":
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
}
