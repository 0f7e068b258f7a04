package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transport-route-service/internal/adapters/cache"
	"transport-route-service/internal/adapters/repositories"
	"transport-route-service/internal/api"
	"transport-route-service/internal/api/handlers"
	"transport-route-service/internal/config"
	"transport-route-service/internal/platform/db"
	"transport-route-service/internal/platform/logger"
	"transport-route-service/internal/platform/metrics"
	"transport-route-service/internal/ports"
	"transport-route-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or memory, Redis or memory) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("failed to load config", "error", err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	metrics.RegisterDefault()

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		log.Fatal("failed to load planning profile", "error", err)
	}
	settings := profile.Settings()
	depot := config.ResolveDepot(cfg, profile)

	checks := map[string]handlers.Pinger{}

	var (
		patients  ports.PatientRepository
		vehicles  ports.VehicleRepository
		schedules ports.ScheduleRepository
	)
	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to open database", "error", err)
		}
		defer sqlDB.Close()

		patients = repositories.NewPostgresPatientRepository(sqlDB)
		vehicles = repositories.NewPostgresVehicleRepository(sqlDB)
		schedules = repositories.NewPostgresScheduleRepository(sqlDB)
		checks["postgres"] = handlers.PingFunc(sqlDB.PingContext)
		log.Info("using postgres repositories")
	} else {
		mem, err := memoryRepository(cfg.SeedPath, profile)
		if err != nil {
			log.Fatal("failed to build in-memory repository", "error", err)
		}
		patients, vehicles, schedules = mem, mem, mem
		log.Info("using in-memory repository", "seed", cfg.SeedPath)
	}

	var plans ports.PlanStore
	if cfg.RedisURL != "" {
		store, err := cache.NewRedisPlanStoreFromURL(cfg.RedisURL, cfg.PlanTTL)
		if err != nil {
			log.Fatal("failed to connect to redis", "error", err)
		}
		defer store.Close()

		plans = store
		checks["redis"] = store
		log.Info("using redis plan store", "ttl", cfg.PlanTTL.String())
	} else {
		plans = cache.NewMemoryPlanStore()
		log.Info("using in-memory plan store")
	}

	estimator := profile.Estimator()
	planner := services.NewHeuristicPlanner(settings, estimator, log)
	svc := services.NewPlanningService(
		patients, vehicles, schedules, plans,
		planner,
		services.NewSlotAssigner(settings, log),
		depot,
		log,
	)

	router := api.NewRouter(api.RouterDeps{
		Service: svc,
		Log:     log,
		Checks:  checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go func() {
		log.Info("server listening", "addr", srv.Addr, "depot", depot.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
}

// memoryRepository seeds the in-memory repository. Schedules declared in the
// planning profile replace the seed's schedules.
func memoryRepository(seedPath string, profile *config.Profile) (*repositories.Memory, error) {
	seed, err := repositories.LoadSeed(seedPath)
	if err != nil {
		return nil, err
	}

	book, err := profile.ScheduleBook()
	if err != nil {
		return nil, err
	}
	if book == nil {
		return repositories.NewMemoryFromSeed(seed)
	}

	vehicles, err := seed.DomainVehicles()
	if err != nil {
		return nil, err
	}
	patients, err := seed.DomainPatients()
	if err != nil {
		return nil, err
	}
	return repositories.NewMemory(*book, vehicles, patients), nil
}
