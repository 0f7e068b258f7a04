package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"transport-route-service/internal/domain"

	"github.com/joho/godotenv"
)

// Config holds all process configuration
type Config struct {
	// Server
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// Storage; empty URLs select the in-memory implementations
	DatabaseURL string
	RedisURL    string
	PlanTTL     time.Duration
	SeedPath    string

	// Planning
	ProfilePath string
	Depot       *domain.Depot

	LogLevel string
}

// LoadConfig loads configuration from environment variables, reading .env first if present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		ReadHeaderTimeout: time.Duration(getEnvAsInt("READ_HEADER_TIMEOUT", 5)) * time.Second,
		ReadTimeout:       time.Duration(getEnvAsInt("READ_TIMEOUT", 10)) * time.Second,
		WriteTimeout:      time.Duration(getEnvAsInt("WRITE_TIMEOUT", 60)) * time.Second,
		IdleTimeout:       time.Duration(getEnvAsInt("IDLE_TIMEOUT", 60)) * time.Second,

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:    strings.TrimSpace(os.Getenv("REDIS_URL")),
		PlanTTL:     time.Duration(getEnvAsInt("PLAN_TTL_HOURS", 72)) * time.Hour,
		SeedPath:    getEnv("SEED_PATH", "data/seeds/demo.json"),

		ProfilePath: strings.TrimSpace(os.Getenv("PLANNING_PROFILE")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	depot, err := depotFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Depot = depot

	return cfg, nil
}

// depotFromEnv returns nil when DEPOT_LAT and DEPOT_LON are not both set.
func depotFromEnv() (*domain.Depot, error) {
	latStr, lonStr := os.Getenv("DEPOT_LAT"), os.Getenv("DEPOT_LON")
	if latStr == "" || lonStr == "" {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, fmt.Errorf("DEPOT_LAT: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, fmt.Errorf("DEPOT_LON: %w", err)
	}

	loc := domain.Coordinates{Lat: lat, Lon: lon}
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("depot: %w", err)
	}

	def := domain.DefaultDepot()
	return &domain.Depot{
		Name:     getEnv("DEPOT_NAME", def.Name),
		Address:  getEnv("DEPOT_ADDRESS", def.Address),
		Location: loc,
	}, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
