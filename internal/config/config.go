package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	Loan     LoanConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // "mysql" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string // sqlite file path
}

// LoanConfig holds lending policy configuration
type LoanConfig struct {
	PeriodDays     int
	FineRatePerDay float64
}

// Default lending policy
const (
	DefaultLoanPeriodDays = 14
	DefaultFineRatePerDay = 0.50
)

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Ignore error if .env doesn't exist in production
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		Loan:     loadLoanConfig(),
	}

	log.Printf("Configuration loaded [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "mysql"),
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "shelfmark"),
		Path:     getEnv("DB_PATH", "shelfmark.db"),
	}
}

// loadLoanConfig loads the lending policy knobs
func loadLoanConfig() LoanConfig {
	periodDays, err := strconv.Atoi(getEnv("LOAN_PERIOD_DAYS", ""))
	if err != nil || periodDays < 1 {
		periodDays = DefaultLoanPeriodDays
	}

	fineRate, err := strconv.ParseFloat(getEnv("FINE_RATE_PER_DAY", ""), 64)
	if err != nil || fineRate < 0 {
		fineRate = DefaultFineRatePerDay
	}

	return LoanConfig{
		PeriodDays:     periodDays,
		FineRatePerDay: fineRate,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" && c.IsDev() {
		return "*"
	}
	return origins
}
