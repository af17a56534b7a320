package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// PayrollConfig holds the automation schedule. Hour and Minute are
// local wall-clock in Timezone.
type PayrollConfig struct {
	AutomationEnabled bool
	RunHour           int
	RunMinute         int
	Timezone          string
}

func Load() (*Config, error) {
	// Env vars win over .env; a missing file is fine in production.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Payroll automation configuration
	runHour, err := strconv.Atoi(getEnv("PAYROLL_RUN_HOUR", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_RUN_HOUR: %w", err)
	}
	runMinute, err := strconv.Atoi(getEnv("PAYROLL_RUN_MINUTE", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_RUN_MINUTE: %w", err)
	}
	enabled, err := strconv.ParseBool(getEnv("PAYROLL_AUTOMATION_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_AUTOMATION_ENABLED: %w", err)
	}

	config.Payroll = PayrollConfig{
		AutomationEnabled: enabled,
		RunHour:           runHour,
		RunMinute:         runMinute,
		Timezone:          getEnv("PAYROLL_TIMEZONE", "UTC"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Payroll.RunHour < 0 || c.Payroll.RunHour > 23 {
		return fmt.Errorf("PAYROLL_RUN_HOUR must be between 0 and 23")
	}
	if c.Payroll.RunMinute < 0 || c.Payroll.RunMinute > 59 {
		return fmt.Errorf("PAYROLL_RUN_MINUTE must be between 0 and 59")
	}
	if _, err := time.LoadLocation(c.Payroll.Timezone); err != nil {
		return fmt.Errorf("invalid PAYROLL_TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves the configured payroll timezone. Validate has
// already checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Payroll.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
