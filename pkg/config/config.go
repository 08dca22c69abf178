package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market data vendor
	Vendor VendorConfig

	// Factor model
	Factor FactorConfig

	// Backtest defaults
	Backtest BacktestConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// VendorConfig holds the market data vendor endpoints and limits.
type VendorConfig struct {
	QuoteBaseURL     string
	HistoryBaseURL   string
	FinancialBaseURL string
	// Index symbol whose bar dates define the trading calendar
	CalendarIndex string

	// Requests per second against the vendor
	RateLimit float64
	// Concurrent per-symbol history downloads
	FetchWorkers int
	// Cache TTL for vendor responses
	CacheTTL time.Duration
}

// FactorConfig holds the default composite weights and tail fractions.
type FactorConfig struct {
	ValueWeight   float64
	QualityWeight float64
	GrowthWeight  float64

	WinsorLower float64
	WinsorUpper float64

	TopFraction float64
}

// BacktestConfig holds backtest defaults.
type BacktestConfig struct {
	InitialCapital float64
	TopN           int
	// When the win-rate winner and the total-return winner disagree,
	// this picks the champion. Valid: "total_return", "win_rate".
	BestStrategyBy string
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8086"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Vendor: VendorConfig{
			QuoteBaseURL:     getEnv("VENDOR_QUOTE_URL", "https://push2.eastmoney.com/api/qt"),
			HistoryBaseURL:   getEnv("VENDOR_HISTORY_URL", "https://push2his.eastmoney.com/api/qt"),
			FinancialBaseURL: getEnv("VENDOR_FINANCIAL_URL", "https://data.eastmoney.com/bbsj"),
			CalendarIndex:    getEnv("VENDOR_CALENDAR_INDEX", "1.000001"),
			RateLimit:        getEnvAsFloat("VENDOR_RATE_LIMIT", 5.0),
			FetchWorkers:     getEnvAsInt("VENDOR_FETCH_WORKERS", 8),
			CacheTTL:         getEnvAsDuration("VENDOR_CACHE_TTL", "6h"),
		},

		Factor: FactorConfig{
			ValueWeight:   getEnvAsFloat("FACTOR_VALUE_WEIGHT", 0.25),
			QualityWeight: getEnvAsFloat("FACTOR_QUALITY_WEIGHT", 0.50),
			GrowthWeight:  getEnvAsFloat("FACTOR_GROWTH_WEIGHT", 0.25),
			WinsorLower:   getEnvAsFloat("FACTOR_WINSOR_LOWER", 0.01),
			WinsorUpper:   getEnvAsFloat("FACTOR_WINSOR_UPPER", 0.99),
			TopFraction:   getEnvAsFloat("FACTOR_TOP_FRACTION", 0.10),
		},

		Backtest: BacktestConfig{
			InitialCapital: getEnvAsFloat("BACKTEST_INITIAL_CAPITAL", 100_000),
			TopN:           getEnvAsInt("BACKTEST_TOP_N", 10),
			BestStrategyBy: getEnv("BACKTEST_BEST_BY", "total_return"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are consistent.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	sum := c.Factor.ValueWeight + c.Factor.QualityWeight + c.Factor.GrowthWeight
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("factor weights must sum to 1.0, got %.4f", sum)
	}

	if c.Factor.WinsorLower < 0 || c.Factor.WinsorUpper > 1 || c.Factor.WinsorLower >= c.Factor.WinsorUpper {
		return fmt.Errorf("winsor bounds must satisfy 0 <= lower < upper <= 1")
	}

	if c.Backtest.BestStrategyBy != "total_return" && c.Backtest.BestStrategyBy != "win_rate" {
		return fmt.Errorf("BACKTEST_BEST_BY must be total_return or win_rate")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
