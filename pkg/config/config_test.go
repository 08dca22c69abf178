package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8086" {
		t.Errorf("Expected Port to be 8086, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Vendor.FetchWorkers != 8 {
		t.Errorf("Expected FetchWorkers to be 8, got %d", cfg.Vendor.FetchWorkers)
	}

	if cfg.Factor.TopFraction != 0.10 {
		t.Errorf("Expected TopFraction to be 0.10, got %f", cfg.Factor.TopFraction)
	}

	if cfg.Backtest.BestStrategyBy != "total_return" {
		t.Errorf("Expected BestStrategyBy to be total_return, got %s", cfg.Backtest.BestStrategyBy)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("VENDOR_RATE_LIMIT", "2.5")
	os.Setenv("FACTOR_VALUE_WEIGHT", "0.4")
	os.Setenv("FACTOR_QUALITY_WEIGHT", "0.4")
	os.Setenv("FACTOR_GROWTH_WEIGHT", "0.2")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("VENDOR_RATE_LIMIT")
		os.Unsetenv("FACTOR_VALUE_WEIGHT")
		os.Unsetenv("FACTOR_QUALITY_WEIGHT")
		os.Unsetenv("FACTOR_GROWTH_WEIGHT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Vendor.RateLimit != 2.5 {
		t.Errorf("Expected RateLimit to be 2.5, got %f", cfg.Vendor.RateLimit)
	}

	if cfg.Factor.ValueWeight != 0.4 {
		t.Errorf("Expected ValueWeight to be 0.4, got %f", cfg.Factor.ValueWeight)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "invalid")
	defer os.Unsetenv("ENV")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestValidateWeightsMustSumToOne(t *testing.T) {
	os.Setenv("FACTOR_VALUE_WEIGHT", "0.9")
	defer os.Unsetenv("FACTOR_VALUE_WEIGHT")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when factor weights do not sum to 1, got nil")
	}
}

func TestValidateBestStrategyBy(t *testing.T) {
	os.Setenv("BACKTEST_BEST_BY", "sharpe")
	defer os.Unsetenv("BACKTEST_BEST_BY")

	_, err := Load()
	if err == nil {
		t.Error("Expected error for unknown BACKTEST_BEST_BY, got nil")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "2h")
	defer os.Unsetenv("TEST_DURATION")

	duration := getEnvAsDuration("TEST_DURATION", "1h")
	expected := 2 * time.Hour

	if duration != expected {
		t.Errorf("Expected duration to be %v, got %v", expected, duration)
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	os.Setenv("TEST_FLOAT", "0.05")
	defer os.Unsetenv("TEST_FLOAT")

	value := getEnvAsFloat("TEST_FLOAT", 0.1)
	if value != 0.05 {
		t.Errorf("Expected value to be 0.05, got %f", value)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	os.Setenv("TEST_INT", "100")
	defer os.Unsetenv("TEST_INT")

	value := getEnvAsInt("TEST_INT", 50)
	if value != 100 {
		t.Errorf("Expected value to be 100, got %d", value)
	}
}
