package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName       = "YoPay"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultShutdownDelay = 10 * time.Second
	defaultSessionTTL    = 24 * time.Hour
	defaultRatesURL      = "https://api.exchangeratesapi.io/latest"
	defaultRatesTTL      = time.Minute
	defaultKeyPath       = "private_key.pem"

	sessionSecondsEnvVar   = "SESSION_TTL_SECONDS"
	sessionDurEnvVar       = "SESSION_TTL"
	ratesSecondsEnvVar     = "RATES_TTL_SECONDS"
	ratesDurEnvVar         = "RATES_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName            string
	AppEnv             string
	Port               string
	LogLevel           string
	DatabaseURL        string
	RedisURL           string
	RatesURL           string
	RatesTTL           time.Duration
	SessionTTL         time.Duration
	ShutdownPeriod     time.Duration
	StatusManagerToken string
	PrivateKeyPath     string
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:            getEnv("APP_NAME", defaultAppName),
		AppEnv:             getEnv("APP_ENV", defaultAppEnv),
		Port:               getEnv("PORT", defaultPort),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RatesURL:           getEnv("RATES_URL", defaultRatesURL),
		RatesTTL:           defaultRatesTTL,
		SessionTTL:         defaultSessionTTL,
		ShutdownPeriod:     defaultShutdownDelay,
		StatusManagerToken: os.Getenv("STATUS_MANAGER_TOKEN"),
		PrivateKeyPath:     getEnv("PRIVATE_KEY_PATH", defaultKeyPath),
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationEnv(sessionSecondsEnvVar, sessionDurEnvVar, cfg.SessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.RatesTTL, err = durationEnv(ratesSecondsEnvVar, ratesDurEnvVar, cfg.RatesTTL); err != nil {
		return Config{}, err
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}
	if cfg.StatusManagerToken == "" {
		return Config{}, fmt.Errorf("STATUS_MANAGER_TOKEN must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func durationEnv(secondsVar, durationVar string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsVar, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationVar, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
