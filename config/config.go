package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env      string
	Addr     string
	LogLevel slog.Level

	Database DatabaseConfig
	Cache    CacheConfig
	Tracing  TracingConfig

	// DashboardAPIURL is the base URL the dashboard page fetches the API from.
	DashboardAPIURL   string
	HTTPClientTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the connection string understood by pgxpool.ParseConfig.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type CacheConfig struct {
	Address  string
	Password string
	TLS      bool
	TTL      time.Duration
}

func (c CacheConfig) Enabled() bool { return c.Address != "" }

type TracingConfig struct {
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

func (t TracingConfig) Enabled() bool { return t.Endpoint != "" }

// Load builds a Config from the environment. Call LoadEnv first to pull in
// the env file.
func Load() (Config, error) {
	cfg := Config{
		Env:  AppEnv(),
		Addr: getEnv("APP_ADDR", ":8080"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "twitter_h1b"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Cache: CacheConfig{
			Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TLS:      os.Getenv("VALKEY_TLS") == "true",
		},
		Tracing: TracingConfig{
			Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "sentidash"),
		},
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv("HTTP_CLIENT_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("HTTP_CLIENT_TIMEOUT: %w", err)
	}
	cfg.HTTPClientTimeout = timeout

	ttl, err := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "30"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL_SECONDS: must be a positive integer, got %q", os.Getenv("CACHE_TTL_SECONDS"))
	}
	cfg.Cache.TTL = time.Duration(ttl) * time.Second

	ratio, err := strconv.ParseFloat(getEnv("OTEL_TRACES_SAMPLER_ARG", "1"), 64)
	if err != nil || ratio < 0 || ratio > 1 {
		return Config{}, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG: must be within [0,1], got %q", os.Getenv("OTEL_TRACES_SAMPLER_ARG"))
	}
	cfg.Tracing.SampleRatio = ratio

	cfg.DashboardAPIURL = getEnv("DASHBOARD_API_URL", "")
	if cfg.DashboardAPIURL == "" {
		cfg.DashboardAPIURL, err = localURL(cfg.Addr)
		if err != nil {
			return Config{}, fmt.Errorf("APP_ADDR: %w", err)
		}
	}

	return cfg, nil
}

// localURL turns a listen address into a URL reachable from the same host.
func localURL(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", err
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
