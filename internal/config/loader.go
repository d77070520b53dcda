package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from various sources with priority order:
// 1. Environment variables
// 2. Configuration file (config.yaml)
// 3. Default values
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/vizor/")
	v.AddConfigPath("./configs/")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("VIZOR")

	setDefaults(v)

	// Read configuration file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars and defaults
	}

	overrideWithEnvVars(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")

	// Engine defaults
	v.SetDefault("engine.lexicon_file", "")
	v.SetDefault("engine.render_cache_ttl", 300)

	// Cache defaults
	v.SetDefault("cache.nodes", []string{})
	v.SetDefault("cache.ttl", 300)
	v.SetDefault("cache.db", 0)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Cache-Control", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 3600)

	// Rate limiting defaults
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_minute", 120)

	// WebSocket defaults
	v.SetDefault("websocket.enabled", true)
	v.SetDefault("websocket.read_buffer_size", 4096)
	v.SetDefault("websocket.write_buffer_size", 4096)
	v.SetDefault("websocket.max_message_size", 1048576)

	// Monitoring defaults
	v.SetDefault("monitoring.enabled", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")
	v.SetDefault("monitoring.prometheus_enabled", true)
	v.SetDefault("monitoring.tracing_enabled", false)
	v.SetDefault("monitoring.otlp_endpoint", "localhost:4317")
}

// overrideWithEnvVars handles the handful of deployment knobs that arrive as
// flat environment variables rather than viper-mapped keys.
func overrideWithEnvVars(v *viper.Viper) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("port", p)
		}
	}

	if nodes := os.Getenv("VIZOR_CACHE_NODES"); nodes != "" {
		v.Set("cache.nodes", strings.Split(nodes, ","))
	}

	if password := os.Getenv("VIZOR_CACHE_PASSWORD"); password != "" {
		v.Set("cache.password", password)
	}

	if lexicon := os.Getenv("VIZOR_LEXICON_FILE"); lexicon != "" {
		v.Set("engine.lexicon_file", lexicon)
	}

	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		v.Set("monitoring.otlp_endpoint", endpoint)
		v.Set("monitoring.tracing_enabled", true)
	}
}

func validateConfig(config *Config) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", config.Port)
	}

	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", config.LogLevel)
	}

	if config.Engine.RenderCacheTTL < 0 {
		return fmt.Errorf("engine.render_cache_ttl must not be negative, got %d", config.Engine.RenderCacheTTL)
	}
	for name, colors := range config.Engine.Palettes {
		if len(colors) == 0 {
			return fmt.Errorf("engine.palettes.%s must list at least one color", name)
		}
	}

	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %d", config.Cache.TTL)
	}

	if config.RateLimit.Enabled && config.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("rate_limit.requests_per_minute must be positive when rate limiting is enabled")
	}

	return nil
}
