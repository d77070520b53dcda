package config

type Config struct {
	Environment string `mapstructure:"environment" yaml:"environment"`
	Port        int    `mapstructure:"port" yaml:"port"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`

	Engine     EngineConfig     `mapstructure:"engine" yaml:"engine"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	CORS       CORSConfig       `mapstructure:"cors" yaml:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit" yaml:"rate_limit"`
	WebSocket  WebSocketConfig  `mapstructure:"websocket" yaml:"websocket"`
	Monitoring MonitoringConfig `mapstructure:"monitoring" yaml:"monitoring"`
}

// EngineConfig tunes the recommendation engine's data tables and the
// service-layer render cache. The engine itself never caches; the TTL below
// belongs to the HTTP layer memoizing a pure function.
type EngineConfig struct {
	// LexiconFile optionally extends or replaces the built-in keyword
	// tables (date vocabulary, funnel stages). Hot-reloaded on change.
	LexiconFile string `mapstructure:"lexicon_file" yaml:"lexicon_file"`

	// Palettes adds custom named palettes over the built-ins.
	Palettes map[string][]string `mapstructure:"palettes" yaml:"palettes"`

	// RenderCacheTTL is the render-result cache TTL in seconds; 0 disables
	// render caching.
	RenderCacheTTL int `mapstructure:"render_cache_ttl" yaml:"render_cache_ttl"`
}

// CacheConfig handles Valkey caching configuration. One node means a
// single-node client, several mean cluster mode, none means the in-memory
// fallback.
type CacheConfig struct {
	Nodes    []string `mapstructure:"nodes" yaml:"nodes"`
	TTL      int      `mapstructure:"ttl" yaml:"ttl"` // seconds
	Password string   `mapstructure:"password" yaml:"password"`
	DB       int      `mapstructure:"db" yaml:"db"`
}

// CORSConfig handles Cross-Origin Resource Sharing for browser callers.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
}

// RateLimitConfig bounds request volume per client. The limiter stores its
// counters in the cache backend and fails open when the cache is down.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled" yaml:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// WebSocketConfig handles the interactive preview stream.
type WebSocketConfig struct {
	Enabled         bool `mapstructure:"enabled" yaml:"enabled"`
	ReadBufferSize  int  `mapstructure:"read_buffer_size" yaml:"read_buffer_size"`
	WriteBufferSize int  `mapstructure:"write_buffer_size" yaml:"write_buffer_size"`
	MaxMessageSize  int  `mapstructure:"max_message_size" yaml:"max_message_size"`
}

// MonitoringConfig handles self-monitoring configuration.
type MonitoringConfig struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	MetricsPath       string `mapstructure:"metrics_path" yaml:"metrics_path"`
	PrometheusEnabled bool   `mapstructure:"prometheus_enabled" yaml:"prometheus_enabled"`
	TracingEnabled    bool   `mapstructure:"tracing_enabled" yaml:"tracing_enabled"`
	OTLPEndpoint      string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
}
