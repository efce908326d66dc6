package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
// API key precedence:
// 1. Vault (if configured)
// 2. Config file values
// 3. Environment variables (RESUMEFIT_ORACLE_APIKEY, ...)
// 4. Defaults
type Config struct {
	Oracle        OracleConfig        `mapstructure:"oracle"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// OracleConfig holds text-generation oracle configuration. Operation blocks
// override the global values where their pointer fields are set.
type OracleConfig struct {
	Provider      string        `mapstructure:"provider"`
	Model         string        `mapstructure:"model"`
	APIKey        string        `mapstructure:"apiKey"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"maxRetries"`
	Temperature   float32       `mapstructure:"temperature"`
	MaxConcurrent int64         `mapstructure:"maxConcurrent"` // global gate over all oracle calls

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
	Prompts        PromptOverrides      `mapstructure:"prompts"`

	ExtractJob    OperationOracleConfig `mapstructure:"extractJob"`
	ExtractResume OperationOracleConfig `mapstructure:"extractResume"`
	Match         OperationOracleConfig `mapstructure:"match"`
	Optimize      OperationOracleConfig `mapstructure:"optimize"`
	Recommend     OperationOracleConfig `mapstructure:"recommend"`
	Language      OperationOracleConfig `mapstructure:"language"`
}

// OperationOracleConfig overrides oracle settings for one pipeline operation
type OperationOracleConfig struct {
	Model       string         `mapstructure:"model"`
	Timeout     *time.Duration `mapstructure:"timeout"`
	MaxRetries  *int           `mapstructure:"maxRetries"`
	Temperature *float32       `mapstructure:"temperature"`
}

// ResolvedOracleConfig is the effective configuration for one operation
// after merging globals with the operation block
type ResolvedOracleConfig struct {
	Model          string
	Timeout        time.Duration
	MaxRetries     int
	Temperature    float32
	CircuitBreaker CircuitBreakerConfig
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // open-to-half-open timeout
	MinRequests      uint32        `mapstructure:"minRequests"`      // minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // failure ratio threshold (0.0-1.0)
}

// CacheConfig holds analysis cache configuration. When RedisAddr is empty
// the cache degrades to the in-process bounded map only.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redisAddr"`
	RedisPassword string        `mapstructure:"redisPassword"`
	RedisDB       int           `mapstructure:"redisDB"`
	TTL           time.Duration `mapstructure:"ttl"`
	LocalCapacity int           `mapstructure:"localCapacity"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	APIKeys []string `mapstructure:"apiKeys"` // valid API keys for authentication

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	ServiceName     string            `mapstructure:"serviceName"`
	ServiceVersion  string            `mapstructure:"serviceVersion"`
	ServiceInstance string            `mapstructure:"serviceInstance"`
	ConsoleOutput   bool              `mapstructure:"consoleOutput"`
	SampleRate      float64           `mapstructure:"sampleRate"`
	Prometheus      PrometheusConfig  `mapstructure:"prometheus"`
	OTLP            OTLPConfig        `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig `mapstructure:"healthCheck"`
}

// PrometheusConfig holds Prometheus exporter configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	ModelCheckTimeout time.Duration `mapstructure:"modelCheckTimeout"`
}

// ForOperation merges the global oracle settings with one operation block
func (o *OracleConfig) ForOperation(operation string) ResolvedOracleConfig {
	resolved := ResolvedOracleConfig{
		Model:          o.Model,
		Timeout:        o.Timeout,
		MaxRetries:     o.MaxRetries,
		Temperature:    o.Temperature,
		CircuitBreaker: o.CircuitBreaker,
	}

	var op *OperationOracleConfig
	switch operation {
	case "extract_job":
		op = &o.ExtractJob
	case "extract_resume":
		op = &o.ExtractResume
	case "match":
		op = &o.Match
	case "optimize":
		op = &o.Optimize
	case "recommend":
		op = &o.Recommend
	case "detect_language":
		op = &o.Language
	default:
		return resolved
	}

	if op.Model != "" {
		resolved.Model = op.Model
	}
	if op.Timeout != nil {
		resolved.Timeout = *op.Timeout
	}
	if op.MaxRetries != nil {
		resolved.MaxRetries = *op.MaxRetries
	}
	if op.Temperature != nil {
		resolved.Temperature = *op.Temperature
	}

	return resolved
}

// LoadConfig loads configuration from defaults, a config file and environment
// variables, in increasing precedence
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("RESUMEFIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumefit/")
	v.AddConfigPath("$HOME/.resumefit")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Oracle.MaxConcurrent <= 0 {
		return fmt.Errorf("oracle.maxConcurrent must be positive, got %d", c.Oracle.MaxConcurrent)
	}
	if c.Oracle.MaxRetries < 0 {
		return fmt.Errorf("oracle.maxRetries must not be negative, got %d", c.Oracle.MaxRetries)
	}
	if c.Cache.LocalCapacity <= 0 {
		return fmt.Errorf("cache.localCapacity must be positive, got %d", c.Cache.LocalCapacity)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	return nil
}
