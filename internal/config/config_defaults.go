package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Oracle configuration - global defaults
	v.SetDefault("oracle.provider", "gemini")
	v.SetDefault("oracle.model", "gemini-2.0-flash")
	v.SetDefault("oracle.apiKey", "")
	v.SetDefault("oracle.timeout", 30*time.Second)
	v.SetDefault("oracle.maxRetries", 3)
	v.SetDefault("oracle.temperature", 0.2)
	v.SetDefault("oracle.maxConcurrent", 10)

	// Circuit breaker defaults, shared by all operations
	v.SetDefault("oracle.circuitBreaker.enabled", true)
	v.SetDefault("oracle.circuitBreaker.maxRequests", 3)
	v.SetDefault("oracle.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("oracle.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("oracle.circuitBreaker.minRequests", 3)
	v.SetDefault("oracle.circuitBreaker.failureThreshold", 0.6)

	// Language detection is latency-sensitive: short timeout, no retry
	v.SetDefault("oracle.language.timeout", 10*time.Second)
	v.SetDefault("oracle.language.maxRetries", 0)

	// Advice generators tolerate a cheaper model
	v.SetDefault("oracle.optimize.model", "")
	v.SetDefault("oracle.recommend.model", "")

	// Cache configuration
	v.SetDefault("cache.redisAddr", "")
	v.SetDefault("cache.redisPassword", "")
	v.SetDefault("cache.redisDB", 0)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.localCapacity", 100)

	// Server configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 120*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Vault configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.oracleKey", "")

	// Observability configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumefit")
	v.SetDefault("observability.serviceVersion", "dev")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.healthCheck.timeout", 10*time.Second)
	v.SetDefault("observability.healthCheck.modelCheckTimeout", 10*time.Second)
}
