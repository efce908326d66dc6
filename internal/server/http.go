package server

import (
	"resumefit/internal/cache"
	"resumefit/internal/config"
	resumefitErrors "resumefit/internal/errors"
	"resumefit/internal/observability"
	"resumefit/internal/oracle"
	"resumefit/internal/pipeline"
)

// AnalyzeRequest is the request body for the analyze endpoint
type AnalyzeRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	Language       string `json:"language,omitempty"`
}

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server hosts the analysis pipeline over HTTP
type Server struct {
	Host    string
	Port    string
	Version string

	AppConfig *config.Config

	Pipeline *pipeline.Pipeline
	Oracle   oracle.Client
	Cache    cache.Store

	// API authentication; empty map disables auth
	APIKeys map[string]bool

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Observability *observability.Manager
	Logger        *resumefitErrors.Logger
}

// NewServer wires a server around the pipeline
func NewServer(appCfg *config.Config, version string, pipe *pipeline.Pipeline, client oracle.Client, store cache.Store, om *observability.Manager, logger *resumefitErrors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range appCfg.Server.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if appCfg.Server.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			appCfg.Server.RateLimit.RequestsPerMin,
			appCfg.Server.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           appCfg.Server.Host,
		Port:           appCfg.Server.Port,
		Version:        version,
		AppConfig:      appCfg,
		Pipeline:       pipe,
		Oracle:         client,
		Cache:          store,
		APIKeys:        apiKeyMap,
		MaxRequestSize: appCfg.App.MaxFileSize,
		RateLimit:      &appCfg.Server.RateLimit,
		RateLimiter:    rateLimiter,
		Observability:  om,
		Logger:         logger,
	}
}
