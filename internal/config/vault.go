package config

import (
	"fmt"
	"os"
	"strings"

	"resumefit/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where to find secrets in Vault
type VaultSecrets struct {
	OracleKey string `mapstructure:"oracleKey"` // path to the oracle API key secret
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient creates a new Vault client from configuration. Returns
// (nil, nil) when Vault integration is disabled.
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled")
		}
		return nil, nil
	}

	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	token, err := resolveVaultToken(config)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	if _, err := client.Sys().Health(); err != nil {
		return nil, fmt.Errorf("vault health check failed for %s: %w", vaultConfig.Address, err)
	}

	if logger != nil {
		logger.Info("Vault client initialized", "address", vaultConfig.Address)
	}

	return &VaultClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// resolveVaultToken resolves the Vault token from config or a token file
func resolveVaultToken(config VaultConfig) (string, error) {
	if config.Token != "" {
		return config.Token, nil
	}

	if config.TokenFile != "" {
		data, err := os.ReadFile(config.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file %s: %w", config.TokenFile, err)
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return "", fmt.Errorf("vault token file %s is empty", config.TokenFile)
		}
		return token, nil
	}

	if token := os.Getenv("VAULT_TOKEN"); token != "" {
		return token, nil
	}

	return "", fmt.Errorf("no vault token configured")
}

// ReadSecret reads a KV secret at the given path and returns the named field
func (vc *VaultClient) ReadSecret(path, field string) (string, error) {
	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return "", fmt.Errorf("failed to read vault secret %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault secret %s not found", path)
	}

	data := secret.Data
	// KV v2 nests the payload under "data"
	if nested, ok := data["data"].(map[string]any); ok {
		data = nested
	}

	value, ok := data[field].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("vault secret %s has no string field %q", path, field)
	}
	return value, nil
}

// ApplyVaultSecrets overrides config values with secrets from Vault. It is a
// no-op when Vault is disabled. The oracle API key from Vault takes precedence
// over config file and environment values.
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	vc, err := NewVaultClient(cfg.Vault, logger)
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Failed to initialize Vault client", err)
	}
	if vc == nil {
		return nil
	}

	if path := cfg.Vault.Secrets.OracleKey; path != "" {
		key, err := vc.ReadSecret(path, "apiKey")
		if err != nil {
			return errors.NewConfigError(errors.ErrCodeMissingAPIKey,
				"Failed to read oracle API key from Vault", err)
		}
		cfg.Oracle.APIKey = key
		if logger != nil {
			logger.Info("Oracle API key loaded from Vault", "path", path)
		}
	}

	return nil
}
