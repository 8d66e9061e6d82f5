package config

import "time"

// Config represents the complete vaultpay gateway configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Storage  StorageConfig  `yaml:"storage"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Provider ProviderConfig `yaml:"provider"`
	API      APIConfig      `yaml:"api,omitempty"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

// StorageConfig defines record storage settings.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// WebhookConfig defines the inbound webhook listener.
type WebhookConfig struct {
	Listen string `yaml:"listen"`

	// Path is the URL path the provider posts deliveries to.
	Path string `yaml:"path"`

	// Secret is the Svix-style signing secret ("whsec_<base64>").
	// Supports ${ENV_VAR} interpolation. May be left empty; verification
	// then fails per-request with a configuration fault, matching the
	// behavior of an unset secret in production.
	Secret string `yaml:"secret"`

	// MaxBodySize is the maximum allowed request body size in bytes.
	MaxBodySize int64 `yaml:"max_body_size,omitempty"`

	// MaxSkew, when positive, rejects deliveries whose svix-timestamp is
	// further than this from now. Zero disables the freshness check.
	MaxSkew time.Duration `yaml:"max_skew,omitempty"`
}

// ProviderConfig defines the outbound Maplerad read client.
type ProviderConfig struct {
	BaseURL   string        `yaml:"base_url"`
	SecretKey string        `yaml:"secret_key"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
}

// APIConfig defines the ops HTTP API server.
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	APIKey  string `yaml:"api_key"`
}

// ChecksumManifest is the parsed .checksums file.
type ChecksumManifest struct {
	Version     int               `yaml:"version"`
	GeneratedAt string            `yaml:"generated_at"`
	Hashes      map[string]string `yaml:"hashes"`
}

// Default values applied by Load when fields are unset.
const (
	DefaultListen      = "127.0.0.1:8080"
	DefaultWebhookPath = "/webhooks/maplerad"
	DefaultMaxBodySize = 1048576 // 1 MB
	DefaultBaseURL     = "https://api.maplerad.com/v1"
	DefaultTimeout     = 20 * time.Second
	DefaultAPIListen   = "127.0.0.1:8081"
)
