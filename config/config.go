package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the bridge configuration. Every value is fixed before the
// bridge accepts its first call; the tenant scope in particular is immutable
// for the process lifetime.
type Config struct {
	// External account API connection. All four are mandatory.
	TenantScope string `validate:"required"`
	APIBaseURL  string `validate:"required,url"`
	APIUsername string `validate:"required"`
	APIPassword string `validate:"required"`
	ClientID    string `validate:"required"`

	// Service surface.
	Port           string        `validate:"required"`
	RequestTimeout time.Duration `validate:"gt=0"`

	// Optional internal auth shared secret; empty disables the check.
	AuthSharedSecret string

	// Host token issuance; empty secret disables it.
	HostTokenSecret   string
	HostTokenIssuer   string
	HostTokenAudience string
	HostTokenTTL      time.Duration
}

// Load reads configuration from environment variables. Any missing mandatory
// value is a fatal configuration error raised here, before the first call.
func Load() (*Config, error) {
	config := &Config{
		TenantScope:       getEnv("TENANT_SCOPE", ""),
		APIBaseURL:        strings.TrimRight(getEnv("ACCOUNT_API_URL", ""), "/"),
		APIUsername:       getEnv("ACCOUNT_API_USERNAME", ""),
		APIPassword:       getEnv("ACCOUNT_API_PASSWORD", ""),
		ClientID:          getEnv("ACCOUNT_API_CLIENT_ID", ""),
		Port:              getEnv("PORT", "8890"),
		RequestTimeout:    5 * time.Second,
		AuthSharedSecret:  getEnv("AUTH_SHARED_SECRET", ""),
		HostTokenSecret:   getEnv("HOST_TOKEN_SECRET", ""),
		HostTokenIssuer:   getEnv("HOST_TOKEN_ISSUER", "fedbridge"),
		HostTokenAudience: getEnv("HOST_TOKEN_AUDIENCE", "host-platform"),
		HostTokenTTL:      5 * time.Minute,
	}

	if timeoutStr := os.Getenv("REQUEST_TIMEOUT"); timeoutStr != "" {
		duration, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT format: %w", err)
		}
		config.RequestTimeout = duration
	}

	if ttlStr := os.Getenv("HOST_TOKEN_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid HOST_TOKEN_TTL format: %w", err)
		}
		config.HostTokenTTL = duration
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var invalid []string
		for _, fieldErr := range err.(validator.ValidationErrors) {
			invalid = append(invalid, fieldErr.Field())
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
	}
	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
