package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// setRequiredEnv populates every mandatory key with a plausible value.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TENANT_SCOPE", "https://issuer.example/realms/t1")
	t.Setenv("ACCOUNT_API_URL", "http://accounts:8080")
	t.Setenv("ACCOUNT_API_USERNAME", "admin")
	t.Setenv("ACCOUNT_API_PASSWORD", "secret")
	t.Setenv("ACCOUNT_API_CLIENT_ID", "fedbridge")
}

func TestLoad_AllRequiredSet(t *testing.T) {
	setRequiredEnv(t)

	got, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "https://issuer.example/realms/t1", got.TenantScope)
	assert.Equal(t, "http://accounts:8080", got.APIBaseURL)
	assert.Equal(t, "admin", got.APIUsername)
	assert.Equal(t, "secret", got.APIPassword)
	assert.Equal(t, "fedbridge", got.ClientID)
	assert.Equal(t, "8890", got.Port)
	assert.Equal(t, 5*time.Second, got.RequestTimeout)
	assert.Equal(t, "fedbridge", got.HostTokenIssuer)
	assert.Equal(t, 5*time.Minute, got.HostTokenTTL)
}

func TestLoad_TrailingSlashTrimmed(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCOUNT_API_URL", "http://accounts:8080/")

	got, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "http://accounts:8080", got.APIBaseURL)
}

func TestLoad_MissingMandatoryValues(t *testing.T) {
	required := []string{
		"TENANT_SCOPE",
		"ACCOUNT_API_URL",
		"ACCOUNT_API_USERNAME",
		"ACCOUNT_API_PASSWORD",
		"ACCOUNT_API_CLIENT_ID",
	}

	for _, missing := range required {
		t.Run(missing, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(missing, "")

			got, err := Load()

			assert.Nil(t, got)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoad_CustomDurations(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("HOST_TOKEN_TTL", "10m")

	got, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, 2*time.Second, got.RequestTimeout)
	assert.Equal(t, 10*time.Minute, got.HostTokenTTL)
}

func TestLoad_InvalidTimeoutFormat(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "soon")

	got, err := Load()

	assert.Nil(t, got)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid REQUEST_TIMEOUT")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			TenantScope:    "t1",
			APIBaseURL:     "http://accounts:8080",
			APIUsername:    "admin",
			APIPassword:    "secret",
			ClientID:       "fedbridge",
			Port:           "8890",
			RequestTimeout: 5 * time.Second,
		}
	}

	t.Run("valid configuration", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("non-url base", func(t *testing.T) {
		cfg := valid()
		cfg.APIBaseURL = "not a url"
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero timeout", func(t *testing.T) {
		cfg := valid()
		cfg.RequestTimeout = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestGetEnv_FileIndirection(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/secret"
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ACCOUNT_API_PASSWORD_FILE", path)
	t.Setenv("ACCOUNT_API_PASSWORD", "ignored")

	assert.Equal(t, "from-file", getEnv("ACCOUNT_API_PASSWORD", ""))
}
