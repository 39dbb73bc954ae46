package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                 "development",
		Port:                "8080",
		JWTSecret:           "secure-secret-at-least-32-chars-long",
		DBDriver:            DriverPostgres,
		DBPassword:          "secure-password",
		DBSSLMode:           "require",
		PollIntervalSeconds: 20,
		PollTimeoutSeconds:  15,
		ToastTTLSeconds:     3,
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateDriver(t *testing.T) {
	c := validConfig()
	c.DBDriver = "oracle"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.DBDriver = ""
	require.NoError(t, c.Validate())
	assert.Equal(t, DriverPostgres, c.DBDriver)

	c = validConfig()
	c.Env = "production"
	c.DBDriver = DriverSQLite
	assert.Error(t, c.Validate())
}

func TestConfig_ValidatePolling(t *testing.T) {
	c := validConfig()
	c.PollIntervalSeconds = 0
	assert.Error(t, c.Validate())

	c = validConfig()
	c.PollTimeoutSeconds = -1
	assert.Error(t, c.Validate())
}

func TestConfig_Durations(t *testing.T) {
	c := validConfig()
	c.ProfileCacheTTLSeconds = 60
	assert.Equal(t, 20*time.Second, c.PollInterval())
	assert.Equal(t, 15*time.Second, c.PollTimeout())
	assert.Equal(t, 3*time.Second, c.ToastTTL())
	assert.Equal(t, time.Minute, c.ProfileCacheTTL())
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_DRIVER")
	defer viper.Reset()

	os.Setenv("APP_ENV", "test")
	os.Setenv("DB_DRIVER", "  SQLite ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, 20, c.PollIntervalSeconds)
	assert.Equal(t, 3, c.ToastTTLSeconds)
	assert.Equal(t, "8375", c.Port)
}
