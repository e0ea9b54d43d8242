package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseValidConfig returns a fully-valid configuration object that callers
// can tweak inside table tests.
func baseValidConfig() Config {
	return Config{
		AppPort:               8080,
		BcryptCost:            10,
		SignInRatePerMin:      5,
		LogLevel:              "info",
		LogFormat:             "json",
		MongoURI:              "mongodb://localhost:27017",
		MongoDBName:           "test",
		JWTSecret:             "this-is-a-super-secret-jwt-key-with-32-plus-chars",
		JWTExpiryMinutes:      60,
		CascadeTransactions:   true,
		RequestLoggingEnabled: true,
		WSOutboxBuffer:        256,
		WSMaxSessionSec:       900,
	}
}

// clearConfigEnvVars removes every environment variable that the Config loader
// consumes so each test starts with a clean slate.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()

	for _, k := range []string{
		"APP_PORT",
		"BCRYPT_COST",
		"SIGNIN_RATE_PER_MIN",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"MONGO_URI",
		"MONGO_DB_NAME",
		"JWT_SECRET",
		"JWT_EXPIRY_MINUTES",
		"AUTH_REQUIRED",
		"CASCADE_TRANSACTIONS",
		"REQUEST_LOGGING_ENABLED",
		"ROUTE_METRICS_ENABLED",
		"WS_OUTBOX_BUFFER",
		"WS_MAX_SESSION_SEC",
		"PYROSCOPE_SERVER_ADDRESS",
	} {
		if err := os.Unsetenv(k); err != nil {
			t.Logf("warning: failed to unset %s: %v", k, err)
		}
	}
}

func TestConfigLoadDefaults(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()
	t.Cleanup(ResetCache)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.AppPort)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 5, cfg.SignInRatePerMin)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "noteful", cfg.MongoDBName)
	assert.Equal(t, 7*24*60, cfg.JWTExpiryMinutes)
	assert.False(t, cfg.AuthRequired)
	assert.True(t, cfg.CascadeTransactions)
	assert.True(t, cfg.RequestLoggingEnabled)
	assert.True(t, cfg.RouteMetricsEnabled)
	assert.Equal(t, 256, cfg.WSOutboxBuffer)
	assert.Equal(t, 900, cfg.WSMaxSessionSec)
	assert.Empty(t, cfg.PyroscopeAddr)
}

func TestConfigLoadWithOverride(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()
	t.Cleanup(ResetCache)

	t.Setenv("APP_PORT", "9999")
	t.Setenv("MONGO_DB_NAME", "noteful-test")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("CASCADE_TRANSACTIONS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.AppPort)
	assert.Equal(t, "noteful-test", cfg.MongoDBName)
	assert.True(t, cfg.AuthRequired)
	assert.False(t, cfg.CascadeTransactions)
}

func TestConfigCaching(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()
	t.Cleanup(ResetCache)

	cfg1, err := Load()
	require.NoError(t, err)

	// later env changes are invisible until ResetCache
	t.Setenv("APP_PORT", "7070")

	cfg2, err := Load()
	require.NoError(t, err)

	assert.Equal(t, cfg1, cfg2)
}

func TestConfigLoadRejectsInvalid(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()
	t.Cleanup(ResetCache)

	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	assert.ErrorIs(t, err, ErrJWTSecretTooShort)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:   "valid config",
			modify: func(*Config) {},
		},
		{
			name:    "invalid port - zero",
			modify:  func(c *Config) { c.AppPort = 0 },
			wantErr: ErrAppPortRange,
		},
		{
			name:    "invalid port - too high",
			modify:  func(c *Config) { c.AppPort = 70000 },
			wantErr: ErrAppPortRange,
		},
		{
			name:    "bcrypt cost too low",
			modify:  func(c *Config) { c.BcryptCost = 3 },
			wantErr: ErrBcryptCostRange,
		},
		{
			name:    "bcrypt cost too high",
			modify:  func(c *Config) { c.BcryptCost = 17 },
			wantErr: ErrBcryptCostRange,
		},
		{
			name:    "signin rate too low",
			modify:  func(c *Config) { c.SignInRatePerMin = 0 },
			wantErr: ErrSignInRatePerMin,
		},
		{
			name:    "empty log level",
			modify:  func(c *Config) { c.LogLevel = "" },
			wantErr: ErrLogLevelEmpty,
		},
		{
			name:    "empty mongo uri",
			modify:  func(c *Config) { c.MongoURI = "" },
			wantErr: ErrMongoURIEmpty,
		},
		{
			name:    "empty mongo db name",
			modify:  func(c *Config) { c.MongoDBName = "" },
			wantErr: ErrMongoDBNameEmpty,
		},
		{
			name:    "JWT secret too short",
			modify:  func(c *Config) { c.JWTSecret = "short" },
			wantErr: ErrJWTSecretTooShort,
		},
		{
			name:    "JWT expiry zero",
			modify:  func(c *Config) { c.JWTExpiryMinutes = 0 },
			wantErr: ErrJWTExpiryMinutes,
		},
		{
			name:    "ws outbox zero",
			modify:  func(c *Config) { c.WSOutboxBuffer = 0 },
			wantErr: ErrWSOutboxBuffer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseValidConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
