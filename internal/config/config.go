package config

import (
	"errors"
	"sync"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	AppPort               int    `mapstructure:"APP_PORT"`
	BcryptCost            int    `mapstructure:"BCRYPT_COST"`
	SignInRatePerMin      int    `mapstructure:"SIGNIN_RATE_PER_MIN"`
	LogLevel              string `mapstructure:"LOG_LEVEL"`
	LogFormat             string `mapstructure:"LOG_FORMAT"`
	MongoURI              string `mapstructure:"MONGO_URI"`
	MongoDBName           string `mapstructure:"MONGO_DB_NAME"`
	JWTSecret             string `mapstructure:"JWT_SECRET"`
	JWTExpiryMinutes      int    `mapstructure:"JWT_EXPIRY_MINUTES"`
	AuthRequired          bool   `mapstructure:"AUTH_REQUIRED"`
	CascadeTransactions   bool   `mapstructure:"CASCADE_TRANSACTIONS"`
	RequestLoggingEnabled bool   `mapstructure:"REQUEST_LOGGING_ENABLED"`
	RouteMetricsEnabled   bool   `mapstructure:"ROUTE_METRICS_ENABLED"`
	WSOutboxBuffer        int    `mapstructure:"WS_OUTBOX_BUFFER"`
	WSMaxSessionSec       int    `mapstructure:"WS_MAX_SESSION_SEC"`
	PyroscopeAddr         string `mapstructure:"PYROSCOPE_SERVER_ADDRESS"`
}

var (
	cachedConfig *Config
	configMutex  sync.RWMutex
)

// Load loads configuration from environment variables and .env file
// It caches the result for subsequent calls
func Load() (Config, error) {
	configMutex.RLock()
	if cachedConfig != nil {
		defer configMutex.RUnlock()
		return *cachedConfig, nil
	}
	configMutex.RUnlock()

	configMutex.Lock()
	defer configMutex.Unlock()

	if cachedConfig != nil {
		return *cachedConfig, nil
	}

	v := viper.New()

	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("SIGNIN_RATE_PER_MIN", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "noteful")
	v.SetDefault("JWT_SECRET", "this-is-a-default-jwt-secret-key-with-32-plus-characters")
	v.SetDefault("JWT_EXPIRY_MINUTES", 7*24*60)
	v.SetDefault("AUTH_REQUIRED", false)
	v.SetDefault("CASCADE_TRANSACTIONS", true)
	v.SetDefault("REQUEST_LOGGING_ENABLED", true)
	v.SetDefault("ROUTE_METRICS_ENABLED", true)
	v.SetDefault("WS_OUTBOX_BUFFER", 256)
	v.SetDefault("WS_MAX_SESSION_SEC", 900)
	v.SetDefault("PYROSCOPE_SERVER_ADDRESS", "")

	// .env is optional
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	cachedConfig = &cfg

	return cfg, nil
}

// ResetCache clears the cached configuration (for testing purposes)
func ResetCache() {
	configMutex.Lock()
	defer configMutex.Unlock()
	cachedConfig = nil
}

// Validation errors returned by Config.Validate.
var (
	ErrAppPortRange      = errors.New("APP_PORT must be between 1 and 65535")
	ErrBcryptCostRange   = errors.New("BCRYPT_COST must be between 4 and 16")
	ErrSignInRatePerMin  = errors.New("SIGNIN_RATE_PER_MIN must be greater than or equal to 1")
	ErrLogLevelEmpty     = errors.New("LOG_LEVEL cannot be empty")
	ErrLogFormatEmpty    = errors.New("LOG_FORMAT cannot be empty")
	ErrMongoURIEmpty     = errors.New("MONGO_URI cannot be empty")
	ErrMongoDBNameEmpty  = errors.New("MONGO_DB_NAME cannot be empty")
	ErrJWTSecretTooShort = errors.New("JWT_SECRET must be at least 32 characters")
	ErrJWTExpiryMinutes  = errors.New("JWT_EXPIRY_MINUTES must be greater than 0")
	ErrWSOutboxBuffer    = errors.New("WS_OUTBOX_BUFFER must be greater than 0")
	ErrWSMaxSessionSec   = errors.New("WS_MAX_SESSION_SEC must be greater than 0")
)

// Validate checks if required configuration fields are properly set
func (c Config) Validate() error {
	switch {
	case c.AppPort <= 0 || c.AppPort > 65535:
		return ErrAppPortRange
	case c.BcryptCost < 4 || c.BcryptCost > 16:
		return ErrBcryptCostRange
	case c.SignInRatePerMin < 1:
		return ErrSignInRatePerMin
	case c.LogLevel == "":
		return ErrLogLevelEmpty
	case c.LogFormat == "":
		return ErrLogFormatEmpty
	case c.MongoURI == "":
		return ErrMongoURIEmpty
	case c.MongoDBName == "":
		return ErrMongoDBNameEmpty
	case len(c.JWTSecret) < 32:
		return ErrJWTSecretTooShort
	case c.JWTExpiryMinutes <= 0:
		return ErrJWTExpiryMinutes
	case c.WSOutboxBuffer <= 0:
		return ErrWSOutboxBuffer
	case c.WSMaxSessionSec <= 0:
		return ErrWSMaxSessionSec
	}
	return nil
}
