// Package config provides configuration management for the fraud desk service.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAlchemyBase is the Ethereum mainnet endpoint; the API key is appended to it.
const DefaultAlchemyBase = "https://eth-mainnet.g.alchemy.com/v2/"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	App      AppConfig
	Alchemy  AlchemyConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// AppConfig holds application-level settings.
// SecretKey is kept for parity with deployments that set it; no endpoint signs with it.
type AppConfig struct {
	SecretKey string
}

// AlchemyConfig holds the upstream blockchain RPC provider configuration
type AlchemyConfig struct {
	APIKey           string
	BaseURL          string
	BalanceTimeout   time.Duration
	TransfersTimeout time.Duration
	MaxTransfers     int

	// BreakerMaxFailures consecutive failures open the provider circuit; 0 disables it
	BreakerMaxFailures int
	BreakerCooldown    time.Duration
}

// RPCURL returns the JSON-RPC endpoint with the API key embedded
func (a AlchemyConfig) RPCURL() string {
	base := a.BaseURL
	if base == "" {
		base = DefaultAlchemyBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + a.APIKey
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// ConnString returns a key/value DSN understood by pgx
func (p PostgresConfig) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable pool_max_conns=%d",
		p.Host, p.Port, p.User, p.Password, p.Database, p.MaxConnections,
	)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// CacheConfig holds wallet lookup cache configuration.
// A zero WalletTTL disables the cache and Redis is never dialed.
type CacheConfig struct {
	WalletTTL time.Duration
}

// Enabled reports whether the wallet cache should be used
func (c CacheConfig) Enabled() bool {
	return c.WalletTTL > 0
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// .env is optional; environment variables can be set directly
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("BACKEND_PORT", "5000"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		App: AppConfig{
			SecretKey: getEnv("SECRET_KEY", "devsecret"),
		},
		Alchemy: AlchemyConfig{
			APIKey:           getEnv("ALCHEMY_API_KEY", ""),
			BaseURL:          getEnv("ALCHEMY_RPC_BASE", DefaultAlchemyBase),
			BalanceTimeout:   getEnvAsDuration("ALCHEMY_BALANCE_TIMEOUT", 15*time.Second),
			TransfersTimeout: getEnvAsDuration("ALCHEMY_TRANSFERS_TIMEOUT", 20*time.Second),
			MaxTransfers:     getEnvAsInt("WALLET_MAX_TRANSFERS", 50),

			BreakerMaxFailures: getEnvAsInt("ALCHEMY_BREAKER_MAX_FAILURES", 5),
			BreakerCooldown:    getEnvAsDuration("ALCHEMY_BREAKER_COOLDOWN", 30*time.Second),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "fraud_desk"),
				User:           getEnv("POSTGRES_USER", "fraud_desk"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 20),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 10),
			},
		},
		Cache: CacheConfig{
			WalletTTL: getEnvAsDuration("WALLET_CACHE_TTL", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
