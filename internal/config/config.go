package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the credential vault server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Vault    VaultConfig
	Test     TestConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// VaultConfig configures field-level encryption. The secret is server-side
// only and must never reach a client-exposed configuration surface.
type VaultConfig struct {
	EncryptionSecret string
}

// TestConfig tunes outbound connection tests.
type TestConfig struct {
	Timeout        time.Duration
	MaxRetries     int
	GraphBaseURL   string
	TelegramAPIURL string
	ResultCacheTTL time.Duration
}

// Load reads configuration from environment variables and returns a validated
// Config. Returns an error with a descriptive message if any required value is
// missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("VAULT_PORT", 8080),
			Env:  envString("VAULT_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Vault: VaultConfig{
			EncryptionSecret: os.Getenv("VAULT_ENCRYPTION_SECRET"),
		},
		Test: TestConfig{
			Timeout:        envDuration("CONNECTION_TEST_TIMEOUT", 10*time.Second),
			MaxRetries:     envInt("CONNECTION_TEST_MAX_RETRIES", 2),
			GraphBaseURL:   envString("META_GRAPH_BASE_URL", "https://graph.facebook.com/v18.0"),
			TelegramAPIURL: envString("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),
			ResultCacheTTL: envDuration("TEST_RESULT_CACHE_TTL", 5*time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in production mode. Production
// refuses the insecure development encryption key.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.IsProduction() && len(c.Vault.EncryptionSecret) < 32 {
		return fmt.Errorf("VAULT_ENCRYPTION_SECRET must be at least 32 characters in production")
	}

	for name, u := range map[string]string{
		"META_GRAPH_BASE_URL":   c.Test.GraphBaseURL,
		"TELEGRAM_API_BASE_URL": c.Test.TelegramAPIURL,
	} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s must start with http:// or https://, got %q", name, u)
		}
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
