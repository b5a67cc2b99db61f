package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            int           `yaml:"port" env:"PORT"`
		ReadTimeout     time.Duration `yaml:"readTimeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"writeTimeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
		CORSOrigins     []string      `yaml:"corsOrigins" env:"CORS_ORIGINS" envSeparator:","`
		// Token bucket for the LLM tool routes, per merchant.
		RateLimitBurst  int `yaml:"rateLimitBurst" env:"RATE_LIMIT_BURST"`
		RateLimitPerSec int `yaml:"rateLimitPerSec" env:"RATE_LIMIT_PER_SEC"`
	} `yaml:"server"`

	Database struct {
		Driver     string `yaml:"driver" env:"DB_DRIVER"`
		Host       string `yaml:"host" env:"DB_HOST"`
		Port       int    `yaml:"port" env:"DB_PORT"`
		User       string `yaml:"user" env:"DB_USER"`
		Password   string `yaml:"password" env:"DB_PASSWORD"`
		Name       string `yaml:"name" env:"DB_NAME"`
		SSLMode    string `yaml:"sslMode" env:"DB_SSLMODE"`
		SQLitePath string `yaml:"sqlitePath" env:"SQLITE_PATH"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string        `yaml:"endpoint" env:"MINIO_ENDPOINT"`
		AccessKey  string        `yaml:"accessKey" env:"MINIO_ACCESS_KEY"`
		SecretKey  string        `yaml:"secretKey" env:"MINIO_SECRET_KEY"`
		BucketName string        `yaml:"bucketName" env:"MINIO_BUCKET"`
		Region     string        `yaml:"region" env:"MINIO_REGION"`
		UseSSL     bool          `yaml:"useSSL" env:"MINIO_USE_SSL"`
		PresignTTL time.Duration `yaml:"presignTTL" env:"MINIO_PRESIGN_TTL"`
	} `yaml:"minio"`

	AI struct {
		Provider string `yaml:"provider" env:"AI_PROVIDER"`
		APIKey   string `yaml:"apiKey" env:"AI_API_KEY"`
		Model    string `yaml:"model" env:"AI_MODEL"`
	} `yaml:"ai"`

	Functions struct {
		BaseURL string        `yaml:"baseURL" env:"FUNCTIONS_BASE_URL"`
		APIKey  string        `yaml:"apiKey" env:"FUNCTIONS_API_KEY"`
		Timeout time.Duration `yaml:"timeout" env:"FUNCTIONS_TIMEOUT"`
	} `yaml:"functions"`

	Auth struct {
		// APIKeys maps merchant email -> API key.
		APIKeys map[string]string `yaml:"apiKeys" env:"AUTH_API_KEYS" envSeparator:"," envKeyValSeparator:"="`
		// DefaultMerchant is used when no API keys are configured (local dev).
		DefaultMerchant string `yaml:"defaultMerchant" env:"AUTH_DEFAULT_MERCHANT"`
	} `yaml:"auth"`

	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"log"`
}

// Default returns a config that runs locally on SQLite without object storage.
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 120 * time.Second
	c.Server.ShutdownTimeout = 30 * time.Second
	c.Server.RateLimitBurst = 10
	c.Server.RateLimitPerSec = 1
	c.Database.Driver = "sqlite"
	c.Database.SQLitePath = "automaton-shop.db"
	c.Database.SSLMode = "disable"
	c.AI.Provider = "openai"
	c.Functions.Timeout = 90 * time.Second
	c.Auth.DefaultMerchant = "merchant@example.com"
	c.Log.Level = "info"
	c.Log.Format = "json"
	return &c
}

// Load baca file config (kalau ada) lalu override dari environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q: want mysql, postgres or sqlite", c.Database.Driver))
	}
	switch c.AI.Provider {
	case "openai", "gemini":
	default:
		errs = append(errs, fmt.Errorf("ai.provider %q: want openai or gemini", c.AI.Provider))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if len(c.Auth.APIKeys) == 0 && c.Auth.DefaultMerchant == "" {
		errs = append(errs, errors.New("auth: configure apiKeys or defaultMerchant"))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want json or console", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// MinioEnabled reports whether object storage is configured.
func (c *Config) MinioEnabled() bool { return c.Minio.Endpoint != "" }
