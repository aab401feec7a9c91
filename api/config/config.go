package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "WARBLER_"

type Config struct {
	Env       string          `koanf:"env" validate:"required,oneof=development test production"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	Redis     RedisConfig     `koanf:"redis"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Storage   StorageConfig   `koanf:"storage"`
	Mail      MailConfig      `koanf:"mail"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Port               string        `koanf:"port" validate:"required"`
	ReadTimeout        time.Duration `koanf:"read_timeout"`
	WriteTimeout       time.Duration `koanf:"write_timeout"`
	IdleTimeout        time.Duration `koanf:"idle_timeout"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	LogQueries      bool          `koanf:"log_queries"`
}

type AuthConfig struct {
	Secret       string        `koanf:"secret" validate:"required"`
	TokenTTL     time.Duration `koanf:"token_ttl"`
	CookieDomain string        `koanf:"cookie_domain"`
	SecureCookie bool          `koanf:"secure_cookie"`
}

// RedisConfig is optional; leaving URL and Addr empty disables caching.
type RedisConfig struct {
	URL         string        `koanf:"url"`
	Addr        string        `koanf:"addr"`
	Username    string        `koanf:"username"`
	Password    string        `koanf:"password"`
	TimelineTTL time.Duration `koanf:"timeline_ttl"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	AuthInterval      time.Duration `koanf:"auth_interval"`
	AuthBurst         int           `koanf:"auth_burst"`
}

// StorageConfig configures profile image uploads. An empty bucket disables them.
type StorageConfig struct {
	Bucket        string `koanf:"bucket"`
	Region        string `koanf:"region"`
	Prefix        string `koanf:"prefix"`
	PublicBaseURL string `koanf:"public_base_url"`
	MaxImageBytes int64  `koanf:"max_image_bytes"`
}

type MailConfig struct {
	SendGridAPIKey string        `koanf:"sendgrid_api_key"`
	FromAddress    string        `koanf:"from_address"`
	FromName       string        `koanf:"from_name"`
	ProductLink    string        `koanf:"product_link"`
	ResetURL       string        `koanf:"reset_url"`
	ResetTokenTTL  time.Duration `koanf:"reset_token_ttl"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads WARBLER_* variables (after .env) into a validated Config.
func Load() (*Config, error) {
	k := koanf.New(".")

	// WARBLER_SERVER__PORT -> server.port
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "development"
	}
	if c.Server.Port == "" {
		c.Server.Port = "5000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	// comma separated in the environment
	var origins []string
	for _, o := range c.Server.CORSAllowedOrigins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	c.Server.CORSAllowedOrigins = origins
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"http://localhost:3000"}
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}

	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}

	if c.Redis.TimelineTTL == 0 {
		c.Redis.TimelineTTL = 30 * time.Second
	}

	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 100
	}
	if c.RateLimit.AuthInterval == 0 {
		c.RateLimit.AuthInterval = 10 * time.Second
	}
	if c.RateLimit.AuthBurst == 0 {
		c.RateLimit.AuthBurst = 5
	}

	if c.Storage.Region == "" {
		c.Storage.Region = "us-east-1"
	}
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = "images"
	}
	if c.Storage.MaxImageBytes == 0 {
		c.Storage.MaxImageBytes = 500 * 1024
	}

	if c.Mail.FromAddress == "" {
		c.Mail.FromAddress = "no-reply@warbler.local"
	}
	if c.Mail.FromName == "" {
		c.Mail.FromName = "Warbler"
	}
	if c.Mail.ProductLink == "" {
		c.Mail.ProductLink = "http://localhost:" + c.Server.Port
	}
	if c.Mail.ResetURL == "" {
		c.Mail.ResetURL = c.Mail.ProductLink + "/password/reset"
	}
	if c.Mail.ResetTokenTTL == 0 {
		c.Mail.ResetTokenTTL = time.Hour
	}

	if c.Log.Level == "" {
		if c.IsProduction() {
			c.Log.Level = "info"
		} else {
			c.Log.Level = "debug"
		}
	}
}
