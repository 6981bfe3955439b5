package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client configuration
type Config struct {
	App     AppConfig
	API     APIConfig
	OAuth   OAuthConfig
	Storage StorageConfig
	Log     LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// APIConfig holds the backend gateway settings
type APIConfig struct {
	// BaseURL is the backend root, e.g. "https://api.example.com/api/v1".
	BaseURL string
	// RequestTimeout is the absolute per-call deadline. Applies uniformly to
	// every gateway call.
	RequestTimeout time.Duration
	// RateLimitRPS throttles outgoing calls client-side. Zero disables the
	// limiter.
	RateLimitRPS float64
}

// OAuthConfig holds identity-provider settings
type OAuthConfig struct {
	ClientID    string
	RedirectURL string
}

// StorageConfig holds the persisted client-state store settings
type StorageConfig struct {
	// Backend selects the store: "redis" (shared across instances) or
	// "memory" (single process, used by tests).
	Backend  string
	Host     string
	Port     int
	Password string
	DB       int
	// Namespace prefixes every persisted key (token, user, cart).
	Namespace string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SHOP_ prefix (e.g. SHOP_API_BASE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.shopsphere")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		API: APIConfig{
			BaseURL:        v.GetString("api.base_url"),
			RequestTimeout: v.GetDuration("api.request_timeout"),
			RateLimitRPS:   v.GetFloat64("api.rate_limit_rps"),
		},
		OAuth: OAuthConfig{
			ClientID:    v.GetString("oauth.client_id"),
			RedirectURL: v.GetString("oauth.redirect_url"),
		},
		Storage: StorageConfig{
			Backend:   v.GetString("storage.backend"),
			Host:      v.GetString("storage.host"),
			Port:      v.GetInt("storage.port"),
			Password:  v.GetString("storage.password"),
			DB:        v.GetInt("storage.db"),
			Namespace: v.GetString("storage.namespace"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shopsphere-client"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8080/api/v1"
	}
	if cfg.API.RequestTimeout == 0 {
		cfg.API.RequestTimeout = 15 * time.Second
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "redis"
	}
	if cfg.Storage.Host == "" {
		cfg.Storage.Host = "localhost"
	}
	if cfg.Storage.Port == 0 {
		cfg.Storage.Port = 6379
	}
	if cfg.Storage.Namespace == "" {
		cfg.Storage.Namespace = "shopsphere"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("api.request_timeout must be positive")
	}
	switch c.Storage.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("storage.backend must be \"redis\" or \"memory\", got %q", c.Storage.Backend)
	}
	if c.App.Env == "production" {
		if !strings.HasPrefix(c.API.BaseURL, "https://") {
			return fmt.Errorf("api.base_url must use https in production")
		}
		if c.OAuth.ClientID == "" {
			return fmt.Errorf("oauth.client_id is required in production")
		}
	}
	return nil
}

// Addr returns the host:port address of the storage backend
func (s *StorageConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
