package core

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gookit/config/v2"
	"github.com/gookit/config/v2/yaml"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultAddr          = ":8000"
	DefaultDatabaseURL   = "sqlite:///./todos.db"
	DefaultExpireMinutes = 30
)

type Token struct {
	SecretKey     string `config:"secret_key"`
	ExpireMinutes int    `config:"expire_minutes"`
}

type Broker struct {
	URL   string `config:"url"`
	Topic string `config:"topic"`
	Name  string `config:"name"`
}

type Log struct {
	Level  string `config:"level"`
	Format string `config:"format"`
}

type Config struct {
	Addr            string   `config:"addr"`
	DatabaseURL     string   `config:"database_url"`
	BcryptCost      int      `config:"bcrypt_cost"`
	ShutdownSeconds int      `config:"shutdown_seconds"`
	AllowedOrigins  []string `config:"allowed_origins"`
	Token           Token    `config:"token"`
	Broker          Broker   `config:"broker"`
	Log             Log      `config:"log"`
}

// envKeys maps OS environment variables onto config keys. They win over files.
var envKeys = map[string]string{
	"TODOS_ADDR":                 "addr",
	"DATABASE_URL":               "database_url",
	"TODOS_SECRET_KEY":           "token.secret_key",
	"TODOS_TOKEN_EXPIRE_MINUTES": "token.expire_minutes",
	"TODOS_BROKER_URL":           "broker.url",
	"TODOS_LOG_LEVEL":            "log.level",
}

// NewConfig loads path (optional), its .local variant when present, then the
// environment. An empty path reads the environment only.
func NewConfig(path string) (*Config, error) {
	var appConfig Config

	c := config.NewWithOptions("todos", func(opt *config.Options) {
		opt.ParseEnv = true
		opt.DecoderConfig.TagName = "config"
	})

	c.AddDriver(yaml.Driver)

	if path != "" {
		if err := c.LoadFiles(path); err != nil {
			return nil, err
		}

		if err := c.LoadExists(localPath(path)); err != nil {
			return nil, err
		}
	}

	c.LoadOSEnvs(envKeys)

	if err := c.BindStruct("", &appConfig); err != nil {
		return nil, err
	}

	appConfig.setDefaults()

	return &appConfig, nil
}

func localPath(path string) string {
	ext := filepath.Ext(path)

	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}

	if c.DatabaseURL == "" {
		c.DatabaseURL = DefaultDatabaseURL
	}

	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}

	if c.ShutdownSeconds == 0 {
		c.ShutdownSeconds = 10
	}

	if c.Token.ExpireMinutes == 0 {
		c.Token.ExpireMinutes = DefaultExpireMinutes
	}

	if c.Broker.Topic == "" {
		c.Broker.Topic = "todos"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Token.SecretKey == "" {
		return fmt.Errorf("%w: token.secret_key is required", ErrInvalid)
	}

	if c.Token.ExpireMinutes <= 0 {
		return fmt.Errorf("%w: token.expire_minutes must be positive", ErrInvalid)
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: bcrypt_cost must be between %d and %d", ErrInvalid, bcrypt.MinCost, bcrypt.MaxCost)
	}

	if !strings.HasPrefix(c.DatabaseURL, "sqlite://") &&
		!strings.HasPrefix(c.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("%w: unsupported database_url %q", ErrInvalid, c.DatabaseURL)
	}

	return nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Token.ExpireMinutes) * time.Minute
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownSeconds) * time.Second
}
