// Package config loads holidayquest settings from defaults, an optional YAML
// file, a .env file and HOLIDAYQUEST_* environment variables, in increasing
// order of precedence. Command-line flags bound by the cmd package win over
// all of them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/frostline/holidayquest/internal/auth"
	"github.com/frostline/holidayquest/internal/blob"
	"github.com/frostline/holidayquest/internal/games/coding"
	"github.com/frostline/holidayquest/internal/llm"
	"github.com/frostline/holidayquest/internal/notify"
	"github.com/frostline/holidayquest/internal/scheduler"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "HOLIDAYQUEST"

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Auth      AuthConfig       `mapstructure:"auth"`
	Storage   blob.Config      `mapstructure:"storage"`
	Gallery   GalleryConfig    `mapstructure:"gallery"`
	Coding    CodingConfig     `mapstructure:"coding"`
	Telegram  notify.Config    `mapstructure:"telegram"`
	Scheduler scheduler.Config `mapstructure:"scheduler"`
	LLM       llm.Config       `mapstructure:"llm"`
	Verbose   bool             `mapstructure:"verbose"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Bind            string        `mapstructure:"bind"`
	Port            int           `mapstructure:"port"`
	Prefix          string        `mapstructure:"prefix"`
	TLSCert         string        `mapstructure:"tls_cert"`
	TLSKey          string        `mapstructure:"tls_key"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr is the host:port to listen on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Bind, strconv.Itoa(s.Port))
}

// Scheme is "https" when TLS is configured.
func (s ServerConfig) Scheme() string {
	if s.TLSCert != "" && s.TLSKey != "" {
		return "https"
	}
	return "http"
}

// DatabaseConfig selects the progress store.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	// DSN is a file path for sqlite or a connection URL for postgres. An
	// empty sqlite DSN uses the per-user data directory.
	DSN string `mapstructure:"dsn"`
}

// AuthConfig configures password hashing and the session cookie.
type AuthConfig struct {
	BcryptCost int                `mapstructure:"bcrypt_cost"`
	Session    auth.SessionConfig `mapstructure:"session"`
}

// GalleryConfig limits photo uploads.
type GalleryConfig struct {
	MaxPhotoBytes int64 `mapstructure:"max_photo_bytes"`
}

// CodingConfig selects where coding submissions run.
type CodingConfig struct {
	Runner       string        `mapstructure:"runner"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxCallStack int           `mapstructure:"max_call_stack"`
	JudgeURL     string        `mapstructure:"judge_url"`
	MemoryLimit  uint64        `mapstructure:"memory_limit"`
	Concurrency  int           `mapstructure:"concurrency"`
}

// RunnerConfig converts to the coding package's configuration.
func (c CodingConfig) RunnerConfig() coding.RunnerConfig {
	return coding.RunnerConfig{
		Kind:         c.Runner,
		Timeout:      c.Timeout,
		MaxCallStack: c.MaxCallStack,
		JudgeURL:     c.JudgeURL,
		MemoryLimit:  c.MemoryLimit,
		Concurrency:  c.Concurrency,
	}
}

// SetDefaults registers a default for every key. Viper only maps
// environment variables onto keys it knows about, so every key needs one.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.bind", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.prefix", "")
	v.SetDefault("server.tls_cert", "")
	v.SetDefault("server.tls_key", "")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")

	v.SetDefault("auth.bcrypt_cost", 0)
	v.SetDefault("auth.session.name", "holidayquest_session")
	v.SetDefault("auth.session.secret", "")
	v.SetDefault("auth.session.max_age", 7*24*3600)
	v.SetDefault("auth.session.secure", false)

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.public_url", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "holidayquest-gallery")
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("gallery.max_photo_bytes", 5<<20)

	v.SetDefault("coding.runner", "sandbox")
	v.SetDefault("coding.timeout", 2*time.Second)
	v.SetDefault("coding.max_call_stack", 2048)
	v.SetDefault("coding.judge_url", "")
	v.SetDefault("coding.memory_limit", 128<<20)
	v.SetDefault("coding.concurrency", 2)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)

	v.SetDefault("scheduler.resync_interval", scheduler.DefaultResyncInterval)
	v.SetDefault("scheduler.digest_at", scheduler.DefaultDigestAt)
	v.SetDefault("scheduler.timezone", "UTC")

	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)

	v.SetDefault("verbose", false)
}

// New returns a viper instance with defaults and environment binding. When
// file is non-empty it is read as YAML.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	return v, nil
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.Server.Prefix = strings.TrimSuffix(c.Server.Prefix, "/")
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate returns the first configuration problem found.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port (must be between 1-65535 inclusive): %d", c.Server.Port)
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.New("server.tls_cert and server.tls_key must be provided together")
	}
	if c.Server.Prefix != "" && !strings.HasPrefix(c.Server.Prefix, "/") {
		return fmt.Errorf("server.prefix must start with /: %q", c.Server.Prefix)
	}
	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database.driver %q (want sqlite or postgres)", c.Database.Driver)
	}
	if c.Auth.BcryptCost != 0 && (c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31) {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31: %d", c.Auth.BcryptCost)
	}
	if c.Gallery.MaxPhotoBytes <= 0 {
		return fmt.Errorf("gallery.max_photo_bytes must be positive: %d", c.Gallery.MaxPhotoBytes)
	}
	switch c.Coding.Runner {
	case "sandbox":
	case "judge":
		if c.Coding.JudgeURL == "" {
			return errors.New("coding.judge_url is required for the judge runner")
		}
	default:
		return fmt.Errorf("unknown coding.runner %q (want sandbox or judge)", c.Coding.Runner)
	}
	if c.Scheduler.ResyncInterval < time.Second {
		return fmt.Errorf("scheduler.resync_interval must be at least 1s: %s", c.Scheduler.ResyncInterval)
	}
	if (c.Telegram.Token == "") != (c.Telegram.ChatID == 0) {
		return errors.New("telegram.token and telegram.chat_id must be provided together")
	}
	return c.LLM.Validate()
}
