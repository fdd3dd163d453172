package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Service struct {
	URL string `mapstructure:"url" yaml:"url"`
}

type LLM struct {
	Provider  string        `mapstructure:"provider" yaml:"provider"`
	URL       string        `mapstructure:"url" yaml:"url"`
	Model     string        `mapstructure:"model" yaml:"model"`
	APIKey    string        `mapstructure:"api_key" yaml:"api_key"`
	MaxTokens int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type Notify struct {
	URL       string `mapstructure:"url" yaml:"url"`
	Caregiver string `mapstructure:"caregiver" yaml:"caregiver"`
}

type Services struct {
	ASR    Service `mapstructure:"asr" yaml:"asr"`
	LLM    LLM     `mapstructure:"llm" yaml:"llm"`
	Notify Notify  `mapstructure:"notify" yaml:"notify"`
}

type Log struct {
	Level  string `mapstructure:"log_level" yaml:"log_level"`
	Format string `mapstructure:"log_format" yaml:"log_format"`
}

type Pipeline struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Version string `mapstructure:"version" yaml:"version"`
	Log     `mapstructure:",squash" yaml:",inline"`
}

type HTTP struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type Store struct {
	Engine      string `mapstructure:"engine" yaml:"engine"`
	Path        string `mapstructure:"path" yaml:"path"`
	DSN         string `mapstructure:"dsn" yaml:"dsn"`
	MaxConns    int32  `mapstructure:"max_conns" yaml:"max_conns"`
	AutoMigrate bool   `mapstructure:"auto_migrate" yaml:"auto_migrate"`
}

type Linguistics struct {
	EntityMode string `mapstructure:"entity_mode" yaml:"entity_mode"`
}

type Alerts struct {
	HistoryDays        int     `mapstructure:"history_days" yaml:"history_days"`
	RecentWindow       int     `mapstructure:"recent_window" yaml:"recent_window"`
	ImmediateThreshold float64 `mapstructure:"immediate_threshold" yaml:"immediate_threshold"`
	SustainedThreshold float64 `mapstructure:"sustained_threshold" yaml:"sustained_threshold"`
	SustainedDays      int     `mapstructure:"sustained_days" yaml:"sustained_days"`
	LonelyDays         int     `mapstructure:"lonely_days" yaml:"lonely_days"`
	CheckOnSubmit      bool    `mapstructure:"check_on_submit" yaml:"check_on_submit"`
	Subject            string  `mapstructure:"subject" yaml:"subject"`
}

type Root struct {
	Pipeline    Pipeline    `mapstructure:"pipeline" yaml:"pipeline"`
	Services    Services    `mapstructure:"services" yaml:"services"`
	HTTP        HTTP        `mapstructure:"http" yaml:"http"`
	Store       Store       `mapstructure:"store" yaml:"store"`
	Linguistics Linguistics `mapstructure:"linguistics" yaml:"linguistics"`
	Alerts      Alerts      `mapstructure:"alerts" yaml:"alerts"`
}

const envPrefix = "COGNORA"

func setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.name", "cognora-checkin")
	v.SetDefault("pipeline.version", "dev")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("pipeline.log_format", "text")

	v.SetDefault("services.asr.url", "")
	v.SetDefault("services.llm.provider", "anthropic")
	v.SetDefault("services.llm.url", "")
	v.SetDefault("services.llm.model", "claude-sonnet-4-5")
	v.SetDefault("services.llm.api_key", "")
	v.SetDefault("services.llm.max_tokens", 1024)
	v.SetDefault("services.llm.timeout", 30*time.Second)
	v.SetDefault("services.notify.url", "")
	v.SetDefault("services.notify.caregiver", "")

	v.SetDefault("http.timeout", 60*time.Second)

	v.SetDefault("store.engine", "sqlite")
	v.SetDefault("store.path", filepath.Join("data", "cognora.db"))
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.max_conns", 5)
	v.SetDefault("store.auto_migrate", true)

	v.SetDefault("linguistics.entity_mode", "rule")

	v.SetDefault("alerts.history_days", 7)
	v.SetDefault("alerts.recent_window", 3)
	v.SetDefault("alerts.immediate_threshold", 60.0)
	v.SetDefault("alerts.sustained_threshold", 50.0)
	v.SetDefault("alerts.sustained_days", 3)
	v.SetDefault("alerts.lonely_days", 2)
	v.SetDefault("alerts.check_on_submit", true)
	v.SetDefault("alerts.subject", "Cognora+ Wellness Alert")
}

// Load resolves the configuration file, applies COGNORA_* environment
// overrides and validates the result. An explicit path must exist; without
// one the usual locations are tried and defaults are used when none is found.
func Load(path string) (*Root, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if found := guess(); found != "" {
		v.SetConfigFile(found)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", found, err)
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func guess() string {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	for _, p := range []string{
		filepath.Join("config", env, "config.yaml"),
		"config.yaml",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks enumerated settings and window sizes.
func (c *Root) Validate() error {
	var errs []error
	switch strings.ToLower(c.Store.Engine) {
	case "sqlite", "json":
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for "+c.Store.Engine))
		}
	case "postgres":
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("store.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported store.engine %q", c.Store.Engine))
	}
	switch strings.ToLower(c.Services.LLM.Provider) {
	case "anthropic", "none":
	case "http":
		if c.Services.LLM.URL == "" {
			errs = append(errs, errors.New("services.llm.url is required for the http provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported services.llm.provider %q", c.Services.LLM.Provider))
	}
	switch strings.ToLower(c.Linguistics.EntityMode) {
	case "rule", "model":
	default:
		errs = append(errs, fmt.Errorf("unsupported linguistics.entity_mode %q", c.Linguistics.EntityMode))
	}
	a := c.Alerts
	if a.HistoryDays <= 0 || a.RecentWindow <= 0 || a.SustainedDays <= 0 || a.LonelyDays <= 0 {
		errs = append(errs, errors.New("alerts windows must be positive"))
	}
	return errors.Join(errs...)
}

// Dump renders the effective configuration as YAML with the API key masked.
func (c *Root) Dump() ([]byte, error) {
	cp := *c
	if cp.Services.LLM.APIKey != "" {
		cp.Services.LLM.APIKey = "****"
	}
	return yaml.Marshal(cp)
}
