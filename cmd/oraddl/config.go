package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/idempotent"
	"github.com/hlop3z/oraddl/internal/journal"
	"github.com/hlop3z/oraddl/internal/plan"
)

// Config represents the oraddl.yaml configuration file.
type Config struct {
	DatabaseURL     string        `yaml:"database_url" env:"ORADDL_DATABASE_URL"`
	PlansDir        string        `yaml:"plans_dir" env:"ORADDL_PLANS_DIR"`
	Output          string        `yaml:"output" env:"ORADDL_OUTPUT"`
	Strict          bool          `yaml:"strict" env:"ORADDL_STRICT"`
	SkipUnsupported bool          `yaml:"skip_unsupported" env:"ORADDL_SKIP_UNSUPPORTED"`
	JSTimeout       time.Duration `yaml:"js_timeout" env:"ORADDL_JS_TIMEOUT"`
	JournalDir      string        `yaml:"journal_dir" env:"ORADDL_JOURNAL_DIR"`
}

// fallbackEnv holds variables consulted before the ORADDL_ ones.
type fallbackEnv struct {
	DatabaseURL string `env:"DATABASE_URL"`
}

func defaultConfig() *Config {
	return &Config{
		PlansDir:   DefaultPlansDir,
		Output:     DefaultOutput,
		JSTimeout:  plan.DefaultJSTimeout,
		JournalDir: journal.DefaultDir,
	}
}

// loadConfig loads configuration from file, env vars, and CLI flags.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig(flags *pflag.FlagSet) (*Config, error) {
	cfg := defaultConfig()

	if err := readConfigFile(cfg, configFile, flags.Changed("config")); err != nil {
		return nil, err
	}

	var fallback fallbackEnv
	if err := env.Parse(&fallback); err != nil {
		return nil, alerr.Wrap(alerr.ErrConfig, err, "invalid environment")
	}
	if fallback.DatabaseURL != "" {
		cfg.DatabaseURL = fallback.DatabaseURL
	}
	if err := env.Parse(cfg); err != nil {
		return nil, alerr.Wrap(alerr.ErrConfig, err, "invalid environment").
			WithHelp("boolean variables take true/false, durations take values like 5s")
	}

	if err := applyFlags(cfg, flags); err != nil {
		return nil, err
	}

	if cfg.JSTimeout <= 0 {
		return nil, alerr.New(alerr.ErrConfig, "js_timeout must be positive").
			With("js_timeout", cfg.JSTimeout.String())
	}
	return cfg, nil
}

// readConfigFile decodes path into cfg. A missing file is an error only
// when the path was given explicitly.
func readConfigFile(cfg *Config, path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return alerr.Wrap(alerr.ErrConfig, err, "cannot read config file").
			WithFile(path, 0)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return alerr.Wrap(alerr.ErrConfig, err, "failed to parse config file").
			WithFile(path, 0)
	}
	cfg.DatabaseURL = expandEnvVars(cfg.DatabaseURL)
	return nil
}

// applyFlags copies the flags the user set onto cfg.
func applyFlags(cfg *Config, flags *pflag.FlagSet) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Lookup(name) != nil && flags.Changed(name) {
			err = apply()
		}
	}

	set("database-url", func() (e error) { cfg.DatabaseURL, e = flags.GetString("database-url"); return })
	set("plans-dir", func() (e error) { cfg.PlansDir, e = flags.GetString("plans-dir"); return })
	set("output", func() (e error) { cfg.Output, e = flags.GetString("output"); return })
	set("strict", func() (e error) { cfg.Strict, e = flags.GetBool("strict"); return })
	set("skip-unsupported", func() (e error) { cfg.SkipUnsupported, e = flags.GetBool("skip-unsupported"); return })
	set("js-timeout", func() (e error) { cfg.JSTimeout, e = flags.GetDuration("js-timeout"); return })
	set("journal-dir", func() (e error) { cfg.JournalDir, e = flags.GetString("journal-dir"); return })

	if err != nil {
		return alerr.Wrap(alerr.ErrConfig, err, "invalid flag value")
	}
	return nil
}

// expandEnvVars expands ${VAR} patterns in a string.
func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}

// generatorOptions maps the config onto generation policy.
func (c *Config) generatorOptions() idempotent.Options {
	return idempotent.Options{Strict: c.Strict, SkipUnsupported: c.SkipUnsupported}
}

// planOptions maps the config onto plan loading.
func (c *Config) planOptions() plan.Options {
	return plan.Options{JSTimeout: c.JSTimeout}
}
