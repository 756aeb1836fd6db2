// Package config loads CareConnect settings.
//
// Values are layered: built-in defaults, then the YAML config file, then
// CARECONNECT_* environment variables (a .env file is read first if present).
// Command-line flags are applied on top by the cmd package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user config and data directories.
const AppName = "careconnect"

const envPrefix = "CARECONNECT_"

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// Output is "stdout", "stderr", "discard", or a file path.
	Output string `yaml:"output"`
}

// WizardConfig holds the simulated device delays.
type WizardConfig struct {
	DiscoveryDelay time.Duration `yaml:"discovery_delay"`
	ConnectDelay   time.Duration `yaml:"connect_delay"`
}

// AuthConfig controls sign-in sessions and throttling.
type AuthConfig struct {
	SessionTTL  time.Duration `yaml:"session_ttl"`
	SignInBurst int           `yaml:"signin_burst"`
	SignInEvery time.Duration `yaml:"signin_every"`
}

// Config is the resolved runtime configuration.
type Config struct {
	DataDir     string       `yaml:"data_dir"`
	DBPath      string       `yaml:"db_path"`
	TokenPath   string       `yaml:"token_path"`
	CatalogPath string       `yaml:"catalog_path"`
	Log         LogConfig    `yaml:"log"`
	Wizard      WizardConfig `yaml:"wizard"`
	Auth        AuthConfig   `yaml:"auth"`
}

// LoadOptions selects the files Load reads.
type LoadOptions struct {
	// ConfigPath is an explicit YAML file. When empty, CARECONNECT_CONFIG
	// and then the default location are tried; a missing default is not an error.
	ConfigPath string
	// EnvFile is a dotenv file. When empty, ".env" is read if it exists.
	EnvFile string
}

// Default returns the built-in configuration. Paths are left empty and
// derived from DataDir by Load.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Wizard: WizardConfig{
			DiscoveryDelay: 2500 * time.Millisecond,
			ConnectDelay:   2000 * time.Millisecond,
		},
		Auth: AuthConfig{
			SessionTTL:  30 * 24 * time.Hour,
			SignInBurst: 5,
			SignInEvery: 2 * time.Second,
		},
	}
}

// Load resolves the configuration from defaults, file and environment.
func Load(opts LoadOptions) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	cfg := Default()

	path, explicit := opts.ConfigPath, opts.ConfigPath != ""
	if !explicit {
		if p := os.Getenv(envPrefix + "CONFIG"); p != "" {
			path, explicit = p, true
		} else {
			p, err := DefaultConfigPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
	}
	if err := cfg.readFile(path, explicit); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.fillPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"DATA_DIR":   &c.DataDir,
		"DB":         &c.DBPath,
		"TOKEN_PATH": &c.TokenPath,
		"CATALOG":    &c.CatalogPath,
		"LOG_LEVEL":  &c.Log.Level,
		"LOG_FORMAT": &c.Log.Format,
		"LOG_OUTPUT": &c.Log.Output,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	durs := map[string]*time.Duration{
		"DISCOVERY_DELAY": &c.Wizard.DiscoveryDelay,
		"CONNECT_DELAY":   &c.Wizard.ConnectDelay,
		"SESSION_TTL":     &c.Auth.SessionTTL,
		"SIGNIN_EVERY":    &c.Auth.SignInEvery,
	}
	for key, dst := range durs {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = d
	}

	if v := os.Getenv(envPrefix + "SIGNIN_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sSIGNIN_BURST: %w", envPrefix, err)
		}
		c.Auth.SignInBurst = n
	}
	return nil
}

func (c *Config) fillPaths() error {
	if c.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return err
		}
		c.DataDir = dir
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, AppName+".db")
	}
	if c.TokenPath == "" {
		c.TokenPath = filepath.Join(c.DataDir, "session")
	}
	if c.Log.Output == "" {
		c.Log.Output = filepath.Join(c.DataDir, AppName+".log")
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Wizard.DiscoveryDelay < 0 {
		errs = append(errs, errors.New("wizard.discovery_delay must not be negative"))
	}
	if c.Wizard.ConnectDelay < 0 {
		errs = append(errs, errors.New("wizard.connect_delay must not be negative"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("auth.session_ttl must be positive"))
	}
	if c.Auth.SignInBurst < 1 {
		errs = append(errs, errors.New("auth.signin_burst must be at least 1"))
	}
	if c.Auth.SignInEvery < 0 {
		errs = append(errs, errors.New("auth.signin_every must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// DefaultDataDir returns $XDG_DATA_HOME/careconnect, falling back to
// ~/.local/share/careconnect.
func DefaultDataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName), nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/careconnect/config.yaml,
// falling back to ~/.config/careconnect/config.yaml.
func DefaultConfigPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName, "config.yaml"), nil
}
