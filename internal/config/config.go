// Package config resolves the jotter CLI configuration.
//
// Values are layered, later layers winning: built-in defaults, an optional
// YAML file, an optional .env file and finally JOTTER_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/jotter/pkg/credentials"
)

// Adapter names.
const (
	AdapterJSON   = "json"
	AdapterSQLite = "sqlite"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "JOTTER_"

// DefaultDotEnv is the .env file looked up in the working directory.
const DefaultDotEnv = ".env"

// Config is the resolved configuration.
type Config struct {
	DataDir       string `yaml:"data_dir"`
	Adapter       string `yaml:"adapter"`
	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	KDFIterations int    `yaml:"kdf_iterations"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		DataDir:  defaultDataDir(),
		Adapter:  AdapterJSON,
		LogLevel: "warn",
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "jotter")
	}
	return ".jotter"
}

// Load resolves the configuration from file (skipped when empty), the .env
// file of the working directory and the process environment.
func Load(file string) (Config, error) {
	return LoadFrom(file, DefaultDotEnv, os.LookupEnv)
}

// LoadFrom is Load with explicit sources. A missing dotenv file is ignored;
// a missing YAML file is an error, since it was asked for by name.
func LoadFrom(file, dotenv string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", file, err)
		}
	}

	dotenvValues := map[string]string{}
	if dotenv != "" {
		values, err := godotenv.Read(dotenv)
		switch {
		case err == nil:
			dotenvValues = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read %s: %w", dotenv, err)
		}
	}

	// Real environment variables win over .env entries, as with godotenv.Load.
	get := func(name string) (string, bool) {
		key := EnvPrefix + name
		if lookup != nil {
			if v, ok := lookup(key); ok {
				return v, true
			}
		}
		v, ok := dotenvValues[key]
		return v, ok
	}

	if v, ok := get("DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := get("ADAPTER"); ok {
		cfg.Adapter = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := get("LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := get("KDF_ITERATIONS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("%sKDF_ITERATIONS: %w", EnvPrefix, err)
		}
		cfg.KDFIterations = n
	}

	cfg.Adapter = strings.ToLower(strings.TrimSpace(cfg.Adapter))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be fixed up silently.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("config: data_dir is empty")
	}
	switch c.Adapter {
	case AdapterJSON, AdapterSQLite:
	default:
		return fmt.Errorf("config: unknown adapter %q (want %s or %s)", c.Adapter, AdapterJSON, AdapterSQLite)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.KDFIterations != 0 && c.KDFIterations < credentials.MinIterations {
		return fmt.Errorf("config: kdf_iterations must be at least %d", credentials.MinIterations)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return lvl, nil
}
