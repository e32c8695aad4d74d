// Package config loads lifdb settings from an optional lifdb.yaml file,
// a local .env file and LIFDB_* environment variables, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all lifdb configuration.
type Config struct {
	// Database is the path to the SQLite dataset file.
	Database string `yaml:"database"`

	// User is the default data point author.
	User string `yaml:"user"`

	// Dataset points at the ML dataset membership lists.
	Dataset DatasetConfig `yaml:"dataset"`

	// Logging controls log verbosity.
	Logging LoggingConfig `yaml:"logging"`
}

// DatasetConfig locates the full and training dataset lists used to tag
// rows with used_in.
type DatasetConfig struct {
	Full     string `yaml:"full"`
	Training string `yaml:"training"`
}

// LoggingConfig controls logging.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// DefaultConfigFile is looked up in the working directory when no explicit
// config path is given.
const DefaultConfigFile = "lifdb.yaml"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: "data/LiF.db",
		User:     os.Getenv("USER"),
	}
}

// Load reads the configuration. A missing default file is not an error;
// the defaults plus environment apply. An explicit path that does not
// exist is an error.
func Load(path string) (*Config, error) {
	// .env first so LIFDB_* variables set there are visible below.
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// fine, defaults apply
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LIFDB_DB"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("LIFDB_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("LIFDB_DATASET"); v != "" {
		c.Dataset.Full = v
	}
	if v := os.Getenv("LIFDB_TRAINING_SET"); v != "" {
		c.Dataset.Training = v
	}
	if v := os.Getenv("LIFDB_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.Debug = b
		}
	}
}
