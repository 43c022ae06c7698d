package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the ingestion tool's settings.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	Debug    bool   `mapstructure:"debug"`

	// CacheDir is where extraction artifacts and the persisted
	// session state live. Empty disables caching entirely.
	CacheDir string `mapstructure:"cache_dir"`
	UseCache bool   `mapstructure:"use_cache"`

	// PersistEncoding carries the last detected plain-text encoding
	// across runs so the first file of the next batch starts from a
	// good guess.
	PersistEncoding bool `mapstructure:"persist_encoding"`
}

// Load reads the configuration. When configPath is empty, a
// corpusio.yaml in the working directory or under the user config
// directory is used if present; a missing config file just yields
// defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("use_cache", true)
	v.SetDefault("persist_encoding", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("corpusio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "corpusio"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file yields defaults; anything else (a
		// named file that does not exist, a broken file) surfaces.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "corpusio")
}
