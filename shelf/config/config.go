package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"

	"github.com/musicshelf/musicshelf/shelf"
)

// Config wraps viper and provides typed accessors.
type Config struct {
	v *viper.Viper
}

var _ shelf.Config = (*Config)(nil)

// Load reads a config file (INI or any viper-supported format) and
// prepares defaults. Environment variables prefixed with MUSICSHELF
// override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MUSICSHELF")
	v.AutomaticEnv()

	setDefaults(v)

	if strings.EqualFold(filepath.Ext(path), ".ini") {
		if err := loadINI(v, path); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// Default returns a config backed only by defaults and the environment,
// for running without a config file.
func Default() *Config {
	v := viper.New()
	v.SetEnvPrefix("MUSICSHELF")
	v.AutomaticEnv()
	setDefaults(v)
	return &Config{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("BaseDir", "Downloads/Music")
	v.SetDefault("YtdlpPath", "yt-dlp")
	v.SetDefault("AudioFormat", "mp3")
	v.SetDefault("AudioQuality", "192K")
	v.SetDefault("RateLimitCalls", 10)
	v.SetDefault("RateLimitWindowSec", 1)
	v.SetDefault("HTTPTimeoutSec", 10)
	v.SetDefault("InfoTimeoutSec", 60)
	v.SetDefault("DownloadTimeoutSec", 600)
	v.SetDefault("CoverMaxBytes", 10*1024*1024)
	v.SetDefault("CoverMaxEdge", 1280)
	v.SetDefault("CoverRetryMax", 0)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFormat", "text")
	v.SetDefault("LogSource", false)
}

// GetString returns a string value.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns an int value.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetInt64 returns an int64 value.
func (c *Config) GetInt64(key string) int64 {
	return c.v.GetInt64(key)
}

// GetBool returns a bool value.
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func loadINI(v *viper.Viper, path string) error {
	cfg, err := ini.Load(path)
	if err != nil {
		return err
	}

	for _, key := range cfg.Section("").Keys() {
		v.Set(key.Name(), key.Value())
	}

	return nil
}
