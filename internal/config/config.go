package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           int      `mapstructure:"port"`
	Env            string   `mapstructure:"env"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads config from an optional yaml file plus STREAMALLOC_* env vars.
// Env vars win. With no file, defaults cover local use.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("port", 3009)
	v.SetDefault("env", "dev")
	v.SetDefault("allowed_origins", []string{"*"})

	v.SetEnvPrefix("STREAMALLOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}
