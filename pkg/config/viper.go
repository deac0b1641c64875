package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Option adjusts a viper instance before the config file is read.
type Option func(*viper.Viper) error

// WithDefaults registers default values keyed by dotted config key.
func WithDefaults(defaults map[string]interface{}) Option {
	return func(v *viper.Viper) error {
		for key, val := range defaults {
			v.SetDefault(key, val)
		}
		return nil
	}
}

// WithEnv binds dotted config keys to explicit environment variable names,
// on top of the automatic KEY_NAME mapping.
func WithEnv(bindings map[string]string) Option {
	return func(v *viper.Viper) error {
		keys := make([]string, 0, len(bindings))
		for key := range bindings {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if err := v.BindEnv(key, bindings[key]); err != nil {
				return fmt.Errorf("bind %s to %s: %w", key, bindings[key], err)
			}
		}
		return nil
	}
}

// Load reads <configPath>/<configName>.yaml plus environment variables.
// A missing config file is not an error; defaults and env vars apply.
func Load(configPath, configName string, opts ...Option) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// server.port -> SERVER_PORT
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// Duration reads key as a duration string, falling back to defaultVal
// when the value is missing or unparsable.
func Duration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return defaultVal
	}
	return d
}
