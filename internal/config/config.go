// Package config resolves sieve's settings from defaults, an optional
// sieve.yaml, SIEVE_ environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "SIEVE"

// DefaultDB is the session database used when none is configured.
const DefaultDB = ".sieve.db"

// Config holds the resolved settings.
type Config struct {
	DB      string `mapstructure:"db"`
	Format  string `mapstructure:"format"`
	Verbose bool   `mapstructure:"verbose"`
}

// Load resolves the configuration. Precedence, highest first: flags that
// were set on the command line, SIEVE_* variables, the config file, defaults.
//
// path names the config file; when empty, ./sieve.yaml is read if it exists.
// flags may be nil. Flags named db, format and verbose are bound.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetDefault("db", DefaultDB)
	v.SetDefault("format", "text")
	v.SetDefault("verbose", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sieve")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for _, name := range []string{"db", "format", "verbose"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
