// Package config binds command line flags, CROSSING_ environment variables
// and an optional YAML file into a single Config.
package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CROSSING_RUNS
const EnvPrefix = "CROSSING"

// Config holds the command line settings. Flags are generated from the tags.
type Config struct {
	Runs        int    `mapstructure:"runs" default:"100" description:"number of independent runs to average"`
	Seed        int64  `mapstructure:"seed" default:"0" description:"base seed for the run seeds; 0 seeds from the wall clock"`
	Workers     int    `mapstructure:"workers" default:"1" description:"number of runs executed in parallel"`
	Horizon     int    `mapstructure:"horizon" default:"501" description:"number of ticks in the loading phase"`
	DrainPolicy string `mapstructure:"drain-policy" default:"reference" description:"phase switch rule while draining, values: reference, exclusive"`

	Format string `mapstructure:"format" default:"text" description:"output format, values: text, json, yaml, csv"`
	PerRun bool   `mapstructure:"per-run" default:"false" description:"include every run in json, yaml and csv output"`

	LogLevel string `mapstructure:"log-level" default:"warn" description:"the log level, values: trace, debug, info, warn, error"`

	ConfigFile string `mapstructure:"config" default:"" description:"optional YAML file with the same keys as the flags"`
}

// RegisterFlags defines one flag per Config field on flags
func RegisterFlags(flags *pflag.FlagSet) {
	_type := reflect.TypeOf(Config{})
	for i := 0; i < _type.NumField(); i++ {
		field := _type.Field(i)
		name := field.Tag.Get("mapstructure")
		description := field.Tag.Get("description")
		defaultTag := field.Tag.Get("default")

		switch field.Type.Kind() {
		case reflect.String:
			flags.String(name, defaultTag, description)
		case reflect.Int:
			val, _ := strconv.Atoi(defaultTag)
			flags.Int(name, val, description)
		case reflect.Int64:
			val, _ := strconv.ParseInt(defaultTag, 10, 64)
			flags.Int64(name, val, description)
		case reflect.Bool:
			val, _ := strconv.ParseBool(defaultTag)
			flags.Bool(name, val, description)
		}
	}
}

// Load resolves the configuration. Precedence is flag, environment, file, default.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
