// Package config provides configuration management for frontsail projects
// using Viper for flexible configuration loading from files and environment
// variables.
//
// The configuration system reads frontsail.yml, supports environment
// variable overrides with a FRONTSAIL_ prefix, and validates identifiers
// against the project's naming patterns before anything touches the
// registry.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/frontsail/frontsail-sub000/internal/pattern"
)

type Config struct {
	Environment   string            `mapstructure:"environment"`
	Server        ServerConfig      `mapstructure:"server"`
	Build         BuildConfig       `mapstructure:"build"`
	Globals       map[string]string `mapstructure:"globals"`
	ScssVariables []VariableConfig  `mapstructure:"scss_variables"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type BuildConfig struct {
	SourceDir string `mapstructure:"source_dir"`
	OutputDir string `mapstructure:"output_dir"`
}

// VariableConfig is one SCSS variable. Declaration order in the file
// drives media-query ordering in the built stylesheet, which is why the
// variables are a list rather than a map.
type VariableConfig struct {
	Name  string `mapstructure:"name"`
	Value string `mapstructure:"value"`
}

// Load reads configuration from the given file, or from frontsail.yml in
// the working directory when path is empty. A missing default file is not
// an error; every setting then comes from defaults and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("frontsail")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FRONTSAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	// Viper lowercases map keys; global names are upper snake case, so
	// the original casing is recoverable.
	if len(config.Globals) > 0 {
		globals := make(map[string]string, len(config.Globals))
		for name, value := range config.Globals {
			globals[strings.ToUpper(name)] = value
		}
		config.Globals = globals
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("build.source_dir", "src")
	v.SetDefault("build.output_dir", "dist")
}

// Validate checks value ranges and identifier patterns.
func (c *Config) Validate() error {
	if c.Environment != "development" && c.Environment != "production" {
		return fmt.Errorf("invalid environment %q: must be development or production", c.Environment)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Build.SourceDir == "" {
		return fmt.Errorf("build.source_dir must not be empty")
	}
	if c.Build.OutputDir == "" {
		return fmt.Errorf("build.output_dir must not be empty")
	}
	for name := range c.Globals {
		if !pattern.IsGlobalName(name) {
			return fmt.Errorf("invalid global name %q", name)
		}
	}
	for _, variable := range c.ScssVariables {
		if !pattern.IsScssVariableName(variable.Name) {
			return fmt.Errorf("invalid SCSS variable name %q", variable.Name)
		}
	}
	return nil
}
