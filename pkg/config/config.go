// Package config loads ecsfs settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "ECSFS"
	appName      = "ecsfs"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

type Config struct {
	Image     string `envconfig:"IMAGE"      yaml:"image"`
	LogLevel  string `envconfig:"LOG_LEVEL"  yaml:"logLevel"`
	LogFormat string `envconfig:"LOG_FORMAT" yaml:"logFormat"`
	Color     bool   `envconfig:"COLOR"      yaml:"color"`
}

func Default() Config {
	return Config{LogLevel: "warn", LogFormat: LogFormatText, Color: true}
}

// File returns the path of the config file: `ECSFS_CONFIG_FILE` if set,
// otherwise `~/.config/ecsfs.yaml`.
func File() string {
	if configFile := os.Getenv(envVarPrefix + "_CONFIG_FILE"); configFile != "" {
		return configFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName+".yaml")
}

// LoadConfig starts from the defaults, applies the config file if there is
// one, and then the environment.
func LoadConfig() (*Config, error) {
	c := Default()
	if configFile := File(); configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if y, e := func() (string, string) {
		if c.LogLevel == "" {
			return "logLevel", "LOG_LEVEL"
		}
		if c.LogFormat == "" {
			return "logFormat", "LOG_FORMAT"
		}
		return "", ""
	}(); y != "" {
		return fmt.Errorf(
			"missing required configuration: %s / %s_%s",
			y,
			envVarPrefix,
			e,
		)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf(
			"invalid configuration: logLevel / %s_LOG_LEVEL: %w",
			envVarPrefix,
			err,
		)
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fmt.Errorf(
			"invalid configuration: logFormat / %s_LOG_FORMAT: `%s` is "+
				"neither `%s` nor `%s`",
			envVarPrefix,
			c.LogFormat,
			LogFormatText,
			LogFormatJSON,
		)
	}
	return nil
}
