// Package logger builds the logrus logger the CLI hands to the filesystem.
package logger

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/weberc2/ecsfs/pkg/config"
)

// New returns a logger writing to `w` at the configured level and format.
func New(w io.Writer, c *config.Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	switch c.LogFormat {
	case config.LogFormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	case config.LogFormatText, "":
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: !c.Color,
			FullTimestamp: true,
		})
	default:
		return nil, fmt.Errorf(
			"building logger: unknown log format `%s`",
			c.LogFormat,
		)
	}
	return logger, nil
}
