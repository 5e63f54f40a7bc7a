// Package logger builds the logrus logger shared by the CLI and the sampler.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls level and optional file output.
type Config struct {
	Level      string `yaml:"level" env:"LEVEL"`             // debug, info, warn, error
	OutputFile string `yaml:"output_file" env:"OUTPUT_FILE"` // empty means stderr only
	MaxSize    int    `yaml:"max_size" env:"MAX_SIZE"`       // MB
	MaxBackups int    `yaml:"max_backups" env:"MAX_BACKUPS"`
	MaxAge     int    `yaml:"max_age" env:"MAX_AGE"` // days
	Compress   bool   `yaml:"compress" env:"COMPRESS"`
}

// New returns a logger writing to errOut and, if configured, a rotating file.
// An unknown level falls back to info.
func New(cfg Config, errOut io.Writer) (*logrus.Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "06-01-02 15:04:05",
	})

	if errOut == nil {
		errOut = os.Stderr
	}
	writers := []io.Writer{errOut}

	if cfg.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0o755); err != nil {
			return nil, errors.Wrapf(err, "create log directory for %s", cfg.OutputFile)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.OutputFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}
	log.SetOutput(io.MultiWriter(writers...))
	return log, nil
}
