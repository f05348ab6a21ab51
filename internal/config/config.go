// Package config reads settings for the iso8601 command from the environment
// and .env files.
package config

import (
	"os"
	"strings"

	"github.com/imarsman/iso8601"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Environment variables read by Load
const (
	EnvDefaultOffset = "ISO8601_DEFAULT_OFFSET"
	EnvLogLevel      = "ISO8601_LOG_LEVEL"
	EnvLogFormat     = "ISO8601_LOG_FORMAT"
)

// Log formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config settings for the command
type Config struct {
	DefaultOffset iso8601.FixedOffset // offset for input without a zone designator
	LogLevel      logrus.Level
	LogFormat     string // FormatText or FormatJSON
}

// Default settings used when nothing is set
func Default() Config {
	return Config{
		DefaultOffset: iso8601.UTC,
		LogLevel:      logrus.InfoLevel,
		LogFormat:     FormatText,
	}
}

// Load read .env files into the environment and then build a Config from it.
// Files that do not exist are skipped. Variables already set in the
// environment are not overridden by files. With no files .env is tried.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if os.IsNotExist(errors.Cause(err)) {
				continue
			}
			return Config{}, errors.Wrapf(err, "config: loading %s", f)
		}
	}

	return FromLookup(os.LookupEnv)
}

// FromLookup build a Config from a lookup function such as os.LookupEnv.
// Unset or empty variables keep their defaults.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvDefaultOffset); ok {
		o, err := iso8601.ParseOffset(v)
		if err != nil {
			return Config{}, errors.Wrap(err, EnvDefaultOffset)
		}
		cfg.DefaultOffset = o
	}

	if v, ok := get(EnvLogLevel); ok {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return Config{}, errors.Wrap(err, EnvLogLevel)
		}
		cfg.LogLevel = level
	}

	if v, ok := get(EnvLogFormat); ok {
		format, err := ParseFormat(v)
		if err != nil {
			return Config{}, errors.Wrap(err, EnvLogFormat)
		}
		cfg.LogFormat = format
	}

	return cfg, nil
}

// ParseFormat check a log format name
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", errors.Errorf("unknown log format %q", s)
}

// Logger get a logger writing with the configured level and format
func (c Config) Logger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(c.LogLevel)
	if c.LogFormat == FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}
	return log
}
