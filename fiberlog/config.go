package fiberlog

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config is config for middleware
type Config struct {
	Logger *logrus.Logger
	Tags   []string
	// SkipPaths суффиксы путей служебных эндпоинтов, которые не логируются
	SkipPaths []string
	// RedactFields значения этих полей json в телах заменяются на ***
	RedactFields []string
	MaxBodySize  int
}

// ConfigDefault is the default config
var ConfigDefault = Config{
	Logger: nil,
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		TagIP,
	},
	SkipPaths:    []string{"/health", "/metrics"},
	RedactFields: []string{"password", "token", "refresh_token"},
	MaxBodySize:  4 * 1024,
}

func configDefault(config ...Config) Config {
	if len(config) == 0 {
		return ConfigDefault
	}
	cfg := config[0]
	if len(cfg.Tags) == 0 {
		cfg.Tags = ConfigDefault.Tags
	}
	if cfg.SkipPaths == nil {
		cfg.SkipPaths = ConfigDefault.SkipPaths
	}
	if cfg.RedactFields == nil {
		cfg.RedactFields = ConfigDefault.RedactFields
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = ConfigDefault.MaxBodySize
	}
	return cfg
}

func (cfg Config) isSkipped(path string) bool {
	for _, suffix := range cfg.SkipPaths {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// redactRegexp nil, если скрывать нечего
func (cfg Config) redactRegexp() *regexp.Regexp {
	if len(cfg.RedactFields) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(cfg.RedactFields))
	for _, field := range cfg.RedactFields {
		quoted = append(quoted, regexp.QuoteMeta(field))
	}
	return regexp.MustCompile(`("(?:` + strings.Join(quoted, "|") + `)"\s*:\s*)"(?:[^"\\]|\\.)*"`)
}
