package config

import (
	"context"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if STROKECORE_CONFIG is set
//  3. env (prefix STROKECORE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("STROKECORE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: STROKECORE_ADDR, STROKECORE_FRAME_RATE, ...
	// Keys map to the koanf tags on the struct, underscores preserved.
	envProvider := env.Provider("STROKECORE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "strokecore_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return ErrEmptyAddr
	case c.FrameRate <= 0:
		return ErrBadFrameRate
	case c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1:
		return ErrBadThreshold
	case c.Estimator != "synthetic" && c.Estimator != "replay":
		return ErrUnknownEstimator
	case c.Estimator == "replay" && c.ReplayPath == "":
		return ErrMissingReplayPath
	}
	return nil
}
