// Package config loads the driver's YAML configuration: which memory model
// (Forge or Sweet) to analyze under, which operating mode, and a minimum
// version constraint that SatisfiesMinVersion checks a tool version against.
package config

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"

	"github.com/forge-lang/forgec/internal/semantic"
)

// Language selects which assignment/container-move memory model the
// semantic analyzer runs under.
type Language string

const (
	LanguageForge Language = "forge"
	LanguageSweet Language = "sweet"
)

// Mode names the operating mode. Loading validates it; the check driver
// does not pass it on (only Language reaches the semantic analyzer), so
// no stage in this module changes behavior by Mode.
type Mode string

const (
	ModeNormal       Mode = "normal"
	ModeFreestanding Mode = "freestanding"
	ModeSweet        Mode = "sweet"
)

// Config is the root document shape.
type Config struct {
	Language   Language `yaml:"language"`
	Mode       Mode     `yaml:"mode"`
	MinVersion string   `yaml:"minVersion"`
}

// Load reads and validates a YAML config document from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates and decodes a YAML config document already in memory.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{Language: LanguageForge, Mode: ModeNormal}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	switch cfg.Language {
	case LanguageForge, LanguageSweet:
	default:
		return nil, fmt.Errorf("unknown language %q (expected %q or %q)", cfg.Language, LanguageForge, LanguageSweet)
	}

	switch cfg.Mode {
	case ModeNormal, ModeFreestanding, ModeSweet:
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	if cfg.MinVersion != "" {
		if _, err := semver.NewVersion(cfg.MinVersion); err != nil {
			return nil, fmt.Errorf("invalid minVersion %q: %w", cfg.MinVersion, err)
		}
	}

	return cfg, nil
}

// AnalyzerLanguage converts the config's Language into the semantic
// package's Language enum.
func (c *Config) AnalyzerLanguage() semantic.Language {
	if c.Language == LanguageSweet {
		return semantic.LangSweet
	}
	return semantic.LangForge
}

// SatisfiesMinVersion reports whether toolVersion meets the config's
// minVersion gate. A config with no minVersion set always satisfies.
func (c *Config) SatisfiesMinVersion(toolVersion string) (bool, error) {
	if c.MinVersion == "" {
		return true, nil
	}
	constraint, err := semver.NewConstraint(">=" + c.MinVersion)
	if err != nil {
		return false, fmt.Errorf("invalid minVersion %q: %w", c.MinVersion, err)
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		return false, fmt.Errorf("invalid tool version %q: %w", toolVersion, err)
	}
	return constraint.Check(v), nil
}
