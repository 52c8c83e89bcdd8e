// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultConfigFile is read when neither -conf nor POTRANS_CONFIG is given.
	DefaultConfigFile = "potrans.toml"

	configFileEnvVar = "POTRANS_CONFIG"
)

// Options holds the values taken from the command line.
type Options struct {
	// ConfigPath is the -conf flag; empty when the flag was not given.
	ConfigPath string
	Files      []string
	InPlace    bool
	Verify     bool
	// LogLevel is the -log-level flag; empty when the flag was not given.
	LogLevel string
}

// Config is the effective configuration of a run. It is built once by Load
// and not changed afterwards.
type Config struct {
	Build buildInfo `yaml:"-"`

	// Source is the configuration file that was read.
	Source string `yaml:"source"`

	Files   []string `yaml:"files"`
	InPlace bool     `yaml:"inplace"`

	// Verify re-loads transformed catalogs with a gettext runtime before
	// they are written.
	Verify bool `yaml:"verify"`

	Rules []Rule `yaml:"rules"`

	Log struct {
		Level   string   `env:"POTRANS_LOG_LEVEL,overwrite" yaml:"level"`
		Format  string   `env:"POTRANS_LOG_FORMAT,overwrite" yaml:"format"`
		Outputs []string `env:"POTRANS_LOG_OUTPUTS,overwrite" yaml:"outputs"`
	} `yaml:"log"`

	// Extra holds top-level configuration file keys that potrans does not use.
	Extra map[string]any `yaml:"extra,omitempty"`
}

// Rule is a substitution rule as written in the configuration file.
type Rule struct {
	// MsgID is a regular expression searched for in each msgid.
	MsgID string `toml:"msgid" yaml:"msgid"`
	// MsgStr is the replacement template producing the msgstr.
	MsgStr string `toml:"msgstr" yaml:"msgstr"`
	// Languages optionally restricts the rule to catalogs whose Language
	// header matches one of these BCP 47 tags.
	Languages []string `toml:"languages,omitempty" yaml:"languages,omitempty"`
}

// Load builds the configuration from the command line options, the
// configuration file, and the environment.
//
// Keys from the configuration file are merged over the command line values,
// so a file that sets files or inplace takes precedence over the flags.
func Load(opts Options) (Config, error) {
	var cfg Config

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Files = opts.Files
	cfg.InPlace = opts.InPlace
	cfg.Verify = opts.Verify

	cfg.Source = configFilePath(opts.ConfigPath)

	file, err := readFile(cfg.Source)
	if err != nil {
		return Config{}, fmt.Errorf("error loading config file: %w", err)
	}

	if err := file.validate(); err != nil {
		return Config{}, fmt.Errorf("configuration invalid: %s: %w", cfg.Source, err)
	}

	cfg.merge(file)

	if err := readEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("error loading environment variables: %w", err)
	}

	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("configuration invalid: %w", err)
	}

	return cfg, nil
}

// configFilePath picks the configuration file with the precedence
// flag, then POTRANS_CONFIG, then DefaultConfigFile.
func configFilePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envVar := os.Getenv(configFileEnvVar); envVar != "" {
		return envVar
	}

	return DefaultConfigFile
}

// readFile reads a configuration file, choosing the format by extension.
func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- Only loading a config file
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return readYAML(path, data)
	default:
		return readTOML(path, data)
	}
}

func (cfg *Config) merge(file *fileConfig) {
	if file.Files != nil {
		cfg.Files = *file.Files
	}

	if file.InPlace != nil {
		cfg.InPlace = *file.InPlace
	}

	if file.Verify != nil {
		cfg.Verify = *file.Verify
	}

	if file.Log != nil {
		if file.Log.Level != nil {
			cfg.Log.Level = *file.Log.Level
		}

		if file.Log.Format != nil {
			cfg.Log.Format = *file.Log.Format
		}

		if file.Log.Outputs != nil {
			cfg.Log.Outputs = *file.Log.Outputs
		}
	}

	cfg.Rules = make([]Rule, 0, len(*file.Rules))
	for _, r := range *file.Rules {
		cfg.Rules = append(cfg.Rules, Rule{
			MsgID:     *r.MsgID,
			MsgStr:    *r.MsgStr,
			Languages: r.Languages,
		})
	}

	cfg.Extra = file.extra
}
