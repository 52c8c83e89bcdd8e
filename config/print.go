// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Print logs the build and, at debug level, dumps the configuration as
// YAML to standard error.
func (cfg *Config) Print() {
	log.Debug().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("config", cfg.Source).
		Int("rules", len(cfg.Rules)).
		Int("files", len(cfg.Files)).
		Msg("Starting potrans")

	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}

	configYAML, err := yaml.Marshal(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Debug().
		Msg("Effective configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}
