// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

func readTOML(path string, data []byte) (*fileConfig, error) {
	var file fileConfig
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("failed to parse TOML from %s: %w", path, err)
	}

	var all map[string]any
	if _, err := toml.Decode(string(data), &all); err != nil {
		return nil, fmt.Errorf("failed to parse TOML from %s: %w", path, err)
	}

	file.setExtra(all)

	log.Debug().
		Str("path", path).
		Msg("Successfully loaded configuration")

	return &file, nil
}
