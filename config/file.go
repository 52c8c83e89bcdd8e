// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

// fileConfig is the layout of a configuration file. Pointer fields tell
// absent keys apart from zero values.
type fileConfig struct {
	Files   *[]string    `toml:"files" yaml:"files"`
	InPlace *bool        `toml:"inplace" yaml:"inplace"`
	Verify  *bool        `toml:"verify" yaml:"verify"`
	Rules   *[]fileRule  `toml:"rules" yaml:"rules"`
	Log     *fileLogging `toml:"log" yaml:"log"`

	// extra holds the remaining top-level keys.
	extra map[string]any
}

type fileRule struct {
	MsgID     *string  `toml:"msgid" yaml:"msgid"`
	MsgStr    *string  `toml:"msgstr" yaml:"msgstr"`
	Languages []string `toml:"languages" yaml:"languages"`
}

type fileLogging struct {
	Level   *string   `toml:"level" yaml:"level"`
	Format  *string   `toml:"format" yaml:"format"`
	Outputs *[]string `toml:"outputs" yaml:"outputs"`
}

// knownKeys are the top-level keys decoded into fileConfig.
var knownKeys = []string{"files", "inplace", "verify", "rules", "log"}

// setExtra keeps the top-level keys of all that fileConfig does not model.
func (f *fileConfig) setExtra(all map[string]any) {
	for _, k := range knownKeys {
		delete(all, k)
	}

	if len(all) > 0 {
		f.extra = all
	}
}
