// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.InPlace = false
	cfg.Verify = false

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}

// Example returns a configuration with defaults and a few sample rules,
// used to generate documentation and example files.
func Example() Config {
	var cfg Config

	cfg.SetDefaults()

	cfg.Rules = []Rule{
		// Copy placeholders-only messages verbatim.
		{MsgID: `^(%[sd]|\{\{\.\w+\}\})$`, MsgStr: `\1`},
		// Keep the product name untranslated.
		{MsgID: `^potrans$`, MsgStr: `potrans`},
		{MsgID: `^(\d+) items?$`, MsgStr: `\1 件`, Languages: []string{"ja"}},
		{MsgID: `^Settings$`, MsgStr: `Configurações`, Languages: []string{"pt"}},
	}

	return cfg
}
