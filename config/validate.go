// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"slices"
)

// validation errors.
var (
	errNoRules          = errors.New("no rules defined")
	errMissingMsgID     = errors.New("missing msgid")
	errMissingMsgStr    = errors.New("missing msgstr")
	errInvalidLogLevel  = errors.New("invalid Log.Level value")
	errInvalidLogFormat = errors.New("invalid Log.Format value")
	errStdoutLogOutput  = errors.New("log output cannot be /dev/stdout, which carries catalog output")
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

// validate checks the keys that a configuration file must provide.
func (f *fileConfig) validate() error {
	if f.Rules == nil {
		return errNoRules
	}

	for i, r := range *f.Rules {
		if r.MsgID == nil {
			return fmt.Errorf("rule %d: %w", i+1, errMissingMsgID)
		}

		if r.MsgStr == nil {
			return fmt.Errorf("rule %d: %w", i+1, errMissingMsgStr)
		}
	}

	return nil
}

// validate checks the merged configuration.
func (cfg *Config) validate() error {
	if !slices.Contains(logLevels, cfg.Log.Level) {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	if !slices.Contains(logFormats, cfg.Log.Format) {
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	if slices.Contains(cfg.Log.Outputs, "/dev/stdout") {
		return errStdoutLogOutput
	}

	return nil
}
