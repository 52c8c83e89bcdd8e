// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// Logger is the logger used by package i18n.
var Logger = log.With().Str("sys", "i18n").Logger()

// Setup derives Logger from the current global logger. Call it again after
// the global logger is replaced.
func Setup() {
	Logger = log.With().Str("sys", "i18n").Logger()
}

// localeString normalises a Language header value such as "pt_BR" to a
// stable key using base, script and region only. Unparsable values are
// returned as given.
func localeString(header string) string {
	tag, err := language.Parse(strings.ReplaceAll(header, "_", "-"))
	if err != nil {
		return header
	}

	b, s, r := tag.Raw()
	stripped, _ := language.Compose(b, s, r)

	return stripped.String()
}

// buildLogKey composes the logging key like gettext "ctx<sep>msgid" when context is present.
func buildLogKey(ctxKey, id string) string {
	if ctxKey != "" {
		return ctxKey + gotext.EotSeparator + id
	}

	return id
}

// logMismatch logs one translation that did not resolve.
func logMismatch(logger zerolog.Logger, m Mismatch) {
	logger.Warn().
		Str("key", buildLogKey(m.Context, m.MsgID)).
		Str("got", m.Got).
		Str("want", m.Want).
		Msg("Translation does not resolve")
}
