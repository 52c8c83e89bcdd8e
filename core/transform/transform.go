// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package transform applies a rule set to gettext catalogs and writes the
results.

Files are processed one at a time in the configured order. The first file
that fails stops the run; files written before it are left as written.
*/
package transform

import (
	"context"
	"fmt"
	"io"
	"runtime/trace"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/pixivfe/potrans/config"
	"codeberg.org/pixivfe/potrans/core/audit"
	"codeberg.org/pixivfe/potrans/core/catalog"
	"codeberg.org/pixivfe/potrans/core/rules"
	"codeberg.org/pixivfe/potrans/i18n"
)

// Stats counts the entries of one catalog.
type Stats struct {
	// Entries is the number of message entries, not counting the header.
	Entries int
	// Translated is the number of entries a rule matched.
	Translated int
}

// Transformer runs a rule set over the configured files.
type Transformer struct {
	cfg    config.Config
	rules  rules.Set
	out    io.Writer
	logger zerolog.Logger
}

// New returns a Transformer writing non in-place output to out.
func New(cfg config.Config, set rules.Set, out io.Writer) *Transformer {
	return &Transformer{
		cfg:    cfg,
		rules:  set,
		out:    out,
		logger: log.With().Str("sys", "transform").Logger(),
	}
}

// Run processes every configured file in order.
func (t *Transformer) Run(ctx context.Context) error {
	for _, path := range t.cfg.Files {
		if err := t.File(ctx, path); err != nil {
			return err
		}
	}

	return nil
}

// File parses, transforms, optionally verifies, and emits one catalog.
//
// On stdout a newline is appended to a catalog that does not end in one, so
// consecutive catalogs stay separate.
func (t *Transformer) File(ctx context.Context, path string) (err error) {
	span := audit.Span{Path: path, Mode: audit.Stdout}
	if t.cfg.InPlace {
		span.Mode = audit.InPlace
	}

	ctx = span.Begin(ctx)

	defer func() {
		span.End()
		span.Error = err
		span.Log(t.logger)
	}()

	region := trace.StartRegion(ctx, "parse")
	cat, err := catalog.ParseFile(path)
	region.End()

	if err != nil {
		return err
	}

	region = trace.StartRegion(ctx, "apply")
	stats := Apply(cat, t.rules)
	region.End()

	span.Entries = stats.Entries
	span.Translated = stats.Translated

	data := cat.Bytes()
	span.Size = len(data)

	if t.cfg.Verify {
		region = trace.StartRegion(ctx, "verify")
		err := i18n.Verify(path, cat.Language(), data, Expectations(cat))
		region.End()

		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
	}

	defer trace.StartRegion(ctx, "write").End()

	if t.cfg.InPlace {
		return cat.SaveFile(path)
	}

	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	if _, err := t.out.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Apply translates every entry of cat with the first matching rule of set.
// The header entry is left alone, as are entries no rule matches.
//
// Rules restricted to languages are only tried when the catalog's Language
// header names one of them.
func Apply(cat *catalog.Catalog, set rules.Set) Stats {
	var stats Stats

	lang := catalogLanguage(cat)

	for _, e := range cat.Entries {
		if e.IsHeader() {
			continue
		}

		stats.Entries++

		r, _, ok := set.Match(e.MsgID, lang)
		if !ok {
			continue
		}

		stats.Translated++

		if e.IsPlural() && len(e.MsgStrPlural) > 0 {
			forms := make([]string, len(e.MsgStrPlural))
			for i := range forms {
				if i == 0 {
					forms[i] = r.Replace(e.MsgID)
				} else {
					forms[i] = r.Replace(e.MsgIDPlural)
				}
			}

			e.MsgStrPlural = forms

			continue
		}

		e.MsgStr = r.Replace(e.MsgID)
	}

	return stats
}

// Expectations lists the translations of cat that a gettext runtime should
// serve: modified entries that are neither fuzzy nor obsolete.
func Expectations(cat *catalog.Catalog) []i18n.Expectation {
	var want []i18n.Expectation

	for _, e := range cat.Entries {
		if e.IsHeader() || e.Obsolete || e.IsFuzzy() || !e.Modified() {
			continue
		}

		msgstr := e.MsgStr
		if e.IsPlural() && len(e.MsgStrPlural) > 0 {
			msgstr = e.MsgStrPlural[0]
		}

		want = append(want, i18n.Expectation{
			Context:    e.MsgCtxt,
			HasContext: e.HasContext(),
			MsgID:      e.MsgID,
			MsgStr:     msgstr,
		})
	}

	return want
}

// catalogLanguage parses the Language header, accepting POSIX style
// "pt_BR". A missing or invalid header yields [language.Und].
func catalogLanguage(cat *catalog.Catalog) language.Tag {
	header := cat.Language()
	if header == "" {
		return language.Und
	}

	tag, err := language.Parse(strings.ReplaceAll(header, "_", "-"))
	if err != nil {
		return language.Und
	}

	return tag
}
