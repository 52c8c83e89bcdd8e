// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package rules compiles configured substitution rules and applies them to
message identifiers.

A rule matches when its pattern is found anywhere in a msgid, compared
case-insensitively. The translation is then the msgid with every
non-overlapping match replaced by the rule's template. Rules are tried in
order and the first match wins.
*/
package rules

import (
	"fmt"
	"regexp"

	"golang.org/x/text/language"

	"codeberg.org/pixivfe/potrans/config"
)

// CompileError reports a rule that could not be compiled.
type CompileError struct {
	// Index is the 0-based position of the rule in the configuration.
	Index   int
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("rule %d (msgid %q): %v", e.Index+1, e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Rule is a compiled substitution rule.
type Rule struct {
	Pattern *regexp.Regexp

	// Template is the replacement in [regexp.Regexp.Expand] syntax.
	Template string

	// Languages restricts the rule to catalogs in these languages.
	// An empty list means every catalog.
	Languages []language.Tag
}

// Set is an ordered list of rules.
type Set []Rule

// Compile compiles the configured rules, preserving their order.
func Compile(specs []config.Rule) (Set, error) {
	set := make(Set, 0, len(specs))

	for i, spec := range specs {
		re, err := regexp.Compile("(?i)" + spec.MsgID)
		if err != nil {
			return nil, &CompileError{Index: i, Pattern: spec.MsgID, Err: err}
		}

		tags := make([]language.Tag, 0, len(spec.Languages))

		for _, l := range spec.Languages {
			tag, err := language.Parse(l)
			if err != nil {
				return nil, &CompileError{Index: i, Pattern: spec.MsgID, Err: fmt.Errorf("invalid language %q: %w", l, err)}
			}

			tags = append(tags, tag)
		}

		set = append(set, Rule{
			Pattern:   re,
			Template:  ConvertTemplate(spec.MsgStr),
			Languages: tags,
		})
	}

	return set, nil
}

// AppliesTo reports whether the rule may be used for a catalog in lang.
//
// A rule for "pt" applies to "pt-BR"; a catalog without a known language
// only receives unrestricted rules.
func (r Rule) AppliesTo(lang language.Tag) bool {
	if len(r.Languages) == 0 {
		return true
	}

	for t := lang; t != language.Und; t = t.Parent() {
		for _, want := range r.Languages {
			if t == want {
				return true
			}
		}
	}

	return false
}

// Replace returns s with every match of the rule replaced by its template.
// A string without matches is returned unchanged.
func (r Rule) Replace(s string) string {
	return r.Pattern.ReplaceAllString(s, r.Template)
}

// Match returns the first rule applicable to lang whose pattern matches
// msgid, along with its index.
func (s Set) Match(msgid string, lang language.Tag) (Rule, int, bool) {
	for i, r := range s {
		if r.AppliesTo(lang) && r.Pattern.MatchString(msgid) {
			return r, i, true
		}
	}

	return Rule{}, -1, false
}
