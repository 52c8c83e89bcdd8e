// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"slices"
	"strings"
)

// Catalog is a parsed gettext PO file.
//
// Writing a Catalog reproduces its source text byte for byte, except for
// entries whose MsgStr or MsgStrPlural was changed after parsing.
type Catalog struct {
	// Entries holds every entry in file order, including the header entry
	// and obsolete ("#~") entries.
	Entries []*Entry

	// trailer holds blank and comment lines after the last entry.
	trailer []string
}

// Header returns the header entry, or nil when the catalog has none.
func (c *Catalog) Header() *Entry {
	if len(c.Entries) > 0 && c.Entries[0].header {
		return c.Entries[0]
	}

	return nil
}

// HeaderField returns the value of a header field such as "Language",
// matching the field name case-insensitively.
func (c *Catalog) HeaderField(name string) string {
	h := c.Header()
	if h == nil {
		return ""
	}

	for _, line := range strings.Split(h.MsgStr, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}

	return ""
}

// Language returns the catalog's "Language" header field.
func (c *Catalog) Language() string {
	return c.HeaderField("Language")
}

// Entry is one message of a catalog.
//
// Only MsgStr and MsgStrPlural are written back when changed; the remaining
// exported fields describe the source text and are read-only in effect.
type Entry struct {
	MsgCtxt      string
	MsgID        string
	MsgIDPlural  string
	MsgStr       string
	MsgStrPlural []string

	// Flags lists the "#," flags of the entry, such as "fuzzy" or "c-format".
	Flags []string

	// Obsolete reports whether the entry is commented out with "#~".
	Obsolete bool

	// Line is the 1-based line of the entry's first keyword.
	Line int

	header    bool
	hasCtxt   bool
	hasPlural bool
	seenID    bool
	seenStr   bool

	// raw holds the entry's source lines, line terminators included,
	// starting with any blank and comment lines preceding it.
	raw []string

	// raw[strStart:strEnd] are the msgstr lines; strStart is -1 until
	// the first msgstr keyword.
	strStart int
	strEnd   int

	origStr    string
	origPlural []string
}

// IsHeader reports whether the entry is the catalog header (msgid "").
func (e *Entry) IsHeader() bool {
	return e.header
}

// HasContext reports whether the entry carries a msgctxt keyword,
// which may be empty.
func (e *Entry) HasContext() bool {
	return e.hasCtxt
}

// IsPlural reports whether the entry has a msgid_plural.
func (e *Entry) IsPlural() bool {
	return e.hasPlural
}

// IsFuzzy reports whether the entry is flagged fuzzy.
func (e *Entry) IsFuzzy() bool {
	return slices.Contains(e.Flags, "fuzzy")
}

// Modified reports whether the translation differs from the parsed one.
func (e *Entry) Modified() bool {
	return e.MsgStr != e.origStr || !slices.Equal(e.MsgStrPlural, e.origPlural)
}
