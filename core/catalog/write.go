// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/natefinch/atomic"
)

// Bytes serializes the catalog.
func (c *Catalog) Bytes() []byte {
	var b bytes.Buffer

	for _, e := range c.Entries {
		e.writeTo(&b)
	}

	for _, line := range c.trailer {
		b.WriteString(line)
	}

	return b.Bytes()
}

// SaveFile atomically replaces the file at path with the serialized catalog.
// An existing file keeps its permissions.
func (c *Catalog) SaveFile(path string) error {
	if err := atomic.WriteFile(path, bytes.NewReader(c.Bytes())); err != nil {
		return fmt.Errorf("failed to save catalog %s: %w", path, err)
	}

	return nil
}

func (e *Entry) writeTo(b *bytes.Buffer) {
	if e.strStart < 0 || !e.Modified() {
		for _, line := range e.raw {
			b.WriteString(line)
		}

		return
	}

	for _, line := range e.raw[:e.strStart] {
		b.WriteString(line)
	}

	eol := "\n"
	if strings.HasSuffix(e.raw[e.strStart], "\r\n") {
		eol = "\r\n"
	}

	// The msgstr may be the last line of a file without a final newline.
	unterminated := e.strEnd == len(e.raw) && !strings.HasSuffix(e.raw[len(e.raw)-1], "\n")

	lines := e.renderStr()
	for i, line := range lines {
		b.WriteString(line)

		if i < len(lines)-1 || !unterminated {
			b.WriteString(eol)
		}
	}

	for _, line := range e.raw[e.strEnd:] {
		b.WriteString(line)
	}
}

// renderStr formats the msgstr keywords of the entry without terminators.
func (e *Entry) renderStr() []string {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	if len(e.MsgStrPlural) == 0 {
		return renderField(prefix, "msgstr", e.MsgStr)
	}

	var lines []string
	for i, s := range e.MsgStrPlural {
		lines = append(lines, renderField(prefix, fmt.Sprintf("msgstr[%d]", i), s)...)
	}

	return lines
}

// renderField formats a keyword and its value. Values spanning several
// lines start with an empty string and continue with one string per line.
func renderField(prefix, keyword, value string) []string {
	parts := splitLines(value)
	if len(parts) <= 1 {
		return []string{prefix + keyword + " " + quote(value)}
	}

	lines := make([]string, 0, len(parts)+1)
	lines = append(lines, prefix+keyword+` ""`)

	for _, part := range parts {
		lines = append(lines, prefix+quote(part))
	}

	return lines
}
