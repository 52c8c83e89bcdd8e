// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const byteOrderMark = "\ufeff"

// ParseError describes a malformed catalog line.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}

	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// field identifies the keyword that continuation strings extend.
type field int

const (
	fieldNone field = iota
	fieldMsgCtxt
	fieldMsgID
	fieldMsgIDPlural
	fieldMsgStr
	fieldMsgStrN
)

type parser struct {
	path string
	cat  *Catalog

	// pending holds blank and comment lines not yet claimed by an entry.
	pending []string

	cur    *Entry
	field  field
	plural int
	line   int
}

// ParseFile reads and parses the PO file at path.
func ParseFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is an operator-supplied catalog
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	return parse(path, data)
}

// Parse parses PO file contents.
func Parse(data []byte) (*Catalog, error) {
	return parse("", data)
}

func parse(path string, data []byte) (*Catalog, error) {
	p := &parser{path: path, cat: &Catalog{}}

	for i, line := range splitLines(string(data)) {
		p.line = i + 1

		text := strings.TrimRight(line, "\r\n")
		if i == 0 {
			text = strings.TrimPrefix(text, byteOrderMark)
		}

		if err := p.handle(line, strings.TrimSpace(text)); err != nil {
			return nil, err
		}
	}

	if err := p.finish(); err != nil {
		return nil, err
	}

	return p.cat, nil
}

// splitLines splits s after each newline, keeping the terminators.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Path: p.path, Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) handle(line, text string) error {
	switch {
	case text == "":
		if p.cur != nil && p.cur.seenStr {
			p.flush()
		}

		p.keep(line)

		return nil
	case strings.HasPrefix(text, "#~"):
		rest := strings.TrimLeft(strings.TrimPrefix(text, "#~"), " \t")
		if rest == "" || strings.HasPrefix(rest, "|") {
			return p.comment(line)
		}

		return p.keyword(line, rest, true)
	case strings.HasPrefix(text, "#"):
		return p.comment(line)
	default:
		return p.keyword(line, text, false)
	}
}

// keep attaches line to the entry being parsed, or to the pending lines
// that will open the next entry.
func (p *parser) keep(line string) {
	if p.cur != nil {
		p.cur.raw = append(p.cur.raw, line)
	} else {
		p.pending = append(p.pending, line)
	}
}

func (p *parser) comment(line string) error {
	if p.cur != nil && p.cur.seenStr {
		p.flush()
	}

	p.keep(line)

	return nil
}

func (p *parser) keyword(line, text string, obsolete bool) error {
	if strings.HasPrefix(text, `"`) {
		return p.continuation(line, text)
	}

	kw, rest := splitKeyword(text)
	if !isKeyword(kw) {
		return p.errorf("unknown keyword %q", kw)
	}

	value, err := unquote(rest)
	if err != nil {
		return p.errorf("%s: %v", kw, err)
	}

	switch {
	case kw == "msgctxt":
		if p.cur != nil && p.cur.seenStr {
			p.flush()
		}

		if p.cur != nil && (p.cur.seenID || p.cur.hasCtxt) {
			return p.errorf("msgctxt out of order")
		}

		p.begin(obsolete)
		p.cur.hasCtxt = true
		p.cur.MsgCtxt = value
		p.field = fieldMsgCtxt
	case kw == "msgid":
		if p.cur != nil && p.cur.seenStr {
			p.flush()
		}

		if p.cur != nil && p.cur.seenID {
			return p.errorf("msgid without preceding msgstr")
		}

		if p.cur == nil {
			p.begin(obsolete)
		}

		p.cur.seenID = true
		p.cur.MsgID = value
		p.field = fieldMsgID
	case kw == "msgid_plural":
		if p.cur == nil || !p.cur.seenID || p.cur.seenStr || p.cur.hasPlural {
			return p.errorf("msgid_plural out of order")
		}

		p.cur.hasPlural = true
		p.cur.MsgIDPlural = value
		p.field = fieldMsgIDPlural
	case kw == "msgstr":
		if p.cur == nil || !p.cur.seenID || p.cur.seenStr {
			return p.errorf("msgstr out of order")
		}

		p.startStr()
		p.cur.MsgStr = value
		p.field = fieldMsgStr
	case strings.HasPrefix(kw, "msgstr[") && strings.HasSuffix(kw, "]"):
		n, err := strconv.Atoi(kw[len("msgstr[") : len(kw)-1])
		if err != nil || n < 0 {
			return p.errorf("invalid plural index in %s", kw)
		}

		if p.cur == nil || !p.cur.seenID || (p.cur.seenStr && p.field == fieldMsgStr) {
			return p.errorf("%s out of order", kw)
		}

		p.startStr()

		for len(p.cur.MsgStrPlural) <= n {
			p.cur.MsgStrPlural = append(p.cur.MsgStrPlural, "")
		}

		p.cur.MsgStrPlural[n] = value
		p.plural = n
		p.field = fieldMsgStrN
	default:
		return p.errorf("unknown keyword %q", kw)
	}

	p.cur.raw = append(p.cur.raw, line)

	if p.field == fieldMsgStr || p.field == fieldMsgStrN {
		p.cur.strEnd = len(p.cur.raw)
	}

	return nil
}

func (p *parser) continuation(line, text string) error {
	if p.cur == nil || p.field == fieldNone {
		return p.errorf("string without a keyword")
	}

	value, err := unquote(text)
	if err != nil {
		return p.errorf("%v", err)
	}

	switch p.field {
	case fieldMsgCtxt:
		p.cur.MsgCtxt += value
	case fieldMsgID:
		p.cur.MsgID += value
	case fieldMsgIDPlural:
		p.cur.MsgIDPlural += value
	case fieldMsgStr:
		p.cur.MsgStr += value
	case fieldMsgStrN:
		p.cur.MsgStrPlural[p.plural] += value
	case fieldNone:
	}

	p.cur.raw = append(p.cur.raw, line)

	if p.field == fieldMsgStr || p.field == fieldMsgStrN {
		p.cur.strEnd = len(p.cur.raw)
	}

	return nil
}

// begin opens a new entry that claims the pending lines.
func (p *parser) begin(obsolete bool) {
	p.cur = &Entry{
		Obsolete: obsolete,
		Line:     p.line,
		Flags:    parseFlags(p.pending),
		raw:      p.pending,
		strStart: -1,
	}
	p.pending = nil
}

func (p *parser) startStr() {
	if p.cur.strStart < 0 {
		p.cur.strStart = len(p.cur.raw)
	}

	p.cur.seenStr = true
}

func (p *parser) flush() {
	e := p.cur

	e.header = len(p.cat.Entries) == 0 && e.MsgID == "" && !e.hasCtxt && !e.Obsolete
	e.origStr = e.MsgStr
	e.origPlural = append([]string(nil), e.MsgStrPlural...)

	p.cat.Entries = append(p.cat.Entries, e)
	p.cur = nil
	p.field = fieldNone
}

func (p *parser) finish() error {
	if p.cur != nil {
		if !p.cur.seenStr {
			p.line = p.cur.Line

			return p.errorf("entry has no msgstr")
		}

		p.flush()
	}

	p.cat.trailer = p.pending

	return nil
}

func isKeyword(kw string) bool {
	switch kw {
	case "msgctxt", "msgid", "msgid_plural", "msgstr":
		return true
	}

	return strings.HasPrefix(kw, "msgstr[") && strings.HasSuffix(kw, "]")
}

// splitKeyword splits a keyword line into the keyword and the remainder.
func splitKeyword(text string) (string, string) {
	i := strings.IndexAny(text, " \t\"")
	if i < 0 {
		return text, ""
	}

	return text[:i], text[i:]
}

// parseFlags collects the flags of "#," comment lines.
func parseFlags(lines []string) []string {
	var flags []string

	for _, line := range lines {
		text := strings.TrimSpace(line)
		if !strings.HasPrefix(text, "#,") {
			continue
		}

		for _, flag := range strings.Split(text[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				flags = append(flags, flag)
			}
		}
	}

	return flags
}
