// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"strings"
)

var (
	errNotQuoted          = errors.New("expected a quoted string")
	errUnterminatedString = errors.New("unterminated string")
	errTrailingData       = errors.New("unexpected data after closing quote")
)

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// quote renders s as a PO string literal.
func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

// unquote decodes a PO string literal. Surrounding whitespace is ignored.
//
// Unknown escape sequences are kept verbatim, backslash included.
func unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, `"`) {
		return "", errNotQuoted
	}

	var b strings.Builder

	b.Grow(len(s))

	for i := 1; i < len(s); i++ {
		c := s[i]

		switch c {
		case '"':
			if strings.TrimSpace(s[i+1:]) != "" {
				return "", errTrailingData
			}

			return b.String(), nil
		case '\\':
			if i+1 >= len(s) {
				return "", errUnterminatedString
			}

			i += decodeEscape(&b, s[i+1:])
		default:
			b.WriteByte(c)
		}
	}

	return "", errUnterminatedString
}

// decodeEscape writes the character named by the escape sequence at the
// start of s (the text following a backslash) and returns how many bytes
// of s it consumed.
func decodeEscape(b *strings.Builder, s string) int {
	switch s[0] {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '\\', '"', '\'', '?':
		b.WriteByte(s[0])
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n, v := 0, 0
		for n < 3 && n < len(s) && s[n] >= '0' && s[n] <= '7' {
			v = v*8 + int(s[n]-'0')
			n++
		}

		b.WriteByte(byte(v))

		return n
	case 'x':
		n, v := 1, 0
		for n < len(s) && isHex(s[n]) {
			v = v*16 + hexValue(s[n])
			n++
		}

		if n == 1 {
			b.WriteString(`\x`)

			return 1
		}

		b.WriteByte(byte(v))

		return n
	default:
		b.WriteByte('\\')
		b.WriteByte(s[0])
	}

	return 1
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) int {
	switch {
	case c >= 'a':
		return int(c-'a') + 10
	case c >= 'A':
		return int(c-'A') + 10
	default:
		return int(c - '0')
	}
}
