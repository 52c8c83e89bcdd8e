// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package rules

import "strings"

// ConvertTemplate rewrites a replacement written with backslash group
// references, as used by sed and by existing potrans configurations, into
// [regexp.Regexp.Expand] syntax.
//
// Recognised sequences:
//
//	\1 .. \99      numbered group
//	\g<1>          numbered group
//	\g<name>       named group
//	\\             literal backslash
//	\n \t \r       newline, tab, carriage return
//
// A dollar sign is literal text and other text is passed through.
func ConvertTemplate(s string) string {
	if !strings.ContainsAny(s, `\$`) {
		return s
	}

	var b strings.Builder

	b.Grow(len(s) + 8)

	for i := 0; i < len(s); i++ {
		if s[i] == '$' {
			b.WriteString("$$")

			continue
		}

		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])

			continue
		}

		next := s[i+1]

		switch {
		case next >= '1' && next <= '9':
			j := i + 2
			if j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}

			b.WriteString("${" + s[i+1:j] + "}")

			i = j - 1
		case next == 'g' && i+2 < len(s) && s[i+2] == '<':
			end := strings.IndexByte(s[i+3:], '>')
			if end <= 0 {
				b.WriteByte(s[i])

				continue
			}

			b.WriteString("${" + s[i+3:i+3+end] + "}")

			i += 3 + end
		case next == '\\':
			b.WriteByte('\\')

			i++
		case next == 'n':
			b.WriteByte('\n')

			i++
		case next == 't':
			b.WriteByte('\t')

			i++
		case next == 'r':
			b.WriteByte('\r')

			i++
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}
