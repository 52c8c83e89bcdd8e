// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const translatedPO = `msgid ""
msgstr ""
"Language: fr\n"
"Content-Type: text/plain; charset=UTF-8\n"

msgid "hello world"
msgstr "bonjour world"

msgctxt "menu"
msgid "Open"
msgstr "Ouvrir"

msgid "Line one\n"
"line two"
msgstr "Ligne un\n"
"ligne deux"

msgid "untranslated"
msgstr ""
`

func TestVerify(t *testing.T) {
	t.Parallel()

	want := []Expectation{
		{MsgID: "hello world", MsgStr: "bonjour world"},
		{Context: "menu", HasContext: true, MsgID: "Open", MsgStr: "Ouvrir"},
		{MsgID: "Line one\nline two", MsgStr: "Ligne un\nligne deux"},
		{MsgID: "untranslated", MsgStr: ""},
	}

	require.NoError(t, Verify("fr.po", "fr", []byte(translatedPO), want))
}

func TestVerifyMismatch(t *testing.T) {
	t.Parallel()

	want := []Expectation{
		{MsgID: "hello world", MsgStr: "salut"},
		{Context: "menu", HasContext: true, MsgID: "Open", MsgStr: "Ouvrir"},
		{MsgID: "missing", MsgStr: "absent"},
	}

	err := Verify("fr.po", "fr", []byte(translatedPO), want)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolved))

	var verr *VerifyError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "fr.po", verr.Path)
	assert.Equal(t, []Mismatch{
		{MsgID: "hello world", Got: "bonjour world", Want: "salut"},
		{MsgID: "missing", Got: "missing", Want: "absent"},
	}, verr.Mismatches)
}

func TestLocaleString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"fr", "fr"},
		{"pt_BR", "pt-BR"},
		{"sr-Latn-RS", "sr-Latn-RS"},
		{"not a tag", "not a tag"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, localeString(tt.in))
	}
}

func TestBuildLogKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Open", buildLogKey("", "Open"))
	assert.Equal(t, "menu\x04Open", buildLogKey("menu", "Open"))
}
