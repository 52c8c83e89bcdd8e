// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package transform_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/potrans/config"
	"codeberg.org/pixivfe/potrans/core/catalog"
	"codeberg.org/pixivfe/potrans/core/rules"
	"codeberg.org/pixivfe/potrans/core/transform"
)

const frenchPO = `# French translation.
msgid ""
msgstr ""
"Language: fr\n"
"Content-Type: text/plain; charset=UTF-8\n"

#: app.go:1
msgid "hello world"
msgstr ""

msgid "goodbye"
msgstr "au revoir"

msgctxt "animal"
msgid "cat"
msgstr ""

msgid "HELLO again"
msgstr ""
`

func compile(t *testing.T, specs ...config.Rule) rules.Set {
	t.Helper()

	set, err := rules.Compile(specs)
	require.NoError(t, err)

	return set
}

func parse(t *testing.T, src string) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.Parse([]byte(src))
	require.NoError(t, err)

	return cat
}

// translations maps each non-header msgid to its msgstr.
func translations(cat *catalog.Catalog) map[string]string {
	m := make(map[string]string)

	for _, e := range cat.Entries {
		if !e.IsHeader() {
			m[e.MsgID] = e.MsgStr
		}
	}

	return m
}

func TestApply(t *testing.T) {
	t.Parallel()

	cat := parse(t, frenchPO)
	stats := transform.Apply(cat, compile(t, config.Rule{MsgID: "^hello", MsgStr: "bonjour"}))

	assert.Equal(t, transform.Stats{Entries: 4, Translated: 2}, stats)
	assert.Equal(t, map[string]string{
		"hello world": "bonjour world",
		"goodbye":     "au revoir",
		"cat":         "",
		"HELLO again": "bonjour again",
	}, translations(cat))
	assert.Equal(t, "fr", cat.Language(), "header untouched")
}

func TestApplyFirstMatchWins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rules []config.Rule
		want  string
	}{
		{
			name:  "literal first",
			rules: []config.Rule{{MsgID: "cat", MsgStr: "CAT"}, {MsgID: "c.t", MsgStr: "WILD"}},
			want:  "CAT",
		},
		{
			name:  "wildcard first",
			rules: []config.Rule{{MsgID: "c.t", MsgStr: "WILD"}, {MsgID: "cat", MsgStr: "CAT"}},
			want:  "WILD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cat := parse(t, frenchPO)
			transform.Apply(cat, compile(t, tt.rules...))

			assert.Equal(t, tt.want, translations(cat)["cat"])
		})
	}
}

func TestApplySubstitution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rule  config.Rule
		msgid string
		want  string
	}{
		{name: "global", rule: config.Rule{MsgID: "o", MsgStr: "0"}, msgid: "foo boo", want: "f00 b00"},
		{name: "case insensitive", rule: config.Rule{MsgID: "world", MsgStr: "monde"}, msgid: "Hello WORLD", want: "Hello monde"},
		{name: "capture group", rule: config.Rule{MsgID: `(\w+) world`, MsgStr: `\1 monde`}, msgid: "hello world", want: "hello monde"},
		{name: "named group", rule: config.Rule{MsgID: `(?P<w>\w+)!`, MsgStr: `¡\g<w>!`}, msgid: "hola!", want: "¡hola!"},
		{name: "newline", rule: config.Rule{MsgID: "^", MsgStr: `>\n`}, msgid: "quote", want: ">\nquote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cat := parse(t, "msgid \""+tt.msgid+"\"\nmsgstr \"\"\n")
			transform.Apply(cat, compile(t, tt.rule))

			assert.Equal(t, tt.want, cat.Entries[0].MsgStr)
		})
	}
}

func TestApplyNoMatchIsByteIdentical(t *testing.T) {
	t.Parallel()

	cat := parse(t, frenchPO)
	stats := transform.Apply(cat, compile(t, config.Rule{MsgID: "^never$", MsgStr: "x"}))

	assert.Equal(t, 0, stats.Translated)
	assert.Equal(t, frenchPO, string(cat.Bytes()))
}

func TestApplyKeepsOrder(t *testing.T) {
	t.Parallel()

	cat := parse(t, frenchPO)
	transform.Apply(cat, compile(t, config.Rule{MsgID: "e", MsgStr: "E"}))

	var ids []string
	for _, e := range cat.Entries {
		ids = append(ids, e.MsgID)
	}

	assert.Equal(t, []string{"", "hello world", "goodbye", "cat", "HELLO again"}, ids)
	assert.Equal(t, "goodbyE", translations(cat)["goodbye"])
}

func TestApplyLanguages(t *testing.T) {
	t.Parallel()

	header := func(lang string) string {
		return "msgid \"\"\nmsgstr \"Language: " + lang + "\\n\"\n\nmsgid \"hello\"\nmsgstr \"\"\n"
	}

	tests := []struct {
		name string
		lang string
		want string
	}{
		{name: "matching language", lang: "fr", want: "salut"},
		{name: "region of matching language", lang: "fr_CA", want: "salut"},
		{name: "other language", lang: "ja", want: "hi"},
		{name: "no language", lang: "", want: "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cat := parse(t, header(tt.lang))
			transform.Apply(cat, compile(t,
				config.Rule{MsgID: "hello", MsgStr: "salut", Languages: []string{"fr"}},
				config.Rule{MsgID: "hello", MsgStr: "hi"},
			))

			assert.Equal(t, tt.want, translations(cat)["hello"])
		})
	}
}

func TestApplyPlural(t *testing.T) {
	t.Parallel()

	cat := parse(t, `msgid "one file"
msgid_plural "%d files"
msgstr[0] ""
msgstr[1] ""
msgstr[2] ""
`)
	transform.Apply(cat, compile(t, config.Rule{MsgID: "file", MsgStr: "fichier"}))

	assert.Equal(t, []string{"one fichier", "%d fichiers", "%d fichiers"}, cat.Entries[0].MsgStrPlural)
	assert.Equal(t, `msgid "one file"
msgid_plural "%d files"
msgstr[0] "one fichier"
msgstr[1] "%d fichiers"
msgstr[2] "%d fichiers"
`, string(cat.Bytes()))
}

func TestExpectations(t *testing.T) {
	t.Parallel()

	cat := parse(t, `msgid "a"
msgstr ""

#, fuzzy
msgid "b"
msgstr ""

#~ msgid "c"
#~ msgstr ""

msgctxt "ctx"
msgid "d"
msgstr ""

msgid "untouched"
msgstr "kept"
`)
	transform.Apply(cat, compile(t, config.Rule{MsgID: "^[abcd]$", MsgStr: "X"}))

	want := transform.Expectations(cat)
	require.Len(t, want, 2)
	assert.Equal(t, "a", want[0].MsgID)
	assert.Equal(t, "X", want[0].MsgStr)
	assert.Equal(t, "d", want[1].MsgID)
	assert.True(t, want[1].HasContext)
	assert.Equal(t, "ctx", want[1].Context)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestRunStdout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeFile(t, dir, "fr.po", frenchPO)
	second := writeFile(t, dir, "de.po", "msgid \"hello\"\nmsgstr \"\"")

	var out bytes.Buffer

	cfg := config.Config{Files: []string{first, second}, Verify: true}
	tr := transform.New(cfg, compile(t, config.Rule{MsgID: "^hello", MsgStr: "bonjour"}), &out)
	require.NoError(t, tr.Run(context.Background()))

	want := parse(t, frenchPO)
	transform.Apply(want, compile(t, config.Rule{MsgID: "^hello", MsgStr: "bonjour"}))

	assert.Equal(t, string(want.Bytes())+"msgid \"hello\"\nmsgstr \"bonjour\"\n", out.String())

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, frenchPO, string(data), "input untouched without inplace")
}

func TestRunStdoutSeparatesCatalogs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeFile(t, dir, "a.po", "msgid \"a\"\nmsgstr \"\"")
	second := writeFile(t, dir, "b.po", "msgid \"ab\"\nmsgstr \"\"\n")

	var out bytes.Buffer

	cfg := config.Config{Files: []string{first, second}}
	tr := transform.New(cfg, compile(t, config.Rule{MsgID: "^a$", MsgStr: "A"}), &out)
	require.NoError(t, tr.Run(context.Background()))

	assert.Equal(t, "msgid \"a\"\nmsgstr \"A\"\nmsgid \"ab\"\nmsgstr \"\"\n", out.String())
}

func TestRunInPlaceKeepsMissingFinalNewline(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "a.po", "msgid \"a\"\nmsgstr \"\"")

	tr := transform.New(config.Config{Files: []string{path}, InPlace: true}, compile(t, config.Rule{MsgID: "a", MsgStr: "A"}), &bytes.Buffer{})
	require.NoError(t, tr.Run(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "msgid \"a\"\nmsgstr \"A\"", string(data))
}

func TestRunInPlaceIsFixedPoint(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "fr.po", frenchPO)
	set := compile(t, config.Rule{MsgID: "^hello", MsgStr: "bonjour"})

	var out bytes.Buffer

	tr := transform.New(config.Config{Files: []string{path}, InPlace: true, Verify: true}, set, &out)
	require.NoError(t, tr.Run(context.Background()))

	once, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(once), "msgstr \"bonjour world\"")
	assert.Empty(t, out.String())

	require.NoError(t, tr.Run(context.Background()))

	twice, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.po", frenchPO)
	bad := writeFile(t, dir, "bad.po", "msgid \"unterminated\n")

	var out bytes.Buffer

	cfg := config.Config{Files: []string{good, bad, good}}
	err := transform.New(cfg, compile(t, config.Rule{MsgID: "x", MsgStr: "y"}), &out).Run(context.Background())
	require.Error(t, err)

	var perr *catalog.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, bad, perr.Path)
	assert.Equal(t, frenchPO, out.String(), "only the first file was written")
}

func TestRunMissingFile(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Files: []string{filepath.Join(t.TempDir(), "missing.po")}}
	err := transform.New(cfg, nil, &bytes.Buffer{}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
