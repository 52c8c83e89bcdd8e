// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n checks transformed catalogues against a GNU gettext runtime.

A catalogue written by potrans is loaded with gotext, the same library a Go
program would use to serve it, and every translation potrans produced is
looked up by msgid (and msgctxt, when present). A lookup that does not return
the new translation means the written text would not behave as intended, for
example because an escape was lost or an entry is shadowed by a duplicate.

	if err := i18n.Verify(path, cat.Language(), data, want); err != nil {
		// nothing has been written yet
	}

Fuzzy and obsolete entries are not checked, since gettext runtimes ignore
them. Translations that are empty are skipped too: a runtime answers those with
the msgid itself.

For plural entries only the first form is looked up; which form a count maps
to depends on the catalogue's Plural-Forms header.
*/
package i18n
