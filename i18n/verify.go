// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"

	"github.com/leonelquinteros/gotext"
)

// ErrUnresolved is wrapped by VerifyError.
var ErrUnresolved = errors.New("translations do not resolve")

// Expectation is a translation that a catalogue must resolve to.
type Expectation struct {
	Context    string
	HasContext bool
	MsgID      string
	MsgStr     string
}

// Mismatch is an Expectation that the loaded catalogue answered differently.
type Mismatch struct {
	Context string
	MsgID   string
	Got     string
	Want    string
}

// VerifyError lists the translations of a catalogue that did not resolve.
type VerifyError struct {
	Path       string
	Mismatches []Mismatch
}

func (e *VerifyError) Error() string {
	first := e.Mismatches[0]

	return fmt.Sprintf("%s: %d %s, first msgid %q gave %q, want %q",
		e.Path, len(e.Mismatches), ErrUnresolved, first.MsgID, first.Got, first.Want)
}

func (e *VerifyError) Unwrap() error {
	return ErrUnresolved
}

// Verify loads the serialized catalogue data with gotext and checks that
// every expectation resolves to its MsgStr. Expectations with an empty
// MsgStr are skipped.
//
// The language is only used for logging.
func Verify(path, language string, data []byte, want []Expectation) error {
	logger := Logger.With().
		Str("path", path).
		Str("locale", localeString(language)).
		Logger()

	po := gotext.NewPo()
	po.Parse(data)

	var (
		checked    int
		mismatches []Mismatch
	)

	for _, e := range want {
		if e.MsgStr == "" {
			continue
		}

		var got string
		if e.HasContext {
			got = po.GetC(e.MsgID, e.Context)
		} else {
			got = po.Get(e.MsgID)
		}

		checked++

		if got == e.MsgStr {
			continue
		}

		m := Mismatch{Context: e.Context, MsgID: e.MsgID, Got: got, Want: e.MsgStr}
		logMismatch(logger, m)

		mismatches = append(mismatches, m)
	}

	if len(mismatches) > 0 {
		return &VerifyError{Path: path, Mismatches: mismatches}
	}

	logger.Debug().Int("checked", checked).Msg("Verified catalog")

	return nil
}
