// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"fmt"
	"runtime/trace"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Span represents one catalog being transformed.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration

	Path       string
	Mode       Mode
	Entries    int
	Translated int
	Size       int
	Error      error
}

// Mode describes where a transformed catalog is written.
type Mode string

// Constants for output modes.
const (
	InPlace Mode = "inplace"
	Stdout  Mode = "stdout"
)

func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "potrans."+string(span.Mode))
	trace.Log(ctx, "path", span.Path)

	return ctx
}

func (span *Span) End() {
	// only log once
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		span.task = nil
	}
}

// Log writes the span to the given logger, at error level when the span
// failed.
func (span Span) Log(logger zerolog.Logger) {
	event := logger.Info()
	if span.Error != nil {
		event = logger.Error().Err(span.Error)
	}

	event.Str("path", span.Path)
	event.Str("mode", string(span.Mode))
	event.Int("entries", span.Entries)
	event.Int("translated", span.Translated)
	event.Str("len", humanizeSize(span.Size))
	event.Dur("dur", span.duration)

	event.Msg("Processed catalog")
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

func humanizeSize(x int) string {
	if x < bytesInKB {
		return strconv.Itoa(x)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
