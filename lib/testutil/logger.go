// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
)

// LogBuffer collects JSON log records written by a captured logger.
type LogBuffer struct {
	mu     sync.Mutex
	buffer bytes.Buffer
}

// Write implements io.Writer.
func (b *LogBuffer) Write(data []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.Write(data)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.String()
}

// Contains reports whether any record contains substring.
func (b *LogBuffer) Contains(substring string) bool {
	return strings.Contains(b.String(), substring)
}

// CaptureLogger returns a debug-level logger writing JSON records into
// the returned buffer.
func CaptureLogger() (*slog.Logger, *LogBuffer) {
	buffer := &LogBuffer{}
	handler := slog.NewJSONHandler(buffer, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), buffer
}
