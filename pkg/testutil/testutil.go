// Package testutil provides testing utilities for nanoconv
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ObservedLogger returns a logger that records every entry at level or
// above, so tests can assert on messages and levels.
func ObservedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

// WriteInput writes lines, joined by newlines, to a file in a temporary
// directory and returns its path.
func WriteInput(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

// MessagesAt returns the messages of the entries logged at level
func MessagesAt(logs *observer.ObservedLogs, level zapcore.Level) []string {
	var msgs []string
	for _, e := range logs.All() {
		if e.Level == level {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}
