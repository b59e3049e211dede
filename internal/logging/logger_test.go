package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, o Options) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	InitializeWithCore(core, o)
	t.Cleanup(Reset)
	return logs
}

func TestGet_NoopBeforeInitialize(t *testing.T) {
	Reset()
	l := Get(CategoryAPI)
	require.NotNil(t, l)
	assert.Equal(t, CategoryAPI, l.Category())
	// must not panic
	l.Info("hello %s", "world")
	l.Error("boom")
}

func TestGet_TagsCategory(t *testing.T) {
	logs := observe(t, Options{DebugMode: true})

	Get(CategoryHistory).Info("saved %d entries", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "saved 3 entries", entries[0].Message)
	assert.Equal(t, "history", entries[0].ContextMap()["category"])
}

func TestGet_DisabledCategoryIsSilent(t *testing.T) {
	logs := observe(t, Options{
		DebugMode:  true,
		Categories: map[string]bool{"api": false, "export": true},
	})

	Get(CategoryAPI).Error("should not appear")
	Get(CategoryExport).Info("visible")
	Get(CategoryServer).Info("unlisted categories default on")

	assert.Equal(t, 2, logs.Len())
	assert.False(t, IsCategoryEnabled(CategoryAPI))
	assert.True(t, IsCategoryEnabled(CategoryExport))
	assert.True(t, IsCategoryEnabled(CategoryServer))
}

func TestCategoriesIgnoredOutsideDebugMode(t *testing.T) {
	observe(t, Options{Categories: map[string]bool{"api": false}})
	assert.True(t, IsCategoryEnabled(CategoryAPI))
}

func TestWith_AddsFields(t *testing.T) {
	logs := observe(t, Options{DebugMode: true})

	Get(CategoryAPI).With("attempt", 2).Warn("retrying")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["attempt"])
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestShortcuts(t *testing.T) {
	logs := observe(t, Options{DebugMode: true})

	APIDebug("call %d", 1)
	Server("listening on %s", ":8080")
	HistoryWarn("corrupt")
	Export("wrote %s", "a.md")

	assert.Equal(t, 4, logs.Len())
	assert.Equal(t, 1, logs.FilterField(zap.String("category", "api")).Len())
	assert.Equal(t, 1, logs.FilterField(zap.String("category", "server")).Len())
	assert.Equal(t, 1, logs.FilterMessage("wrote a.md").Len())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range tests {
		got, err := parseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseLevel("verbose")
	assert.Error(t, err)
}

func TestInitialize_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exegesis.log")
	require.NoError(t, Initialize(Options{Level: "debug", DebugMode: true, File: path}))
	t.Cleanup(Reset)

	Get(CategoryBoot).Info("booted")
	Sync()

	assert.FileExists(t, path)
}
