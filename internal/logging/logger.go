// Package logging provides config-driven categorized logging for exegesis.
// Every subsystem logs through its own category so noisy areas can be
// switched off independently. Output is produced by zap; until Initialize is
// called every logger is a no-op.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup and configuration
	CategoryAPI        Category = "api"        // Generative API calls and retries
	CategoryValidation Category = "validation" // Passage validation
	CategoryStudy      Category = "study"      // Submission pipeline
	CategoryHistory    Category = "history"    // Recent-queries persistence
	CategoryExport     Category = "export"     // Format exporters
	CategoryServer     Category = "server"     // HTTP API
	CategoryShare      Category = "share"      // Share links
	CategoryArtifact   Category = "artifact"   // Object storage uploads
	CategoryUI         Category = "ui"         // Terminal viewer
)

// Options mirrors config.LoggingConfig to keep this package import-free.
type Options struct {
	Level      string          // debug, info, warn, error
	Format     string          // json, console
	File       string          // empty = stderr
	DebugMode  bool            // false = only warnings and errors, categories ignored
	Categories map[string]bool // per-category toggles, honoured in debug mode
}

// Logger is a category-scoped printf-style logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu         sync.RWMutex
	base       *zap.Logger
	opts       Options
	loggers    = make(map[Category]*Logger)
	nopSugared = zap.NewNop().Sugar()
)

// Initialize builds the process logger. Safe to call more than once; the
// last call wins.
func Initialize(o Options) error {
	level, err := parseLevel(o.Level)
	if err != nil {
		return err
	}
	if !o.DebugMode && level < zapcore.WarnLevel {
		level = zapcore.WarnLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = !o.DebugMode
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if strings.EqualFold(o.Format, "console") || strings.EqualFold(o.Format, "text") {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if o.File != "" {
		cfg.OutputPaths = []string{o.File}
		cfg.ErrorOutputPaths = []string{o.File}
	} else {
		cfg.OutputPaths = []string{"stderr"}
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	install(l, o)
	return nil
}

// InitializeWithCore installs a logger over an existing zap core. Tests use
// it with zaptest/observer.
func InitializeWithCore(core zapcore.Core, o Options) {
	install(zap.New(core), o)
}

func install(l *zap.Logger, o Options) {
	mu.Lock()
	defer mu.Unlock()
	if base != nil {
		_ = base.Sync()
	}
	base = l
	opts = o
	loggers = make(map[Category]*Logger)
}

// Reset drops the process logger; every category becomes a no-op again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if base != nil {
		_ = base.Sync()
	}
	base = nil
	opts = Options{}
	loggers = make(map[Category]*Logger)
}

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if base != nil {
		_ = base.Sync()
	}
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// IsCategoryEnabled returns whether a specific category is enabled.
// Outside debug mode categories are not filtered.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabledLocked(category)
}

func categoryEnabledLocked(category Category) bool {
	if !opts.DebugMode || opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger before Initialize or when the category is disabled.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	initialized := base != nil
	mu.RUnlock()

	if !initialized {
		return &Logger{category: category, sugar: nopSugared}
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	if base == nil {
		return &Logger{category: category, sugar: nopSugared}
	}

	sugar := nopSugared
	if categoryEnabledLocked(category) {
		sugar = base.Sugar().With("category", string(category))
	}
	l := &Logger{category: category, sugar: sugar}
	loggers[category] = l
	return l
}

// Category returns the logger's category.
func (l *Logger) Category() Category { return l.category }

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) { l.sugar.Infof(format, args...) }

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// With returns a logger carrying extra structured key/value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// =============================================================================
// CATEGORY SHORTCUTS
// =============================================================================

func Boot(format string, args ...interface{}) { Get(CategoryBoot).Info(format, args...) }
func APIDebug(format string, args ...interface{}) { Get(CategoryAPI).Debug(format, args...) }
func History(format string, args ...interface{}) { Get(CategoryHistory).Info(format, args...) }
func HistoryWarn(format string, args ...interface{}) { Get(CategoryHistory).Warn(format, args...) }
func Export(format string, args ...interface{}) { Get(CategoryExport).Info(format, args...) }
func Server(format string, args ...interface{}) { Get(CategoryServer).Info(format, args...) }

// =============================================================================
// TIMING
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs a warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
