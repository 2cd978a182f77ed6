// Package logging provides config-driven categorized logging for hdrprefix.
// Every category is a named zap logger sharing one core; categories can be
// switched off individually through the logging config.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config loading
	CategoryCLI     Category = "cli"     // Flag handling, execution policy
	CategoryRewrite Category = "rewrite" // Include and namespace rewrites
	CategoryWalk    Category = "walk"    // Directory traversal
	CategoryAudit   Category = "audit"   // Structured file operation events
)

// Options mirrors the relevant parts of config.LoggingConfig
// to avoid circular imports
type Options struct {
	Level      string          // debug, info, warn, error
	Format     string          // console, json
	File       string          // empty means stderr
	Categories map[string]bool // per-category toggles, nil enables all
	RunID      string          // attached to every entry as run_id
}

// Logger is a category logger with printf-style methods.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	base      = zap.NewNop()
	opts      Options
	closeSink func()
)

// Initialize builds the shared zap core from opts. It can be called again to
// reconfigure; previously returned loggers keep their old core.
func Initialize(o Options) error {
	level, err := ParseLevel(o.Level)
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(o.Format) {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "", "console", "text":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return fmt.Errorf("unknown log format %q", o.Format)
	}

	sink := zapcore.Lock(os.Stderr)
	var closeFn func()
	if o.File != "" {
		ws, cleanup, err := zap.Open(o.File)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		sink = ws
		closeFn = cleanup
	}

	l := zap.New(zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(level)))
	if o.RunID != "" {
		l = l.With(zap.String("run_id", o.RunID))
	}

	SetBase(l, o)

	loggersMu.Lock()
	if closeSink != nil {
		closeSink()
	}
	closeSink = closeFn
	loggersMu.Unlock()

	Get(CategoryBoot).Debug("logging initialized: level=%s format=%s", level, o.Format)
	return nil
}

// SetBase installs l as the shared logger. Tests use it with an observer core.
func SetBase(l *zap.Logger, o Options) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l == nil {
		l = zap.NewNop()
	}
	base = l
	opts = o
	loggers = make(map[Category]*Logger)
}

// Base returns the shared zap logger.
func Base() *zap.Logger {
	loggersMu.RLock()
	defer loggersMu.RUnlock()
	return base
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// NewRunID returns a fresh correlation ID for one invocation.
func NewRunID() string {
	return uuid.NewString()
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	loggersMu.RLock()
	defer loggersMu.RUnlock()

	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{
		category: category,
		sugar:    base.Named(string(category)).Sugar(),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Errorf(format, args...)
}

// With returns a logger carrying extra key-value fields.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l.sugar == nil {
		return l
	}
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes buffered entries and closes the log file, if any. Once a
// file sink is closed, logging falls back to a no-op logger until the next
// Initialize.
func Sync() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	_ = base.Sync()
	if closeSink != nil {
		closeSink()
		closeSink = nil
		base = zap.NewNop()
		loggers = make(map[Category]*Logger)
	}
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...interface{}) {
	Get(CategoryBoot).Debug(format, args...)
}

// CLI logs to the cli category
func CLI(format string, args ...interface{}) {
	Get(CategoryCLI).Info(format, args...)
}

// CLIDebug logs debug to the cli category
func CLIDebug(format string, args ...interface{}) {
	Get(CategoryCLI).Debug(format, args...)
}

// Rewrite logs to the rewrite category
func Rewrite(format string, args ...interface{}) {
	Get(CategoryRewrite).Info(format, args...)
}

// RewriteDebug logs debug to the rewrite category
func RewriteDebug(format string, args ...interface{}) {
	Get(CategoryRewrite).Debug(format, args...)
}

// RewriteError logs an error to the rewrite category
func RewriteError(format string, args ...interface{}) {
	Get(CategoryRewrite).Error(format, args...)
}

// WalkDebug logs debug to the walk category
func WalkDebug(format string, args ...interface{}) {
	Get(CategoryWalk).Debug(format, args...)
}

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
