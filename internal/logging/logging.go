// Package logging provides categorized loggers for lifdb. Each subsystem
// logs under its own named zap logger so noisy categories can be filtered
// when debugging ingestion runs.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies a logging subsystem.
type Category string

const (
	CategoryStore    Category = "store"    // database open/write/select
	CategorySim      Category = "sim"      // job directory parsing
	CategoryIngest   Category = "ingest"   // row building
	CategoryMetadata Category = "metadata" // metadata reconciliation
	CategoryCLI      Category = "cli"      // command dispatch
)

var (
	mu      sync.RWMutex
	base    = zap.NewNop().Sugar()
	loggers = map[Category]*zap.SugaredLogger{}
)

// Init builds the process-wide logger. With debug set, the level drops to
// Debug and output uses the development console encoder.
func Init(debug bool) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	base = logger.Sugar()
	loggers = map[Category]*zap.SugaredLogger{}
	return nil
}

// Get returns the logger for a category.
func Get(c Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[c]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[c]; ok {
		return l
	}
	l := base.Named(string(c))
	loggers[c] = l
	return l
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

// Store logs an info message in the store category.
func Store(format string, args ...any) { Get(CategoryStore).Infof(format, args...) }

// StoreDebug logs a debug message in the store category.
func StoreDebug(format string, args ...any) { Get(CategoryStore).Debugf(format, args...) }

// Sim logs an info message in the sim category.
func Sim(format string, args ...any) { Get(CategorySim).Infof(format, args...) }

// Meta logs an info message in the metadata category.
func Meta(format string, args ...any) { Get(CategoryMetadata).Infof(format, args...) }

// MetaDebug logs a debug message in the metadata category.
func MetaDebug(format string, args ...any) { Get(CategoryMetadata).Debugf(format, args...) }
