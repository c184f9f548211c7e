// Package logging provides categorized zap-based logging for hdlkit.
// Each subsystem logs under its own named category so output can be
// filtered per concern. The package defaults to a no-op logger, keeping
// library use silent until Initialize is called (typically by the CLI).
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a logging subsystem.
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup and configuration loading
	CategoryConfig Category = "config" // Config parsing and overrides
	CategoryRunner Category = "runner" // External process execution
	CategoryLint   Category = "lint"   // Lint manager and adapters
	CategorySim    Category = "sim"    // Simulation manager and adapters
	CategorySynth  Category = "synth"  // Synthesis manager and adapters
	CategoryLSP    Category = "lsp"    // Language-server selection
	CategoryCLI    Category = "cli"    // Command-line surface
)

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	sugared = make(map[Category]*zap.SugaredLogger)
)

// Initialize installs the process-wide logger. debug enables DebugLevel and
// development-style output; otherwise production JSON at InfoLevel.
func Initialize(debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger replaces the root logger. Tests use this to capture output.
func SetLogger(logger *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	root = logger
	sugared = make(map[Category]*zap.SugaredLogger)
}

// L returns the sugared logger for a category. Loggers are cached per
// category and share the root's sinks.
func L(cat Category) *zap.SugaredLogger {
	mu.RLock()
	if s, ok := sugared[cat]; ok {
		mu.RUnlock()
		return s
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if s, ok := sugared[cat]; ok {
		return s
	}
	s := root.Named(string(cat)).Sugar()
	sugared[cat] = s
	return s
}

// Sync flushes buffered log entries. Called on CLI shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
