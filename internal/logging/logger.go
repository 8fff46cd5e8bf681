// Package logging provides config-driven categorized file-based logging
// for the generation pipeline. Logs are written to <dir>/logs/ with one
// file per category. When debug mode is off, every call is a silent no-op.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/system.
type Category string

const (
	CategorySpec       Category = "spec"       // Taxonomy loading and lookup
	CategoryQuestion   Category = "question"   // Question generation
	CategoryMapper     Category = "mapper"     // Answer -> requirement mapping
	CategoryPrompt     Category = "prompt"     // Prompt assembly
	CategoryGeneration Category = "generation" // LLM calls and retries
	CategoryValidation Category = "validation" // Output validation/sanitization
	CategoryCompliance Category = "compliance" // Crosswalk and linting
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	debugMode bool
	logLevel  = LevelInfo
)

// Initialize sets up the logging directory. Should be called once at
// startup. With debug=false this is a no-op and all loggers stay silent.
func Initialize(dir string, debug bool, level string) error {
	debugMode = debug
	switch level {
	case "debug":
		logLevel = LevelDebug
	case "info", "":
		logLevel = LevelInfo
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}

	if !debug {
		return nil
	}
	if dir == "" {
		return fmt.Errorf("logging directory required in debug mode")
	}

	logsDir = filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	return nil
}

// Get returns (or creates) a logger for the given category. Returns a
// no-op logger when debug mode is disabled.
func Get(category Category) *Logger {
	if !debugMode || logsDir == "" {
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
	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message (only if level <= debug).
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message (only if level <= info).
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message (only if level <= warn).
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message (always logged if the logger exists).
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// CloseAll closes all open log files (call at shutdown).
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Convenience functions. No-ops when debug mode is disabled.

// Spec logs to the spec category.
func Spec(format string, args ...interface{}) { Get(CategorySpec).Info(format, args...) }

// SpecWarn logs a warning to the spec category.
func SpecWarn(format string, args ...interface{}) { Get(CategorySpec).Warn(format, args...) }

// Question logs to the question category.
func Question(format string, args ...interface{}) { Get(CategoryQuestion).Info(format, args...) }

// Mapper logs to the mapper category.
func Mapper(format string, args ...interface{}) { Get(CategoryMapper).Info(format, args...) }

// MapperWarn logs a warning to the mapper category.
func MapperWarn(format string, args ...interface{}) { Get(CategoryMapper).Warn(format, args...) }

// Prompt logs to the prompt category.
func Prompt(format string, args ...interface{}) { Get(CategoryPrompt).Info(format, args...) }

// PromptWarn logs a warning to the prompt category.
func PromptWarn(format string, args ...interface{}) { Get(CategoryPrompt).Warn(format, args...) }

// Generation logs to the generation category.
func Generation(format string, args ...interface{}) { Get(CategoryGeneration).Info(format, args...) }

// GenerationWarn logs a warning to the generation category.
func GenerationWarn(format string, args ...interface{}) {
	Get(CategoryGeneration).Warn(format, args...)
}

// GenerationError logs an error to the generation category.
func GenerationError(format string, args ...interface{}) {
	Get(CategoryGeneration).Error(format, args...)
}

// Validation logs to the validation category.
func Validation(format string, args ...interface{}) { Get(CategoryValidation).Info(format, args...) }

// ValidationWarn logs a warning to the validation category.
func ValidationWarn(format string, args ...interface{}) {
	Get(CategoryValidation).Warn(format, args...)
}

// Compliance logs to the compliance category.
func Compliance(format string, args ...interface{}) { Get(CategoryCompliance).Info(format, args...) }

// Timer helps measure operation duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}
