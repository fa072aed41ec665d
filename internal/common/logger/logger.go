package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelQuiet // No output
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// zerologLevels maps our levels onto the structured file sink
var zerologLevels = map[Level]zerolog.Level{
	LevelDebug: zerolog.DebugLevel,
	LevelInfo:  zerolog.InfoLevel,
	LevelWarn:  zerolog.WarnLevel,
	LevelError: zerolog.ErrorLevel,
}

// Logger handles application logging.
// Terminal output is plain text; the optional file sink is JSON lines.
type Logger struct {
	level      Level
	output     io.Writer
	fileOutput *os.File
	file       *zerolog.Logger
	mu         sync.Mutex
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Default returns the default logger instance
func Default() *Logger {
	once.Do(func() {
		defaultLogger = New(os.Stderr)
	})
	return defaultLogger
}

// New creates a logger writing terminal output to w at Info level
func New(w io.Writer) *Logger {
	return &Logger{
		level:  LevelInfo,
		output: w,
	}
}

// Level returns the current logging level
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetVerbose enables debug output
func (l *Logger) SetVerbose(verbose bool) {
	if verbose {
		l.SetLevel(LevelDebug)
	}
}

// SetQuiet disables all output except errors
func (l *Logger) SetQuiet(quiet bool) {
	if quiet {
		l.SetLevel(LevelError)
	}
}

// EnableFileLogging enables logging to a file
func (l *Logger) EnableFileLogging() error {
	logDir, err := LogDir()
	if err != nil {
		return err
	}
	return l.EnableFileLoggingAt(filepath.Join(logDir, "portagetool.log"))
}

// EnableFileLoggingAt enables logging to the given file path
func (l *Logger) EnableFileLoggingAt(logFile string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	zl := zerolog.New(f).With().Timestamp().Logger()
	l.fileOutput = f
	l.file = &zl
	return nil
}

// Close closes the log file if open
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fileOutput != nil {
		l.fileOutput.Close()
		l.fileOutput = nil
		l.file = nil
	}
}

// LogDir returns the log directory path
func LogDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	// Use XDG_STATE_HOME for logs (standard for runtime data)
	xdgState := os.Getenv("XDG_STATE_HOME")
	if xdgState == "" {
		xdgState = filepath.Join(home, ".local", "state")
	}

	return filepath.Join(xdgState, "portagetool", "logs"), nil
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	// The file sink records everything, independent of terminal verbosity
	if l.file != nil {
		l.file.WithLevel(zerologLevels[level]).Str("level_name", levelNames[level]).Msg(msg)
	}

	if level < l.level {
		return
	}

	fmt.Fprint(l.output, msg+"\n")
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Package-level convenience functions
func Debug(format string, args ...interface{}) { Default().Debug(format, args...) }
func Info(format string, args ...interface{})  { Default().Info(format, args...) }
func Warn(format string, args ...interface{})  { Default().Warn(format, args...) }
func Error(format string, args ...interface{}) { Default().Error(format, args...) }
func SetVerbose(v bool)                        { Default().SetVerbose(v) }
func SetQuiet(q bool)                          { Default().SetQuiet(q) }
