package logger

import (
	"fmt"
	"io"
	"log"
	"occupancy/internal/config"
	"os"
	"path/filepath"
	"sync"
)

// Level names a log severity. Every level has its own file in the log directory.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Levels lists the levels in increasing severity.
var Levels = []Level{LevelInfo, LevelWarning, LevelError}

// ParseLevel converts a level name into a Level.
func ParseLevel(name string) (Level, bool) {
	for _, l := range Levels {
		if string(l) == name {
			return l, true
		}
	}
	return "", false
}

// FileName returns the log file name of the level.
func (l Level) FileName() string {
	return string(l) + ".log"
}

// Logger provides leveled logging (info/warning/error) to files and stdout/stderr.
type Logger struct {
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	files      []*os.File
	logDir     string
	mu         sync.Mutex
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(config *config.Config) (*Logger, error) {
	if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logger := &Logger{
		logDir: config.LogDirectory,
	}

	if err := logger.setupLoggers(); err != nil {
		logger.Close()
		return nil, err
	}
	return logger, nil
}

// setupLoggers initializes writers and per-level loggers.
func (l *Logger) setupLoggers() error {
	writers := make(map[Level]io.Writer, len(Levels))
	for _, level := range Levels {
		file, err := os.OpenFile(l.Path(level), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", level.FileName(), err)
		}
		l.files = append(l.files, file)

		console := io.Writer(os.Stdout)
		if level == LevelError {
			console = os.Stderr
		}
		writers[level] = io.MultiWriter(console, file)
	}

	flags := log.Ldate | log.Ltime | log.Lshortfile
	l.infoLog = log.New(writers[LevelInfo], "ℹ️  INFO    ", flags)
	l.warningLog = log.New(writers[LevelWarning], "⚠️  WARNING ", flags)
	l.errorLog = log.New(writers[LevelError], "❌ ERROR   ", flags)
	return nil
}

// Path returns the file path of the level's log.
func (l *Logger) Path(level Level) string {
	return filepath.Join(l.logDir, level.FileName())
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Output(2, fmt.Sprintf(format, v...))
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Output(2, fmt.Sprintf(format, v...))
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Output(2, fmt.Sprintf(format, v...))
}

// CleanLogs truncates the log file of the given level.
func (l *Logger) CleanLogs(level Level) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.Truncate(l.Path(level), 0); err != nil {
		return fmt.Errorf("failed to clear %s: %w", level.FileName(), err)
	}
	l.infoLog.Output(2, fmt.Sprintf("%s has been cleared", level.FileName()))
	return nil
}

// Close closes the log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = nil
	return firstErr
}
