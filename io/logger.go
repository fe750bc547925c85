// Package snapio provides the leveled logger used by the parser and the
// configuration builder.
package snapio

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogFormat defines the output format for log messages
type LogFormat int

const (
	LogFormatSymbols LogFormat = iota // ● ◆ ✓ ▲ ✗
	LogFormatTagged                   // [DEBUG] [INFO] [SUCCESS] [WARN] [ERROR]
	LogFormatPlain                    // No prefix
)

// ANSI colors per level, applied to terminal output only
var levelColors = map[LogLevel]string{
	LevelDebug:   "\033[35m",
	LevelInfo:    "\033[34m",
	LevelSuccess: "\033[32m",
	LevelWarning: "\033[33m",
	LevelError:   "\033[31m",
}

const colorReset = "\033[0m"

// FileRotation controls the rotation of the log file set with WithFile
type FileRotation struct {
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// DefaultFileRotation is used by WithFile when no rotation is given
var DefaultFileRotation = FileRotation{
	MaxSize:    16,
	MaxBackups: 3,
	MaxAge:     28,
}

// Logger writes leveled, optionally timestamped lines to stdout/stderr and
// optionally to a rotating log file. Messages below the minimum level are dropped.
type Logger struct {
	mu sync.Mutex

	out  io.Writer
	err  io.Writer
	file *lumberjack.Logger

	level        LogLevel
	format       LogFormat
	prefixes     map[LogLevel]string
	withTime     bool
	timeFormat   string
	errorsStderr bool
	color        bool
}

// NewLogger creates a logger bound to process stdio, logging Info and above
func NewLogger() *Logger {
	return &Logger{
		out:          os.Stdout,
		err:          os.Stderr,
		level:        LevelInfo,
		format:       LogFormatSymbols,
		prefixes:     defaultSymbolPrefixes(),
		timeFormat:   "15:04:05",
		errorsStderr: true,
		color:        os.Getenv("NO_COLOR") == "",
	}
}

// defaultSymbolPrefixes returns Unicode symbol prefixes (no emoji)
func defaultSymbolPrefixes() map[LogLevel]string {
	return map[LogLevel]string{
		LevelDebug:   "●", // U+25CF Black Circle
		LevelInfo:    "◆", // U+25C6 Black Diamond
		LevelSuccess: "✓", // U+2713 Check Mark
		LevelWarning: "▲", // U+25B2 Black Up-Pointing Triangle
		LevelError:   "✗", // U+2717 Ballot X
	}
}

// defaultTaggedPrefixes returns bracketed tag prefixes
func defaultTaggedPrefixes() map[LogLevel]string {
	return map[LogLevel]string{
		LevelDebug:   "[DEBUG]",
		LevelInfo:    "[INFO]",
		LevelSuccess: "[SUCCESS]",
		LevelWarning: "[WARN]",
		LevelError:   "[ERROR]",
	}
}

// WithOutput sets the writers used for normal and error output
func (l *Logger) WithOutput(out, errOut io.Writer) *Logger {
	l.out = out
	l.err = errOut
	return l
}

// WithLevel sets the minimum level that is written
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.level = level
	return l
}

// WithFormat sets the log format and returns the logger for chaining
func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	switch format {
	case LogFormatSymbols:
		l.prefixes = defaultSymbolPrefixes()
	case LogFormatTagged:
		l.prefixes = defaultTaggedPrefixes()
	case LogFormatPlain:
		l.prefixes = make(map[LogLevel]string)
	}
	return l
}

// SetPrefix sets a custom prefix for a specific log level
func (l *Logger) SetPrefix(level LogLevel, prefix string) *Logger {
	if l.prefixes == nil {
		l.prefixes = make(map[LogLevel]string)
	}
	l.prefixes[level] = prefix
	return l
}

// WithTimestamp enables or disables timestamp in log output
func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.withTime = enabled
	return l
}

// WithTimeFormat sets the time format (Go time format string)
func (l *Logger) WithTimeFormat(format string) *Logger {
	l.timeFormat = format
	return l
}

// ErrorsToStderr controls whether errors and warnings go to stderr
func (l *Logger) ErrorsToStderr(enabled bool) *Logger {
	l.errorsStderr = enabled
	return l
}

// WithColor enables or disables ANSI level colors on terminal output
func (l *Logger) WithColor(enabled bool) *Logger {
	l.color = enabled
	return l
}

// WithFile also writes every line, uncolored, to a rotating file at path.
// A zero rotation uses DefaultFileRotation.
func (l *Logger) WithFile(path string, rotation FileRotation) *Logger {
	if rotation == (FileRotation{}) {
		rotation = DefaultFileRotation
	}
	l.file = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotation.MaxSize,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAge,
		Compress:   rotation.Compress,
	}
	return l
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Log outputs a log message at the specified level
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if level < l.level {
		return
	}
	line := l.formatMessage(level, fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.selectWriter(level), l.colorize(level, line))
	if l.file != nil {
		fmt.Fprintln(l.file, line)
	}
}

// formatMessage formats the log message according to the configured format
func (l *Logger) formatMessage(level LogLevel, msg string) string {
	// Empty or whitespace-only messages are written as-is
	if strings.TrimSpace(msg) == "" {
		return msg
	}

	var b strings.Builder
	if prefix := l.prefixes[level]; prefix != "" {
		b.WriteString(prefix)
		b.WriteByte(' ')
	}
	if l.withTime {
		b.WriteString("[" + time.Now().Format(l.timeFormat) + "] ")
	}
	b.WriteString(msg)
	return b.String()
}

func (l *Logger) colorize(level LogLevel, text string) string {
	if !l.color || strings.TrimSpace(text) == "" {
		return text
	}
	color, ok := levelColors[level]
	if !ok {
		return text
	}
	return color + text + colorReset
}

// selectWriter chooses stdout or stderr based on log level and configuration
func (l *Logger) selectWriter(level LogLevel) io.Writer {
	if l.errorsStderr && (level == LevelError || level == LevelWarning) {
		return l.err
	}
	return l.out
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	l.Log(LevelDebug, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) {
	l.Log(LevelInfo, format, args...)
}

// Success logs a success message
func (l *Logger) Success(format string, args ...any) {
	l.Log(LevelSuccess, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...any) {
	l.Log(LevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.Log(LevelError, format, args...)
}
