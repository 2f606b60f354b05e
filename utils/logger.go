package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logMu  sync.RWMutex
	logger = zerolog.Nop()
)

// InitLogger initializes the logger. Entries go to stdout and to a daily file in dir.
func InitLogger(dir, level string) (io.Closer, error) {
	if dir == "" {
		dir = "logs"
	}
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %v", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	file, err := os.OpenFile(
		filepath.Join(dir, fmt.Sprintf("app-%s.log", timestamp)),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	SetLogger(zerolog.New(zerolog.MultiLevelWriter(os.Stdout, file)).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("app", AppName).
		Logger())
	return file, nil
}

// SetLogger replaces the logger behind the Log* helpers
func SetLogger(l zerolog.Logger) {
	logMu.Lock()
	logger = l
	logMu.Unlock()
}

// Logger returns the current logger
func Logger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

// ParseLevel maps a config string to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	l := Logger()
	l.Info().Msgf(format, v...)
}

// LogWarn logs a warning
func LogWarn(format string, v ...interface{}) {
	l := Logger()
	l.Warn().Msgf(format, v...)
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	l := Logger()
	l.Error().Msgf(format, v...)
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	l := Logger()
	l.Debug().Msgf(format, v...)
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip, requestID string, status int, duration time.Duration) {
	l := Logger()
	l.Info().
		Str("method", method).
		Str("path", path).
		Str("ip", ip).
		Str("request_id", requestID).
		Int("status", status).
		Dur("duration", duration).
		Msg("request")
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	l := Logger()
	l.Error().Err(err).Str("stack", string(stack)).Msg("panic recovered")
}
