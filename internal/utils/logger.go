package utils

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a zap logger at the given level. Unknown levels fall back
// to info.
func NewLogger(level string, development bool) (*Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: z.Sugar()}, nil
}

// NewNopLogger discards everything.
func NewNopLogger() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) LogRequest(r *http.Request) {
	l.Infow("API request",
		"method", r.Method,
		"path", r.URL.Path,
		"userAgent", headerOr(r, UserAgentHeader, "Unknown"),
		"referer", headerOr(r, "Referer", "Direct"),
	)
}

func (l *Logger) LogResponse(r *http.Request, start time.Time) {
	l.Infow("API response", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
}

func (l *Logger) LogSearchQuery(query string, resultCount int) {
	l.Infow("search query", "query", query, "results", resultCount)
}

func (l *Logger) LogExtensionInfo(extensionID, displayName, publisher string) {
	l.Infow("extension info", "id", extensionID, "name", displayName, "publisher", publisher)
}

func (l *Logger) LogDatabaseOperation(operation string, err error) {
	if err != nil {
		l.Errorw("database operation failed", "operation", operation, "error", err)
		return
	}
	l.Debugw("database operation", "operation", operation)
}

func (l *Logger) LogFileOperation(operation, filePath string, err error) {
	if err != nil {
		l.Errorw("file operation failed", "operation", operation, "path", filePath, "error", err)
		return
	}
	l.Debugw("file operation", "operation", operation, "path", filePath)
}

func (l *Logger) LogServerStart(addr string) {
	l.Infof("Starting HTTP server on %s", addr)
}

func (l *Logger) LogServerStop(err error) {
	if err != nil {
		l.Errorf("Server stopped with error: %v", err)
	} else {
		l.Info("Server stopped gracefully")
	}
}

func (l *Logger) LogPerformance(operation string, duration time.Duration) {
	if duration > time.Second {
		l.Warnw("slow operation", "operation", operation, "duration", duration)
	} else {
		l.Debugw("operation", "operation", operation, "duration", duration)
	}
}

func headerOr(r *http.Request, key, fallback string) string {
	if value := r.Header.Get(key); value != "" {
		return value
	}
	return fallback
}
