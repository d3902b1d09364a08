// Package observability provides structured logging, metrics, health checks
// and request-scoped ids for slotwise.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LogConfig configures NewLogger.
type LogConfig struct {
	Level     slog.Level
	Format    LogFormat
	Output    io.Writer // defaults to os.Stderr
	AddSource bool

	// Service and Version are attached to every record.
	Service string
	Version string
}

// DefaultLogConfig is text at info level on stderr.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:   slog.LevelInfo,
		Format:  LogFormatText,
		Output:  os.Stderr,
		Service: "slotwise",
		Version: "dev",
	}
}

// NewLogger builds a logger that also stamps request and correlation ids
// found in the record's context.
func NewLogger(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}

	var base slog.Handler = slog.NewTextHandler(out, opts)
	if cfg.Format == LogFormatJSON {
		base = slog.NewJSONHandler(out, opts)
	}

	var attrs []slog.Attr
	if cfg.Service != "" {
		attrs = append(attrs, slog.String("service", cfg.Service))
	}
	if cfg.Version != "" {
		attrs = append(attrs, slog.String("version", cfg.Version))
	}
	return slog.New(&attributeHandler{handler: base.WithAttrs(attrs)})
}

// LoggerFromEnv reads:
//
//	SLOTWISE_LOG_LEVEL or LOG_LEVEL    debug, info, warn, error
//	SLOTWISE_LOG_FORMAT                text, json
//	SLOTWISE_ENV or APP_ENV            production switches to JSON on stdout with source
//	SLOTWISE_VERSION
func LoggerFromEnv() *slog.Logger {
	cfg := DefaultLogConfig()

	if firstEnv("SLOTWISE_ENV", "APP_ENV") == "production" {
		cfg.Format = LogFormatJSON
		cfg.Output = os.Stdout
		cfg.AddSource = true
		cfg.Version = "unknown"
	}
	if level := firstEnv("SLOTWISE_LOG_LEVEL", "LOG_LEVEL"); level != "" {
		cfg.Level = ParseLevel(level)
	}
	if format := os.Getenv("SLOTWISE_LOG_FORMAT"); format != "" {
		cfg.Format = LogFormat(format)
	}
	if version := os.Getenv("SLOTWISE_VERSION"); version != "" {
		cfg.Version = version
	}
	return NewLogger(cfg)
}

// ParseLevel accepts slog level names in any case, with optional offsets
// such as "debug+2". Unknown input yields info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// attributeHandler adds the context's request and correlation ids.
type attributeHandler struct {
	handler slog.Handler
}

func (h *attributeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *attributeHandler) Handle(ctx context.Context, r slog.Record) error {
	ids := idsFrom(ctx)
	if ids.correlation != "" {
		r.AddAttrs(slog.String(CorrelationIDKey, ids.correlation))
	}
	if ids.request != "" {
		r.AddAttrs(slog.String(RequestIDKey, ids.request))
	}
	return h.handler.Handle(ctx, r)
}

func (h *attributeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &attributeHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *attributeHandler) WithGroup(name string) slog.Handler {
	return &attributeHandler{handler: h.handler.WithGroup(name)}
}

// LogOperation scopes logger to one operation.
func LogOperation(logger *slog.Logger, operation string, attrs ...any) *slog.Logger {
	return logger.With(append([]any{OperationKey, operation}, attrs...)...)
}

// LogDuration logs how long the operation has run since start.
func LogDuration(logger *slog.Logger, operation string, start time.Time) {
	logger.Info("operation completed", OperationKey, operation, DurationKey, time.Since(start).Milliseconds())
}
