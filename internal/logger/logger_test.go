package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/deppfellow/todos/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

func TestLoggerServiceDisabledWithoutLicense(t *testing.T) {
	svc, err := NewLoggerService(config.DefaultObservabilityConfig())
	if err != nil {
		t.Fatalf("NewLoggerService: %v", err)
	}
	if svc.GetApplication() != nil {
		t.Fatal("expected no New Relic application")
	}
	// must not panic
	svc.Shutdown(0)

	var nilService *LoggerService
	if nilService.GetApplication() != nil {
		t.Fatal("nil service should report no application")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	l := NewLogger(cfg)
	if l.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("level = %v, want warn", l.GetLevel())
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	reqLogger := zerolog.New(&buf).With().Str("request_id", "abc").Logger()
	fallback := zerolog.Nop()

	ctx := reqLogger.WithContext(context.Background())
	FromContext(ctx, &fallback).Info().Msg("hello")

	if !bytes.Contains(buf.Bytes(), []byte(`"request_id":"abc"`)) {
		t.Fatalf("request logger not used: %s", buf.String())
	}

	if got := FromContext(context.Background(), &fallback); got != &fallback {
		t.Fatal("expected fallback logger for a bare context")
	}
	if got := FromContext(context.Background(), nil); got == nil {
		t.Fatal("expected a no-op logger, got nil")
	}
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	tests := map[zerolog.Level]tracelog.LogLevel{
		zerolog.DebugLevel: tracelog.LogLevelDebug,
		zerolog.InfoLevel:  tracelog.LogLevelInfo,
		zerolog.WarnLevel:  tracelog.LogLevelWarn,
		zerolog.ErrorLevel: tracelog.LogLevelError,
		zerolog.Disabled:   tracelog.LogLevelNone,
	}
	for in, want := range tests {
		if got := GetPgxTraceLogLevel(in); got != want {
			t.Errorf("GetPgxTraceLogLevel(%v) = %v, want %v", in, got, want)
		}
	}
}
