package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedContext(t *testing.T) (context.Context, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return WithLogger(context.Background(), zap.New(core)), logs
}

func TestLoggerFromContextFallsBack(t *testing.T) {
	resetLoggerForTest()
	t.Cleanup(resetLoggerForTest)

	//nolint:staticcheck // nil context is handled on purpose
	if LoggerFromContext(nil) != Logger() {
		t.Error("expected nil context to return the shared logger")
	}
	if LoggerFromContext(context.Background()) != Logger() {
		t.Error("expected empty context to return the shared logger")
	}
}

func TestWithLoggerIgnoresNil(t *testing.T) {
	ctx := context.Background()
	if WithLogger(ctx, nil) != ctx {
		t.Error("expected context to be returned unchanged")
	}
}

func TestLogHelpersUseContextLogger(t *testing.T) {
	ctx, logs := observedContext(t)

	LogInfo(ctx, "profile loaded", zap.Int("skills", 2))
	LogWarn(ctx, "profile api rejected credentials")
	LogError(ctx, "profile save failed", errors.New("503"))
	LogError(ctx, "no error attached", nil)

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].ContextMap()["skills"] != int64(2) {
		t.Errorf("unexpected info entry: %+v", entries[0])
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("expected warn level, got %v", entries[1].Level)
	}
	if entries[2].ContextMap()["error"] != "503" {
		t.Errorf("expected error field, got %v", entries[2].ContextMap())
	}
	if _, ok := entries[3].ContextMap()["error"]; ok {
		t.Error("did not expect an error field for nil error")
	}
}

func TestSugarFromContext(t *testing.T) {
	ctx, logs := observedContext(t)
	SugarFromContext(ctx).Infow("sugared", "field", "value")
	if logs.FilterMessage("sugared").Len() != 1 {
		t.Error("expected sugared entry on the context logger")
	}
}

func TestTraceIDFromContext(t *testing.T) {
	if got := TraceIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty trace ID, got %q", got)
	}
	ctx := withTraceID(context.Background(), "req-1")
	if got := TraceIDFromContext(ctx); got != "req-1" {
		t.Errorf("expected req-1, got %q", got)
	}
	if withTraceID(ctx, "") != ctx {
		t.Error("expected empty trace ID to leave context unchanged")
	}
}

func TestLogAuditEventMultiple(t *testing.T) {
	ctx, logs := observedContext(t)
	ctx = withTraceID(ctx, "projects/p/traces/abc")

	LogAuditEvent(ctx, "update", "user-123", "profile", "user-123", "success", map[string]any{"skills": 2})
	LogAuditEvent(ctx, "delete", "user-123", "profile", "user-123", "failure", nil)

	entries := logs.FilterMessage("Audit event").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	for key, want := range map[string]any{
		"audit.action":        "update",
		"audit.user_id":       "user-123",
		"audit.resource_type": "profile",
		"audit.result":        "success",
		"audit.trace":         "projects/p/traces/abc",
	} {
		if fields[key] != want {
			t.Errorf("%s = %v, want %v", key, fields[key], want)
		}
	}
	if _, ok := entries[1].ContextMap()["audit.details"]; ok {
		t.Error("expected no details field when details are empty")
	}
}
