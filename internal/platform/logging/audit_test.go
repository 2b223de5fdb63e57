package logging

import (
	"testing"
)

func TestLogAuditEvent(t *testing.T) {
	ctx, logs := observedContext(t)

	LogAuditEvent(ctx, "create", "user-123", "profile", "user-123", "success", nil)

	entries := logs.FilterMessage("Audit event").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	want := map[string]string{
		"audit.action":        "create",
		"audit.user_id":       "user-123",
		"audit.resource_type": "profile",
		"audit.resource_id":   "user-123",
		"audit.result":        "success",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("expected %s=%q, got %v", k, v, fields[k])
		}
	}
	if _, ok := fields["audit.details"]; ok {
		t.Error("expected no details field for nil details")
	}
	if _, ok := fields["audit.trace"]; ok {
		t.Error("expected no trace field without a trace ID")
	}
}

func TestLogAuditEventWithDetailsAndTrace(t *testing.T) {
	ctx, logs := observedContext(t)
	ctx = withTraceID(ctx, "0af7651916cd43dd8448eb211c80319c")

	LogAuditEvent(ctx, "update", "user-1", "profile", "user-1", "failure", map[string]any{"reason": "unavailable"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["audit.trace"] != "0af7651916cd43dd8448eb211c80319c" {
		t.Errorf("expected trace id, got %v", fields["audit.trace"])
	}
	if _, ok := fields["audit.details"]; !ok {
		t.Error("expected details field")
	}
}
