package logging

import (
	"context"

	"go.uber.org/zap"
)

// LogAuditEvent records a mutation of a user-owned resource. action is one of
// create, update or delete; result is success or failure.
func LogAuditEvent(
	ctx context.Context,
	action, userID, resourceType, resourceID, result string,
	details map[string]any,
) {
	fields := []zap.Field{
		zap.String("audit.action", action),
		zap.String("audit.user_id", userID),
		zap.String("audit.resource_type", resourceType),
		zap.String("audit.resource_id", resourceID),
		zap.String("audit.result", result),
	}
	if len(details) > 0 {
		fields = append(fields, zap.Any("audit.details", details))
	}
	if traceID := TraceIDFromContext(ctx); traceID != "" {
		fields = append(fields, zap.String("audit.trace", traceID))
	}
	LoggerFromContext(ctx).Info("Audit event", fields...)
}
