package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// EventEmitter mirrors auth-activity events to OTel log records so the
// collector sees the same trail the audit table keeps. Best-effort, like the
// audit logger.
type EventEmitter struct {
	logger otellog.Logger
}

// NewEventEmitter returns an emitter backed by provider. A nil provider
// yields a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) *EventEmitter {
	if provider == nil {
		return &EventEmitter{}
	}
	return &EventEmitter{logger: provider.Logger("identity-plane.auth")}
}

// LogEvent emits one auth event as a log record.
func (e *EventEmitter) LogEvent(ctx context.Context, identityID, action, metadata string) {
	if e == nil || e.logger == nil {
		return
	}
	rec := otellog.Record{}
	rec.SetTimestamp(time.Now().UTC())
	rec.SetBody(otellog.StringValue(action))
	if identityID != "" {
		rec.AddAttributes(otellog.String("identity_id", identityID))
	}
	if metadata != "" {
		rec.AddAttributes(otellog.String("metadata", metadata))
	}
	e.logger.Emit(ctx, rec)
}
