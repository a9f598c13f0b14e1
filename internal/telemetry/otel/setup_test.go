package otel

import (
	"context"
	"sync"
	"testing"

	sdklog "go.opentelemetry.io/otel/sdk/log"
)

func TestNewProviders_EmptyEndpointIsNoop(t *testing.T) {
	p, err := NewProviders(context.Background(), "", "identity-plane-test", false)
	if err != nil {
		t.Fatalf("NewProviders: %v", err)
	}
	if p.TracerProvider == nil || p.MeterProvider == nil || p.LoggerProvider == nil {
		t.Fatal("no-op providers should still be non-nil")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestNewProviders_InvalidEndpoint(t *testing.T) {
	if _, err := NewProviders(context.Background(), "http://", "svc", false); err == nil {
		t.Fatal("endpoint without host should fail")
	}
}

// captureProcessor records emitted log records for assertions.
type captureProcessor struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (c *captureProcessor) OnEmit(ctx context.Context, r *sdklog.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, *r)
	return nil
}

func (c *captureProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool { return true }

func (c *captureProcessor) Shutdown(context.Context) error   { return nil }
func (c *captureProcessor) ForceFlush(context.Context) error { return nil }

func TestEventEmitter_EmitsRecord(t *testing.T) {
	proc := &captureProcessor{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(proc))
	e := NewEventEmitter(provider)

	e.LogEvent(context.Background(), "id-1", "auth.login", "")

	proc.mu.Lock()
	defer proc.mu.Unlock()
	if len(proc.records) != 1 {
		t.Fatalf("records: got %d", len(proc.records))
	}
	if proc.records[0].Body().AsString() != "auth.login" {
		t.Errorf("body: got %q", proc.records[0].Body().AsString())
	}
}

func TestEventEmitter_NilProviderSafe(t *testing.T) {
	e := NewEventEmitter(nil)
	e.LogEvent(context.Background(), "id-1", "auth.login", "")
}
