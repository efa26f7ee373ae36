package telemetry

import (
	"context"
	"errors"
	"testing"
)

// Without a registered tracer provider the global tracer is a noop; the
// adapter must still be safe to call.
func TestOTelProviderNoopSafe(t *testing.T) {
	p := NewOTelProvider("adp-relay-test")

	ctx, span := p.StartSpan(context.Background(), "translate.request")
	if ctx == nil {
		t.Fatal("StartSpan returned nil context")
	}
	if span == nil {
		t.Fatal("StartSpan returned nil span")
	}

	span.SetAttribute("actor", "calc")
	span.SetAttribute("attempts", 2)
	span.SetAttribute("confidence", 0.82)
	span.SetAttribute("write", true)
	span.SetAttribute("tags", []string{"Action"})
	span.RecordError(errors.New("boom"))
	span.End()

	p.RecordMetric("pipeline.duration_ms", 12.5, map[string]string{"stage": "matching"})
	p.RecordMetric("pipeline.attempts", 3, nil)
}
