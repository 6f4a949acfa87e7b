package kafka

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestHeaderCarrier_SetAndGet(t *testing.T) {
	headers := []kafka.Header{{Key: "existing", Value: []byte("value1")}}
	carrier := headerCarrier{headers: &headers}

	if got := carrier.Get("existing"); got != "value1" {
		t.Errorf("Get(existing) = %q, want %q", got, "value1")
	}
	if got := carrier.Get("missing"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}

	carrier.Set("new-key", "new-value")
	carrier.Set("existing", "updated")
	if got := carrier.Get("existing"); got != "updated" {
		t.Errorf("Get(existing) after update = %q, want %q", got, "updated")
	}
	if len(headers) != 2 {
		t.Errorf("len(headers) = %d, want 2", len(headers))
	}
	if keys := carrier.Keys(); len(keys) != 2 || keys[0] != "existing" || keys[1] != "new-key" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestHeaderCarrier_PropagationRoundTrip(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	prop := propagation.TraceContext{}
	var headers []kafka.Header
	prop.Inject(ctx, headerCarrier{headers: &headers})

	extracted := trace.SpanContextFromContext(prop.Extract(context.Background(), headerCarrier{headers: &headers}))
	if extracted.TraceID() != traceID {
		t.Errorf("trace id = %s, want %s", extracted.TraceID(), traceID)
	}
}
