package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, cv *prometheus.CounterVec, label string) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := cv.WithLabelValues(label).Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRecorderSentAndReceivedCountByPacketType(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.Sent("PUBLISH")
	r.Sent("PUBLISH")
	r.Received("SUBSCRIBE")

	if got := counterValue(t, r.sent, "PUBLISH"); got != 2 {
		t.Fatalf("expected 2 sent PUBLISH, got %v", got)
	}
	if got := counterValue(t, r.received, "SUBSCRIBE"); got != 1 {
		t.Fatalf("expected 1 received SUBSCRIBE, got %v", got)
	}
	if got := counterValue(t, r.sent, "CONNACK"); got != 0 {
		t.Fatalf("expected untouched label to read 0, got %v", got)
	}
}
