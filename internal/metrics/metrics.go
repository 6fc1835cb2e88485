// Package metrics exposes the per-packet-type counters spec §6
// requires ("every sent packet increments a per-packet-type metric
// counter"), backed by github.com/prometheus/client_golang.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder counts packets sent and received, labeled by MQTT packet
// type name.
type Recorder struct {
	sent     *prometheus.CounterVec
	received *prometheus.CounterVec
}

// NewRecorder creates a Recorder and registers its counters with reg.
// Pass prometheus.DefaultRegisterer for process-wide metrics, or a
// fresh prometheus.NewRegistry() in tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mqsession",
			Name:      "packets_sent_total",
			Help:      "MQTT packets sent to clients, by packet type.",
		}, []string{"packet_type"}),
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mqsession",
			Name:      "packets_received_total",
			Help:      "MQTT packets received from clients, by packet type.",
		}, []string{"packet_type"}),
	}
	reg.MustRegister(r.sent, r.received)
	return r
}

// Sent records one outbound packet of the given type name.
func (r *Recorder) Sent(packetType string) {
	r.sent.WithLabelValues(packetType).Inc()
}

// Received records one inbound packet of the given type name.
func (r *Recorder) Received(packetType string) {
	r.received.WithLabelValues(packetType).Inc()
}
