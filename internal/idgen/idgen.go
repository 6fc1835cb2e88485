// Package idgen synthesizes the identifiers the session core needs
// but does not generate itself: the digits appended to the
// "emqttd_" prefix for an auto-assigned client id (spec §4.1 step 5,
// §6 "guid.new()"), and an opaque correlation id usable for log
// lines and hook payloads.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces monotonically increasing client-id suffixes and
// opaque correlation ids. The zero value is ready to use.
type Generator struct {
	counter uint64
}

// NewID returns the next monotonic digit string for an auto-assigned
// client id. Satisfies session.IDGenerator.
func (g *Generator) NewID() string {
	n := atomic.AddUint64(&g.counter, 1)
	return strconv.FormatUint(n, 10)
}

// CorrelationID returns a fresh opaque id suitable for tracing one
// connection's log lines across a session's lifetime. It is not used
// for client ids: those must stay human-debuggable monotonic digits,
// not UUIDs.
func (g *Generator) CorrelationID() string {
	return uuid.NewString()
}
