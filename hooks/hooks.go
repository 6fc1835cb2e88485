// Package hooks implements the broker lifecycle-hook runner behind
// spec §6's "hooks.run(name, args, payload) -> payload'" contract,
// scaled down from the much larger hook-interface family a full
// broker exposes to exactly the events this session core fires.
package hooks

import (
	"context"
	"log/slog"
)

// Event names the session core invokes. A broker embedding this
// module may define and run additional events of its own through the
// same Manager; these are the ones wired from session.go.
const (
	ClientConnected    = "client.connected"
	ClientSubscribe    = "client.subscribe"
	ClientSubscribed   = "client.subscribed"
	ClientUnsubscribe  = "client.unsubscribe"
	ClientUnsubscribed = "client.unsubscribed"
	MessageAcked       = "message.acked"
	ClientDisconnected = "client.disconnected"
)

// Func handles one hook invocation. It returns the (possibly
// rewritten) payload and whether it claimed the event; a hook that
// returns claimed=true stops the chain, matching the "may rewrite
// topic tables" short-circuit behavior spec §6 describes.
type Func func(ctx context.Context, event string, payload map[string]any) (rewritten map[string]any, claimed bool)

// registration pairs a hook with the events it wants delivered.
type registration struct {
	id     string
	events map[string]bool
	fn     Func
}

// Manager runs registered hooks for each event in registration order,
// satisfying session.HookRunner.
type Manager struct {
	log   *slog.Logger
	hooks []registration
}

// NewManager creates an empty Manager. log may be nil; Run does not
// log anything, and a Func reports no error to log.
func NewManager(log *slog.Logger) *Manager {
	return &Manager{log: log}
}

// Register adds a hook that will run for any of the named events, in
// the order Register was called. An empty events list subscribes to
// every event the Manager ever runs.
func (m *Manager) Register(id string, events []string, fn Func) {
	set := make(map[string]bool, len(events))
	for _, e := range events {
		set[e] = true
	}
	m.hooks = append(m.hooks, registration{id: id, events: set, fn: fn})
}

// Run implements session.HookRunner: it calls every registered hook
// subscribed to event, in registration order, threading each hook's
// rewritten payload into the next, and stops at the first hook that
// claims the event. It returns the final payload (nil if nothing
// rewrote it) and whether any hook claimed the event.
func (m *Manager) Run(ctx context.Context, event string, data map[string]any) (map[string]any, bool) {
	payload := data
	var rewrote bool
	for _, h := range m.hooks {
		if len(h.events) > 0 && !h.events[event] {
			continue
		}
		rewritten, claimed := h.fn(ctx, event, payload)
		if rewritten != nil {
			payload = rewritten
			rewrote = true
		}
		if claimed {
			if rewrote {
				return payload, true
			}
			return nil, true
		}
	}
	if rewrote {
		return payload, false
	}
	return nil, false
}
