package session

import "context"

// subscribe implements spec §4.3: parse, let the subscribe hook
// rewrite the table, install each grant with the router, and reply
// SUBACK in request order. A single denied filter fails the whole
// batch — this core has no per-filter SUBACK failure path.
func (s *Session) subscribe(ctx context.Context, pid uint16, topics []string, qos []QoS) error {
	s.log.Info("SUBSCRIBE", "packet_id", pid, "topics", topics)

	if s.hooks != nil {
		rewritten, _ := s.hooks.Run(ctx, HookClientSubscribe, map[string]any{
			"client_id":      s.clientID,
			"correlation_id": s.correlationID,
			"username":       s.username,
			"topics":         topics,
			"qos":            qos,
		})
		topics, qos = applySubscribeRewrite(rewritten, topics, qos)
	}

	granted := make([]QoS, len(topics))
	denied := false
	for i, filter := range topics {
		ok, err := checkSubscribe(ctx, s.acl, s.clientID, s.username, filter)
		if err != nil {
			s.log.Error("ACL check failed", "filter", filter, "error", err)
			ok = false
		}
		if !ok {
			denied = true
			continue
		}
		granted[i] = degrade(qos[i])
	}

	if denied {
		codes := make([]uint8, len(topics))
		for i := range codes {
			codes[i] = SubackFailure
		}
		return s.sendSuback(pid, codes)
	}

	codes := make([]uint8, len(topics))
	for i, filter := range topics {
		g := granted[i]
		existing, present := s.subscriptions[filter]

		switch {
		case !present:
			if err := s.router.Subscribe(ctx, s, filter, g); err != nil {
				s.log.Error("router subscribe failed", "filter", filter, "error", err)
				codes[i] = SubackFailure
				continue
			}
			s.subscriptions[filter] = g
			if s.hooks != nil {
				s.hooks.Run(ctx, HookClientSubscribed, map[string]any{
					"client_id":      s.clientID,
					"correlation_id": s.correlationID,
					"filter":         filter,
					"qos":            g,
				})
			}
		case existing == g:
			s.log.Debug("duplicate subscription", "filter", filter, "qos", g)
		default:
			if err := s.router.SetQoS(ctx, s, filter, g); err != nil {
				s.log.Error("router set_qos failed", "filter", filter, "error", err)
				codes[i] = SubackFailure
				continue
			}
			s.subscriptions[filter] = g
		}
		codes[i] = subackCodeFor(g)
	}

	return s.sendSuback(pid, codes)
}

// unsubscribe implements spec §4.3's unsubscribe algorithm: missing
// entries are ignored, present entries are removed from the router and
// the local map, and UNSUBACK always replies regardless of what was
// actually removed.
func (s *Session) unsubscribe(ctx context.Context, pid uint16, topics []string) error {
	s.log.Info("UNSUBSCRIBE", "packet_id", pid, "topics", topics)

	if s.hooks != nil {
		s.hooks.Run(ctx, HookClientUnsubscribe, map[string]any{
			"client_id":      s.clientID,
			"correlation_id": s.correlationID,
			"topics":         topics,
		})
	}

	for _, filter := range topics {
		if _, present := s.subscriptions[filter]; !present {
			continue
		}
		if err := s.router.Unsubscribe(ctx, s, filter); err != nil {
			s.log.Error("router unsubscribe failed", "filter", filter, "error", err)
		}
		delete(s.subscriptions, filter)
		if s.hooks != nil {
			s.hooks.Run(ctx, HookClientUnsubscribed, map[string]any{
				"client_id":      s.clientID,
				"correlation_id": s.correlationID,
				"filter":         filter,
			})
		}
	}

	return s.sendUnsuback(pid)
}

func subackCodeFor(qos QoS) uint8 {
	if qos == AtLeastOnce {
		return SubackQoS1
	}
	return SubackQoS0
}

// applySubscribeRewrite reads the "topics"/"qos" entries back out of a
// client.subscribe hook's rewritten payload (spec §4.3 step 2, "may
// rewrite the table"). A missing or mistyped entry leaves the
// corresponding original slice untouched rather than failing the
// subscribe outright — a hook that doesn't care about one field
// shouldn't have to echo it back verbatim.
func applySubscribeRewrite(rewritten map[string]any, topics []string, qos []QoS) ([]string, []QoS) {
	if rewritten == nil {
		return topics, qos
	}
	if rt, ok := rewritten["topics"].([]string); ok {
		topics = rt
	}
	if rq, ok := rewritten["qos"].([]QoS); ok {
		qos = rq
	}
	return topics, qos
}
