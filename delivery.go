package session

import (
	"context"
	"time"
)

// inflightEntry is one unacknowledged QoS-1 egress message (spec §3
// "inflight" + "awaiting_ack").
type inflightEntry struct {
	packetID uint16
	msg      Message
	timer    *time.Timer
}

// publishIngress handles a PUBLISH arriving from the client (spec §4.4
// ingress). QoS 2 is rejected outright: this core never attempts
// exactly-once delivery.
func (s *Session) publishIngress(ctx context.Context, topic string, payload []byte, qos QoS, retain bool, pid uint16) error {
	if qos > AtLeastOnce {
		return newSessionError(ErrUnsupportedQoS2, topic)
	}

	allowed, err := s.aclCache.checkPublish(ctx, s.acl, s.clientID, s.username, topic)
	if err != nil {
		s.log.Error("ACL check failed", "topic", topic, "error", err)
		allowed = false
	}
	if !allowed {
		s.log.Info("publish denied by ACL, dropping", "topic", topic)
		return nil
	}

	msg := Message{Topic: topic, Payload: payload, QoS: qos, Retained: retain}
	if err := s.router.Publish(ctx, s, msg); err != nil {
		s.log.Error("router publish failed", "topic", topic, "error", err)
	}

	if qos == AtLeastOnce {
		return s.sendPuback(pid)
	}
	return nil
}

// handlePuback implements spec §4.4's PUBACK handling: cancel the
// retransmit timer, drop the inflight entry, fire message.acked. An
// ack for an unknown packet id is logged and ignored, never an error.
func (s *Session) handlePuback(ctx context.Context, pid uint16) {
	entry, ok := s.awaitingAck[pid]
	if !ok {
		s.log.Warn("PUBACK for unknown packet id", "packet_id", pid)
		return
	}
	entry.timer.Stop()
	delete(s.awaitingAck, pid)
	s.removeInflight(pid)

	if s.hooks != nil {
		s.hooks.Run(ctx, HookMessageAcked, map[string]any{
			"client_id":      s.clientID,
			"correlation_id": s.correlationID,
			"packet_id":      pid,
		})
	}
}

func (s *Session) removeInflight(pid uint16) {
	for i, e := range s.inflight {
		if e.packetID == pid {
			s.inflight = append(s.inflight[:i], s.inflight[i+1:]...)
			return
		}
	}
}

// Deliver implements spec §4.4 egress: the Router calls this when a
// message matching one of the session's subscriptions arrives.
func (s *Session) Deliver(ctx context.Context, topic string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateConnected {
		return nil
	}

	subQoS, subscribed := s.subscriptions[topic]
	if !subscribed {
		// Should not happen per spec §4.4 step 1, but fall through to
		// the message's own QoS rather than drop it silently.
		subQoS = degrade(msg.QoS)
	}

	effective := degrade(msg.QoS)
	if subQoS < effective {
		effective = subQoS
	}

	if effective == AtMostOnce {
		return s.sendPublish(topic, msg.Payload, AtMostOnce, msg.Retained, false, 0)
	}

	pid := s.idAlloc.nextID()
	if err := s.sendPublish(topic, msg.Payload, AtLeastOnce, msg.Retained, false, pid); err != nil {
		return err
	}

	entry := &inflightEntry{packetID: pid, msg: msg}
	entry.timer = s.armRetransmit(pid)
	s.inflight = append(s.inflight, entry)
	s.awaitingAck[pid] = entry
	return nil
}

// armRetransmit starts the retransmit timer for an inflight packet id
// (spec §4.4 "Retransmission"), scheduled through the Clock
// collaborator so tests can control retransmission deadlines without
// a real wall-clock wait. The timer fires on its own goroutine and its
// callback calls Timeout, which takes the session mutex before
// touching session state.
func (s *Session) armRetransmit(pid uint16) *time.Timer {
	return s.clock.AfterFunc(s.opts.RetryInterval, func() {
		s.Timeout(context.Background(), TimeoutEvent{Kind: TimeoutAwaitingAck, PacketID: pid})
	})
}

// retransmit implements spec §4.4's "Retransmission" algorithm for one
// {AwaitingAck, pid} timer fire.
func (s *Session) retransmit(pid uint16) {
	entry, ok := s.awaitingAck[pid]
	if !ok {
		s.log.Debug("stale retransmit timer, ignoring", "packet_id", pid)
		return
	}

	var found *inflightEntry
	for _, e := range s.inflight {
		if e.packetID == pid {
			found = e
			break
		}
	}
	if found == nil {
		s.log.Error("awaiting_ack/inflight inconsistency", "packet_id", pid)
		return
	}

	if err := s.sendPublish(found.msg.Topic, found.msg.Payload, AtLeastOnce, found.msg.Retained, true, pid); err != nil {
		s.log.Error("retransmit failed", "packet_id", pid, "error", err)
		return
	}
	entry.timer = s.armRetransmit(pid)
	s.awaitingAck[pid] = entry
}
