package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/clsys/mqsession/internal/packets"
)

// sessionState is the Session FSM's state (spec §4.1): AwaitingConnect
// → Connected → Terminated. There is no path back to AwaitingConnect.
type sessionState int

const (
	stateAwaitingConnect sessionState = iota
	stateConnected
	stateTerminated
)

func (s sessionState) String() string {
	switch s {
	case stateAwaitingConnect:
		return "AwaitingConnect"
	case stateConnected:
		return "Connected"
	case stateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// ShutdownReason names why a session is terminating (spec §4.1
// "shutdown(reason)"). Only Conflict suppresses will emission.
type ShutdownReason int

const (
	ReasonClientDisconnect ShutdownReason = iota
	ReasonTransportClosed
	ReasonProtocolError
	ReasonKeepaliveExpired
	ReasonConflict
)

func (r ShutdownReason) String() string {
	switch r {
	case ReasonClientDisconnect:
		return "client_disconnect"
	case ReasonTransportClosed:
		return "transport_closed"
	case ReasonProtocolError:
		return "protocol_error"
	case ReasonKeepaliveExpired:
		return "keepalive_expired"
	case ReasonConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// TimeoutKind distinguishes the timer events a Session reacts to
// (spec §4.1 "timeout(event)").
type TimeoutKind int

const (
	TimeoutAwaitingAck TimeoutKind = iota
	TimeoutKeepaliveExpired
)

// TimeoutEvent is delivered to Timeout by whatever actor owns real
// wall-clock scheduling for this session (spec §4.6: "the actor
// component that drives keepalive checks is external"). PacketID is
// only meaningful for TimeoutAwaitingAck.
type TimeoutEvent struct {
	Kind     TimeoutKind
	PacketID uint16
}

// Session is the per-connection MQTT protocol state machine. It owns
// no socket; callers feed it packets, timer fires, and router
// deliveries via Receive, Timeout, and Deliver, which serialize on mu
// — see package doc.
type Session struct {
	sender Sender
	auth   Authenticator
	acl    ACLChecker
	router Router
	reg    Registry
	idgen  IDGenerator
	hooks  HookRunner
	clock  Clock
	log    *slog.Logger
	opts   *sessionOptions

	// mu serializes Receive, Timeout, Deliver and Shutdown. The
	// session is conceptually a single-threaded actor (spec §5); mu
	// exists because the retransmit timer fires its Timeout call from
	// its own goroutine rather than from the caller's event loop.
	mu sync.Mutex

	state       sessionState
	peerAddress string

	correlationID string
	clientID      string
	cleanSession  bool
	protoVersion  uint8
	protoName     string
	username      string
	will          *Message
	keepalive     uint16
	connectedAt   time.Time

	subscriptions map[string]QoS
	inflight      []*inflightEntry
	awaitingAck   map[uint16]*inflightEntry
	idAlloc       packetIDAllocator
	aclCache      *aclCache
}

// New constructs a Session in AwaitingConnect, bound to sender for
// outbound packets and peerAddress for logging, using collaborators
// for everything outside this core's scope (spec §1).
func New(peerAddress string, sender Sender, collab Collaborators, opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	collab = collab.withDefaults()

	var correlationID string
	if collab.IDGen != nil {
		correlationID = collab.IDGen.CorrelationID()
	}

	return &Session{
		sender:        sender,
		auth:          collab.Auth,
		acl:           collab.ACL,
		router:        collab.Router,
		reg:           collab.Registry,
		idgen:         collab.IDGen,
		hooks:         collab.Hooks,
		clock:         collab.Clock,
		log:           o.Logger.With("correlation_id", correlationID),
		opts:          o,
		state:         stateAwaitingConnect,
		peerAddress:   peerAddress,
		correlationID: correlationID,
		subscriptions: make(map[string]QoS),
		awaitingAck:   make(map[uint16]*inflightEntry),
		aclCache:      newACLCache(o.CacheACL),
	}
}

// State reports the Session's current FSM state.
func (s *Session) State() sessionState { return s.state }

// ClientID returns the assigned client id, empty before CONNECT
// completes.
func (s *Session) ClientID() string { return s.clientID }

// Receive processes one parsed inbound packet (spec §4.1 "receive").
// A non-nil error means the caller should close the transport; this
// Session has no notion of reconnecting in place.
func (s *Session) Receive(ctx context.Context, pkt packets.Packet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateTerminated {
		return newSessionError(ErrNotConnected, "session terminated")
	}

	s.log.Info("recv", "type", packets.PacketNames[pkt.Type()], "peer", s.peerAddress)

	if _, isConnect := pkt.(*packets.ConnectPacket); isConnect {
		if s.state == stateConnected {
			return newSessionError(ErrBadConnect, s.clientID)
		}
		return s.handleConnect(ctx, pkt.(*packets.ConnectPacket))
	}

	if s.state != stateConnected {
		return newSessionError(ErrNotConnected, fmt.Sprintf("%T", pkt))
	}

	return s.dispatch(ctx, pkt)
}

func (s *Session) dispatch(ctx context.Context, pkt packets.Packet) error {
	switch p := pkt.(type) {
	case *packets.PublishPacket:
		if err := validatePublishTopic(p.Topic); err != nil {
			return err
		}
		return s.publishIngress(ctx, p.Topic, p.Payload, QoS(p.QoS), p.Retain, p.PacketID)

	case *packets.PubackPacket:
		s.handlePuback(ctx, p.PacketID)
		return nil

	case *packets.SubscribePacket:
		if err := validateSubscribeTopics(p.Topics); err != nil {
			return err
		}
		qos := make([]QoS, len(p.QoS))
		for i, q := range p.QoS {
			qos[i] = QoS(q)
		}
		return s.subscribe(ctx, p.PacketID, p.Topics, qos)

	case *packets.UnsubscribePacket:
		if err := validateSubscribeTopics(p.Topics); err != nil {
			return err
		}
		return s.unsubscribe(ctx, p.PacketID, p.Topics)

	case *packets.PingreqPacket:
		return s.sender.Send(&packets.PingrespPacket{})

	case *packets.DisconnectPacket:
		// A graceful DISCONNECT discards the will (MQTT 3.1.1 §3.1.2.5):
		// it is never published on a clean client-initiated close.
		s.will = nil
		s.shutdown(ctx, ReasonClientDisconnect, true)
		return nil

	default:
		return nil
	}
}

// Timeout delivers a timer event (spec §4.1 "timeout").
func (s *Session) Timeout(ctx context.Context, evt TimeoutEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateConnected {
		return
	}
	switch evt.Kind {
	case TimeoutAwaitingAck:
		s.retransmit(evt.PacketID)
	case TimeoutKeepaliveExpired:
		s.log.Warn("keepalive expired, closing", "client_id", s.clientID)
		s.shutdown(ctx, ReasonKeepaliveExpired, false)
	}
}

// Shutdown terminates the session (spec §4.1 "shutdown"). Safe to
// call more than once; calls after the first are no-ops.
func (s *Session) Shutdown(ctx context.Context, reason ShutdownReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdown(ctx, reason, false)
}

func (s *Session) shutdown(ctx context.Context, reason ShutdownReason, clientInitiated bool) {
	if s.state == stateTerminated {
		return
	}

	for _, e := range s.awaitingAck {
		e.timer.Stop()
	}

	if s.will != nil && reason != ReasonConflict && s.clientID != "" {
		if err := s.router.Publish(ctx, s, *s.will); err != nil {
			s.log.Error("will publish failed", "client_id", s.clientID, "error", err)
		}
	}

	// On Conflict, a replacement session has already registered this
	// client id; unregistering here would race with and clobber that
	// registration. The source comments this case out rather than
	// unregister, and this implementation preserves that (spec §9
	// "Registry takeover").
	if s.clientID != "" && s.reg != nil && reason != ReasonConflict {
		s.reg.Unregister(ctx, s.clientID)
	}

	if s.hooks != nil {
		s.hooks.Run(ctx, HookClientDisconnected, map[string]any{
			"client_id":      s.clientID,
			"correlation_id": s.correlationID,
			"reason":         reason.String(),
		})
	}

	s.state = stateTerminated
	s.log.Info("session terminated", "client_id", s.clientID, "reason", reason.String(), "client_initiated", clientInitiated)
}

func (s *Session) sendPublish(topic string, payload []byte, qos QoS, retain, dup bool, pid uint16) error {
	return s.sender.Send(&packets.PublishPacket{
		Dup:      dup,
		QoS:      uint8(qos),
		Retain:   retain,
		Topic:    topic,
		PacketID: pid,
		Payload:  payload,
	})
}

func (s *Session) sendPuback(pid uint16) error {
	return s.sender.Send(&packets.PubackPacket{PacketID: pid})
}

func (s *Session) sendSuback(pid uint16, codes []uint8) error {
	return s.sender.Send(&packets.SubackPacket{PacketID: pid, ReturnCodes: codes})
}

func (s *Session) sendUnsuback(pid uint16) error {
	return s.sender.Send(&packets.UnsubackPacket{PacketID: pid})
}
