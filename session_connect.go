package session

import (
	"context"

	"github.com/clsys/mqsession/internal/packets"
)

const clientIDPrefix = "emqttd_"

// handleConnect implements spec §4.1's CONNECT processing steps 1-5.
func (s *Session) handleConnect(ctx context.Context, p *packets.ConnectPacket) error {
	s.protoVersion = p.ProtocolLevel
	s.protoName = p.ProtocolName
	s.cleanSession = p.CleanSession
	s.keepalive = p.KeepAlive
	s.username = p.Username

	if p.WillFlag {
		s.will = &Message{
			Topic:    p.WillTopic,
			Payload:  p.WillMessage,
			QoS:      degrade(QoS(p.WillQoS)),
			Retained: p.WillRetain,
		}
	}

	// Step 2: protocol identity.
	if !isRecognizedProtocol(p.ProtocolLevel, p.ProtocolName) {
		return s.rejectConnect(ConnackUnacceptableProtocolVersion, "unrecognized protocol")
	}

	// Step 3: client id validation (spec §4.1 step 3).
	clientID := p.ClientID
	maxLen := s.opts.MaxClientIDLen
	if maxLen <= 0 {
		maxLen = DefaultMaxClientIDLen
	}
	switch {
	case len(clientID) >= 1 && len(clientID) <= maxLen:
		// accept as-is
	case clientID == "" && !p.CleanSession:
		return s.rejectConnect(ConnackIdentifierRejected, "empty client id with clean_session=false")
	case clientID == "":
		// MQTT 3.1.1 (and, per this implementation's reading of the
		// open question in spec §9, MQTT 3.1 too) accepts an empty id
		// here; one is synthesized in step 5. Nothing in the spec
		// requires rejecting 3.1's empty+clean=true case, and the
		// client-id assignment step runs unconditionally before any
		// protocol-version branch, so this core treats both protocol
		// variants the same way.
	default:
		return s.rejectConnect(ConnackIdentifierRejected, "client id too long")
	}

	// Step 4: authenticate.
	if s.auth != nil {
		result, err := s.auth.Authenticate(ctx, clientID, p.Username, p.Password)
		if err != nil || result != AuthOK {
			return s.rejectConnect(ConnackBadUsernameOrPassword, "authentication failed")
		}
	}

	// Step 5: accept.
	if clientID == "" {
		clientID = clientIDPrefix + s.idgen.NewID()
	}
	s.clientID = clientID

	if s.reg != nil {
		if err := s.reg.Register(ctx, clientID, s); err != nil {
			s.log.Error("registry register failed", "client_id", clientID, "error", err)
		}
	}

	s.connectedAt = s.clock.Now()
	s.state = stateConnected

	if s.hooks != nil {
		s.hooks.Run(ctx, HookClientConnected, map[string]any{
			"client_id":      clientID,
			"correlation_id": s.correlationID,
			"return_code":    ConnackAccepted,
		})
	}

	return s.sender.Send(&packets.ConnackPacket{SessionPresent: false, ReturnCode: ConnackAccepted})
}

// rejectConnect replies with a non-accept CONNACK and returns
// ErrRejected: the transport closes the connection after flushing the
// CONNACK (spec §7).
func (s *Session) rejectConnect(code uint8, context string) error {
	if err := s.sender.Send(&packets.ConnackPacket{SessionPresent: false, ReturnCode: code}); err != nil {
		s.log.Error("failed to send rejecting CONNACK", "error", err)
	}
	return newSessionError(ErrRejected, context)
}

// isRecognizedProtocol implements spec §6's accepted protocol
// identifiers: {3, "MQIsdp"} (MQTT 3.1) and {4, "MQTT"} (MQTT 3.1.1).
func isRecognizedProtocol(level uint8, name string) bool {
	switch {
	case level == 3 && name == "MQIsdp":
		return true
	case level == 4 && name == "MQTT":
		return true
	default:
		return false
	}
}
