package session

// CONNACK return codes (MQTT 3.1.1 §3.2.2.3). This core emits
// Accepted, UnacceptableProtocolVersion, IdentifierRejected and
// BadUsernameOrPassword; ServerUnavailable and NotAuthorized are named
// but never sent.
const (
	ConnackAccepted                    uint8 = 0
	ConnackUnacceptableProtocolVersion uint8 = 1
	ConnackIdentifierRejected          uint8 = 2
	ConnackServerUnavailable           uint8 = 3
	ConnackBadUsernameOrPassword       uint8 = 4
	ConnackNotAuthorized               uint8 = 5
)

// SUBACK return codes (MQTT 3.1.1 §3.9.3).
const (
	SubackQoS0    uint8 = 0x00
	SubackQoS1    uint8 = 0x01
	SubackQoS2    uint8 = 0x02
	SubackFailure uint8 = 0x80
)
