package session

// Message is the payload of a single application publish, passed to
// deliver (egress, from the Router) and produced internally from an
// inbound PUBLISH (ingress, to the Router). It carries no v5
// properties: this core targets MQTT 3.1.1 only.
type Message struct {
	// Topic the message was published to. On ingress it is always a
	// topic name: a PUBLISH topic with wildcards is rejected before a
	// Message is constructed. The will topic from CONNECT is not
	// validated.
	Topic string

	// Payload is the raw application payload, unexamined by the
	// session.
	Payload []byte

	// QoS is the level the message was published at. Ingress messages
	// and the will are at AtMostOnce or AtLeastOnce; a Message handed to
	// Deliver may carry ExactlyOnce, which Deliver degrades (see
	// degrade).
	QoS QoS

	// Retained marks a message the Router should hand to the retained
	// store. The session never stores retained messages itself; it
	// only carries the flag to and from the Router.
	Retained bool
}
