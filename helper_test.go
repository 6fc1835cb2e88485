package session

import (
	"context"
	"time"

	"github.com/clsys/mqsession/internal/packets"
)

// fakeSender records every packet handed to Send, in order.
type fakeSender struct {
	sent []packets.Packet
}

func (f *fakeSender) Send(pkt packets.Packet) error {
	f.sent = append(f.sent, pkt)
	return nil
}

func (f *fakeSender) last() packets.Packet {
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

// fakeAuth always returns a fixed result.
type fakeAuth struct {
	result AuthResult
	err    error
}

func (f *fakeAuth) Authenticate(ctx context.Context, clientID, username, password string) (AuthResult, error) {
	return f.result, f.err
}

// fakeACL allows everything unless topic is in denied.
type fakeACL struct {
	denied map[string]bool
	calls  []string
}

func (f *fakeACL) CheckACL(ctx context.Context, clientID, username, topic string, action ACLAction) (bool, error) {
	f.calls = append(f.calls, topic)
	if f.denied[topic] {
		return false, nil
	}
	return true, nil
}

// fakeRouter records publish/subscribe/set_qos/unsubscribe calls.
type fakeRouter struct {
	published  []Message
	subscribed []string
	setQoS     []string
	unsubbed   []string
	failSubFor map[string]bool
}

func (f *fakeRouter) Publish(ctx context.Context, from *Session, msg Message) error {
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeRouter) Subscribe(ctx context.Context, s *Session, filter string, qos QoS) error {
	if f.failSubFor[filter] {
		return errTest
	}
	f.subscribed = append(f.subscribed, filter)
	return nil
}

func (f *fakeRouter) SetQoS(ctx context.Context, s *Session, filter string, qos QoS) error {
	f.setQoS = append(f.setQoS, filter)
	return nil
}

func (f *fakeRouter) Unsubscribe(ctx context.Context, s *Session, filter string) error {
	f.unsubbed = append(f.unsubbed, filter)
	return nil
}

var errTest = &SessionError{Kind: ErrBadTopic, Context: "test"}

// fakeRegistry records register/unregister calls.
type fakeRegistry struct {
	registered   []string
	unregistered []string
}

func (f *fakeRegistry) Register(ctx context.Context, clientID string, s *Session) error {
	f.registered = append(f.registered, clientID)
	return nil
}

func (f *fakeRegistry) Unregister(ctx context.Context, clientID string) {
	f.unregistered = append(f.unregistered, clientID)
}

// fakeIDGen returns a fixed client id and a fixed correlation id.
type fakeIDGen struct{ id string }

func (f *fakeIDGen) NewID() string         { return f.id }
func (f *fakeIDGen) CorrelationID() string { return "corr-" + f.id }

// fakeHooks records every event fired and can be configured to rewrite
// (or claim) a specific event's payload.
type fakeHooks struct {
	events   []string
	rewrites map[string]map[string]any
	claims   map[string]bool
}

func (f *fakeHooks) Run(ctx context.Context, event string, data map[string]any) (map[string]any, bool) {
	f.events = append(f.events, event)
	if rw, ok := f.rewrites[event]; ok {
		return rw, f.claims[event]
	}
	return nil, f.claims[event]
}

// fakeClock returns a fixed time and never fires the AfterFunc
// callback on its own: tests drive retransmission deterministically by
// calling Session.Timeout directly instead of racing a real timer.
type fakeClock struct{ now time.Time }

func (f fakeClock) Now() time.Time { return f.now }
func (f fakeClock) AfterFunc(d time.Duration, fn func()) *time.Timer {
	return time.NewTimer(24 * time.Hour)
}

func newTestSession(opts ...Option) (*Session, *fakeSender, *fakeRouter, *fakeRegistry) {
	sender := &fakeSender{}
	router := &fakeRouter{failSubFor: map[string]bool{}}
	reg := &fakeRegistry{}
	collab := Collaborators{
		Auth:     &fakeAuth{result: AuthOK},
		ACL:      &fakeACL{denied: map[string]bool{}},
		Router:   router,
		Registry: reg,
		IDGen:    &fakeIDGen{id: "1"},
		Hooks:    &fakeHooks{},
		Clock:    fakeClock{now: time.Unix(0, 0)},
	}
	s := New("127.0.0.1:9999", sender, collab, opts...)
	return s, sender, router, reg
}

func connectPacket(clientID string, clean bool) *packets.ConnectPacket {
	return &packets.ConnectPacket{
		ProtocolName:  "MQTT",
		ProtocolLevel: 4,
		CleanSession:  clean,
		ClientID:      clientID,
		KeepAlive:     60,
	}
}
