package session

import (
	"context"
	"time"

	"github.com/clsys/mqsession/internal/packets"
)

// Sender writes a fully encoded packet out on the transport. It is the
// only way a Session produces bytes; the Session never touches a
// net.Conn directly (spec §1, "transport" is out of scope).
type Sender interface {
	Send(pkt packets.Packet) error
}

// AuthResult is the outcome of an Authenticator check.
type AuthResult int

const (
	AuthOK AuthResult = iota
	AuthBadCredentials
	AuthNotAuthorized
)

// Authenticator validates CONNECT credentials. It is the external
// collaborator behind spec §6's "auth(client_info, password) -> ok |
// {error, reason}" contract; this package never stores or compares
// credentials itself.
type Authenticator interface {
	Authenticate(ctx context.Context, clientID, username, password string) (AuthResult, error)
}

// ACLAction distinguishes a publish check from a subscribe check, since
// subscribe decisions are never cached (spec §4.7).
type ACLAction int

const (
	ACLPublish ACLAction = iota
	ACLSubscribe
)

// ACLChecker authorizes a single topic access. A Session calls this at
// most once per (action, topic) pair when the ACL cache is enabled and
// the action is ACLPublish; ACLSubscribe checks always call through.
type ACLChecker interface {
	CheckACL(ctx context.Context, clientID, username, topic string, action ACLAction) (bool, error)
}

// Router is the external publish/subscribe fan-out collaborator (spec
// §1, "topic router" is out of scope). Publish hands an ingress
// message to the router for distribution to other sessions; Subscribe
// and Unsubscribe register and deregister this session's interest.
// SetQoS re-grants an existing subscription at a new QoS without
// touching the router's interest set (spec §6 "router.set_qos(filter,
// client_id, qos)", §4.3 step 3). Deliver is called back by the router
// (via the Registry/Router wiring, not by this package) when a
// matching message arrives for one of this session's subscriptions.
type Router interface {
	Publish(ctx context.Context, from *Session, msg Message) error
	Subscribe(ctx context.Context, s *Session, filter string, qos QoS) error
	SetQoS(ctx context.Context, s *Session, filter string, qos QoS) error
	Unsubscribe(ctx context.Context, s *Session, filter string) error
}

// Registry is the client-id → Session directory (spec §1, "session
// registry" is out of scope). Register implements takeover: if a
// session with the same client id is already registered, the registry
// is responsible for shutting down the prior session with a Conflict
// reason before returning.
type Registry interface {
	Register(ctx context.Context, clientID string, s *Session) error
	Unregister(ctx context.Context, clientID string)
}

// IDGenerator produces the server-assigned suffix used when a CONNECT
// arrives with an empty client id (spec §4.1 step 2, "emqttd_" prefix
// convention), plus an opaque correlation id used to tie one
// connection's log lines and hook payloads together across its
// lifetime. Kept as a collaborator rather than a hardcoded google/uuid
// call so tests can supply deterministic ids.
type IDGenerator interface {
	NewID() string
	CorrelationID() string
}

// HookRunner invokes the broker's lifecycle hooks (spec §6 "hooks.run
// (name, args, payload) -> payload'"). A nil HookRunner is valid;
// Session treats every Run call as best-effort and never fails an
// operation because a hook errored. Run returns the (possibly
// rewritten) payload and whether some hook claimed the event; callers
// that can act on a rewrite (e.g. subscribe's topic/QoS table) must
// apply the returned payload themselves.
type HookRunner interface {
	Run(ctx context.Context, event string, data map[string]any) (rewritten map[string]any, claimed bool)
}

// Clock abstracts time.Now and timer construction so the connect
// timestamp and retransmission deadlines are test-controllable (spec
// §4.4): AfterFunc is what armRetransmit uses to schedule a timeout
// event instead of calling time.AfterFunc directly. Keepalive timing
// does not go through Clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) *time.Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
func (realClock) AfterFunc(d time.Duration, f func()) *time.Timer {
	return time.AfterFunc(d, f)
}

// Collaborators bundles every external dependency a Session needs
// beyond its Sender, grouped because they are almost always supplied
// together by the broker that owns the Session (spec §6).
type Collaborators struct {
	Auth     Authenticator
	ACL      ACLChecker
	Router   Router
	Registry Registry
	IDGen    IDGenerator
	Hooks    HookRunner
	Clock    Clock
}

func (c Collaborators) withDefaults() Collaborators {
	if c.Clock == nil {
		c.Clock = realClock{}
	}
	return c
}
