// Package session implements the per-connection MQTT 3.1/3.1.1 protocol
// state machine of a publish/subscribe broker: the server-side
// component that owns one client's session from transport accept to
// termination.
//
// A Session is a single-threaded cooperative actor. It owns no socket;
// a transport adapter feeds it decoded packets, timer fires, and Router
// deliveries through Receive, Timeout, and Deliver, and the Session
// calls back into its Sender collaborator to write packets out.
// Receive, Timeout, Deliver and Shutdown serialize on an internal
// mutex, so they may be called from different goroutines; the
// retransmit timer armed through Clock.AfterFunc calls Timeout from its
// own goroutine. The State and ClientID accessors do not take that
// mutex.
//
// # Scope
//
// In scope: connection lifecycle (CONNECT/CONNACK, DISCONNECT,
// registry takeover), packet dispatch and structural validation,
// subscription bookkeeping, publish ingress and egress at QoS 0 and 1
// (with QoS 2 explicitly rejected), inflight tracking and
// retransmission, the packet identifier allocator, keepalive timeout
// and will emission, and an opt-in per-session ACL decision cache.
//
// Out of scope, delegated to collaborators passed at construction:
// wire framing and packet parsing (internal/packets), topic routing,
// the retained-message store, the client registry, authentication and
// ACL backends, metrics and transport. This package never dials a
// socket or binds a listener.
//
// Non-goals: session persistence across process restarts, clustering
// or replication, QoS 2, and MQTT 5 features (reason strings,
// properties, enhanced auth, topic aliases).
//
// # Basic use
//
//	s := session.New(peerAddr, sender, collaborators,
//	    session.WithMaxClientIDLen(64),
//	    session.WithRetryInterval(20*time.Second))
//
//	for pkt := range inbound {
//	    if err := s.Receive(ctx, pkt); err != nil {
//	        log.Printf("session error: %v", err)
//	        break
//	    }
//	}
//	s.Shutdown(ctx, session.ReasonTransportClosed)
package session
