package session

import (
	"io"
	"log/slog"
	"time"
)

// sessionOptions holds the broker-side configuration a Session is
// constructed with. Everything here is a per-connection policy knob;
// nothing here is per-client state, which lives on Session itself
// (spec §3).
type sessionOptions struct {
	// MaxClientIDLen bounds the length of a client-supplied client id.
	// A CONNECT with a longer id is rejected with IdentifierRejected
	// (spec §4.1 step 2). 0 means DefaultMaxClientIDLen.
	MaxClientIDLen int

	// RetryInterval is how long an unacknowledged QoS 1 PUBLISH waits
	// before the session retransmits it (spec §4.4 "retransmission").
	RetryInterval time.Duration

	// CacheACL enables per-session memoization of publish ACL
	// decisions (spec §4.7). Defaults to true; subscribe decisions are
	// never cached regardless of this setting.
	CacheACL bool

	// WSInitialHeaders carries the HTTP headers observed on the
	// WebSocket upgrade request that produced this connection, if any.
	// Held as an opaque value: the session never inspects them and does
	// not pass them to hooks or to the Authenticator (spec §3
	// ws_initial_headers).
	WSInitialHeaders map[string][]string

	// Logger receives structured per-packet and lifecycle log records.
	// Defaults to a logger that discards all output.
	Logger *slog.Logger
}

func defaultOptions() *sessionOptions {
	return &sessionOptions{
		MaxClientIDLen: DefaultMaxClientIDLen,
		RetryInterval:  DefaultRetryIntervalS * time.Second,
		CacheACL:       true,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a Session at construction time.
type Option func(*sessionOptions)

// WithMaxClientIDLen overrides the maximum accepted client id length
// (default DefaultMaxClientIDLen). A CONNECT whose ClientID exceeds
// this is rejected with ConnackIdentifierRejected.
func WithMaxClientIDLen(n int) Option {
	return func(o *sessionOptions) {
		o.MaxClientIDLen = n
	}
}

// WithRetryInterval sets how long the delivery engine waits for a
// PUBACK before retransmitting an inflight QoS 1 message.
func WithRetryInterval(d time.Duration) Option {
	return func(o *sessionOptions) {
		o.RetryInterval = d
	}
}

// WithACLCache enables or disables per-session publish ACL
// memoization (default enabled). Subscribe ACL checks are never
// cached; this option affects publish checks only.
func WithACLCache(enabled bool) Option {
	return func(o *sessionOptions) {
		o.CacheACL = enabled
	}
}

// WithWSInitialHeaders records the HTTP headers seen on the WebSocket
// upgrade request on the session's options. No hook payload and no
// Authenticator call includes them.
func WithWSInitialHeaders(h map[string][]string) Option {
	return func(o *sessionOptions) {
		o.WSInitialHeaders = h
	}
}

// WithLogger sets the logger used for per-packet and lifecycle
// records. If not provided, log output is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *sessionOptions) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
