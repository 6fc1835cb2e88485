package session

import "context"

// aclCache memoizes publish ACL decisions for the lifetime of a single
// session (spec §4.7). It is opt-in via WithACLCache (default on) and
// applies to publish checks only: subscribe decisions are re-checked
// every time, since a subscription is a standing grant that can be
// revoked out of band while a publish decision is a one-shot check on
// an already-transient action.
type aclCache struct {
	enabled bool
	entries map[string]bool
}

func newACLCache(enabled bool) *aclCache {
	return &aclCache{enabled: enabled, entries: make(map[string]bool)}
}

// checkPublish consults the cache before calling through to checker.
// A negative decision is cached too: a client that isn't allowed to
// publish to a topic now isn't expected to become allowed to later in
// the same session.
func (c *aclCache) checkPublish(ctx context.Context, checker ACLChecker, clientID, username, topic string) (bool, error) {
	if checker == nil {
		return true, nil
	}
	if c.enabled {
		if ok, hit := c.entries[topic]; hit {
			return ok, nil
		}
	}
	ok, err := checker.CheckACL(ctx, clientID, username, topic, ACLPublish)
	if err != nil {
		return false, err
	}
	if c.enabled {
		c.entries[topic] = ok
	}
	return ok, nil
}

// checkSubscribe always calls through to checker; subscribe decisions
// are never cached (spec §4.7).
func checkSubscribe(ctx context.Context, checker ACLChecker, clientID, username, filter string) (bool, error) {
	if checker == nil {
		return true, nil
	}
	return checker.CheckACL(ctx, clientID, username, filter, ACLSubscribe)
}
