package session

import (
	"math"
	"time"
)

// KeepaliveInterval returns the deadline an external watchdog should
// arm after seeing traffic from this client: ceil(keepalive_seconds *
// 1.25), per spec §4.6. A keepalive of 0 disables the check and this
// returns 0.
//
// Arming and resetting that watchdog on every inbound packet is the
// responsibility of the transport adapter (spec §4.6: "the actor
// component that drives keepalive checks is external and not part of
// this core"); this Session only computes the interval and reacts to
// TimeoutKeepaliveExpired once the watchdog fires.
func (s *Session) KeepaliveInterval() time.Duration {
	return keepaliveArmDuration(s.keepalive)
}

func keepaliveArmDuration(seconds uint16) time.Duration {
	if seconds == 0 {
		return 0
	}
	armSeconds := math.Ceil(float64(seconds) * 1.25)
	return time.Duration(armSeconds) * time.Second
}
