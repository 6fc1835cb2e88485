package session

import (
	"strings"
	"unicode/utf8"
)

// matchTopic reports whether topic matches filter, honoring the MQTT
// wildcards '+' (single level) and '#' (multi level, trailing only).
func matchTopic(filter, topic string) bool {
	// MQTT-4.7.2-1: a filter starting with a wildcard never matches a
	// topic beginning with '$'.
	if len(topic) > 0 && topic[0] == '$' {
		if len(filter) > 0 && (filter[0] == '+' || filter[0] == '#') {
			return false
		}
	}

	fIdx, tIdx := 0, 0
	fLen, tLen := len(filter), len(topic)

	for fIdx <= fLen {
		var fLevel string
		var fNext int

		if idx := strings.IndexByte(filter[fIdx:], '/'); idx >= 0 {
			fNext = fIdx + idx
			fLevel = filter[fIdx:fNext]
		} else {
			fNext = fLen
			fLevel = filter[fIdx:]
		}

		if fLevel == "#" {
			return true
		}

		if tIdx > tLen {
			return false
		}

		var tLevel string
		var tNext int

		if idx := strings.IndexByte(topic[tIdx:], '/'); idx >= 0 {
			tNext = tIdx + idx
			tLevel = topic[tIdx:tNext]
		} else {
			tNext = tLen
			tLevel = topic[tIdx:]
		}

		if fLevel == "+" {
			// matches this level unconditionally
		} else if fLevel != tLevel {
			return false
		}

		if fNext == fLen {
			fIdx = fLen + 1
		} else {
			fIdx = fNext + 1
		}

		if tNext == tLen {
			tIdx = tLen + 1
		} else {
			tIdx = tNext + 1
		}
	}

	return tIdx > tLen
}

// Defaults used when a broker-level limit is unconfigured.
const (
	DefaultMaxTopicLength  = 65535
	DefaultMaxClientIDLen  = 1024
	DefaultRetryIntervalS  = 30
)

// isValidTopicName reports whether topic is usable as a PUBLISH topic:
// non-empty, no wildcards, no null byte, valid UTF-8.
func isValidTopicName(topic string) bool {
	if topic == "" {
		return false
	}
	if strings.ContainsAny(topic, "+#") {
		return false
	}
	if strings.Contains(topic, "\x00") {
		return false
	}
	return utf8.ValidString(topic)
}

// isValidTopicFilter reports whether filter is usable as a
// SUBSCRIBE/UNSUBSCRIBE filter: non-empty, valid UTF-8, no null byte,
// and any wildcard occupies a whole level ('+') or is the final,
// standalone level ('#').
func isValidTopicFilter(filter string) bool {
	if filter == "" {
		return false
	}
	if strings.Contains(filter, "\x00") {
		return false
	}
	if !utf8.ValidString(filter) {
		return false
	}

	parts := strings.Split(filter, "/")
	for i, part := range parts {
		if strings.Contains(part, "+") && part != "+" {
			return false
		}
		if strings.Contains(part, "#") {
			if part != "#" {
				return false
			}
			if i != len(parts)-1 {
				return false
			}
		}
	}
	return true
}
