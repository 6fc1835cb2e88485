package session

// validatePublishTopic checks a PUBLISH topic: it must be a topic
// name, never a filter (spec §4.2). Wildcards in a PUBLISH topic are a
// protocol violation regardless of configured length limits.
func validatePublishTopic(topic string) error {
	if !isValidTopicName(topic) {
		return newSessionError(ErrBadTopic, topic)
	}
	return nil
}

// validateSubscribeTopics checks a SUBSCRIBE/UNSUBSCRIBE topic list:
// non-empty, and every entry a structurally valid filter (spec §4.2).
func validateSubscribeTopics(topics []string) error {
	if len(topics) == 0 {
		return newSessionError(ErrEmptyTopics, "")
	}
	for _, t := range topics {
		if !isValidTopicFilter(t) {
			return newSessionError(ErrBadTopic, t)
		}
	}
	return nil
}
