package session

import "testing"

func TestMatchTopic(t *testing.T) {
	cases := []struct {
		filter, topic string
		want          bool
	}{
		{"a/b", "a/b", true},
		{"a/+", "a/b", true},
		{"a/+", "a/b/c", false},
		{"a/#", "a/b/c", true},
		{"a/#", "a", true},
		{"#", "a/b", true},
		{"#", "$SYS/stats", false},
		{"+/monitor", "$SYS/monitor", false},
		{"sport/+/player1", "sport/tennis/player1", true},
		{"sport/tennis/#", "sport/tennis", true},
		{"a/b", "a/c", false},
	}
	for _, c := range cases {
		if got := matchTopic(c.filter, c.topic); got != c.want {
			t.Errorf("matchTopic(%q, %q) = %v, want %v", c.filter, c.topic, got, c.want)
		}
	}
}

func TestIsValidTopicName(t *testing.T) {
	valid := []string{"a/b/c", "sensor", "a/b/"}
	invalid := []string{"", "a/+/c", "a/#", "a\x00b"}

	for _, v := range valid {
		if !isValidTopicName(v) {
			t.Errorf("expected %q to be a valid topic name", v)
		}
	}
	for _, v := range invalid {
		if isValidTopicName(v) {
			t.Errorf("expected %q to be an invalid topic name", v)
		}
	}
}

func TestIsValidTopicFilter(t *testing.T) {
	valid := []string{"a/b", "a/+/c", "a/#", "#", "+"}
	invalid := []string{"", "a+/b", "a/#/b", "a/b#"}

	for _, v := range valid {
		if !isValidTopicFilter(v) {
			t.Errorf("expected %q to be a valid filter", v)
		}
	}
	for _, v := range invalid {
		if isValidTopicFilter(v) {
			t.Errorf("expected %q to be an invalid filter", v)
		}
	}
}
