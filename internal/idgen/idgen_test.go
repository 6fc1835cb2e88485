package idgen

import "testing"

func TestNewIDMonotonicAndUnique(t *testing.T) {
	g := &Generator{}
	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 1000; i++ {
		id := g.NewID()
		if seen[id] {
			t.Fatalf("duplicate id %q at iteration %d", id, i)
		}
		seen[id] = true
		if id == prev {
			t.Fatalf("id did not advance: %q", id)
		}
		prev = id
	}
}

func TestCorrelationIDDistinctFromClientIDs(t *testing.T) {
	g := &Generator{}
	cid := g.NewID()
	corr := g.CorrelationID()
	if cid == corr {
		t.Fatalf("correlation id collided with client id suffix: %q", cid)
	}
	if len(corr) < 30 {
		t.Fatalf("expected a UUID-shaped correlation id, got %q", corr)
	}
}

func TestNewIDConcurrentUnique(t *testing.T) {
	g := &Generator{}
	const n = 200
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		go func() { results <- g.NewID() }()
	}
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id := <-results
		if seen[id] {
			t.Fatalf("duplicate id %q under concurrent use", id)
		}
		seen[id] = true
	}
}
