package notify

import "testing"

func TestNewHubStartsEmpty(t *testing.T) {
	h := NewHub()
	if h.ClientCount() != 0 {
		t.Fatalf("expected 0 clients, got %d", h.ClientCount())
	}
}

func TestBroadcastWithNoClientsIsANoop(t *testing.T) {
	h := NewHub()
	h.Broadcast("A1", 42) // must not panic with zero subscribers
}
