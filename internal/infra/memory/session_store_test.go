package memory

import "testing"

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := store.GetOrCreate("s1")
	if session == nil {
		t.Fatalf("expected session")
	}
	if again := store.GetOrCreate("s1"); again != session {
		t.Fatalf("expected same session instance")
	}
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("expected session present")
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
}
