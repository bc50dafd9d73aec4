package mem

import (
	"testing"
	"time"
)

func TestTTLStore(t *testing.T) {
	t.Run("Given a stored key When read before expiry Then the value comes back", func(t *testing.T) {
		store := NewTTLStore()
		store.Set("k", "v", time.Minute)
		got, ok := store.Get("k")
		if !ok || got != "v" {
			t.Fatalf("Get = (%q, %v), want (v, true)", got, ok)
		}
		if !store.Has("k") {
			t.Error("Has should report the live key")
		}
	})

	t.Run("Given an expired key When read Then it is gone", func(t *testing.T) {
		store := NewTTLStore()
		store.Set("k", "v", -time.Second)
		if _, ok := store.Get("k"); ok {
			t.Error("expired key must not be returned")
		}
		if store.Has("k") {
			t.Error("Has must not report an expired key")
		}
	})

	t.Run("Given a rewritten key Then the newest value and TTL win", func(t *testing.T) {
		store := NewTTLStore()
		store.Set("k", "old", -time.Second)
		store.Set("k", "new", time.Minute)
		got, ok := store.Get("k")
		if !ok || got != "new" {
			t.Fatalf("Get = (%q, %v), want (new, true)", got, ok)
		}
	})
}
