package ratelimit

import "testing"

func TestAllowConsumesBucket(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0) {
			t.Fatalf("call %d denied within capacity", i)
		}
	}
	if l.Allow("k", 3, 0) {
		t.Error("allowed past capacity with no refill")
	}
}

func TestAllowKeysIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatal("first key denied")
	}
	if l.Allow("a", 1, 0) {
		t.Error("first key not exhausted")
	}
	if !l.Allow("b", 1, 0) {
		t.Error("second key affected by first")
	}
}
