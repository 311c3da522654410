package cache

import (
	"testing"
	"time"
)

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewTTLCacheWithClock(func() time.Time { return now })

	if err := c.SetBytes("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	b, ok, err := c.GetBytes("k")
	if err != nil || !ok || string(b) != "v" {
		t.Fatalf("get before expiry = %q/%v/%v", b, ok, err)
	}

	now = now.Add(61 * time.Second)
	if _, ok, _ := c.GetBytes("k"); ok {
		t.Error("entry survived past its TTL")
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewTTLCacheWithClock(func() time.Time { return now })

	c.Set("k", 42, 0)
	now = now.Add(24 * time.Hour)
	if v, ok := c.Get("k"); !ok || v.(int) != 42 {
		t.Errorf("zero-ttl entry missing, got %v/%v", v, ok)
	}
}

func TestTTLCacheMissingKey(t *testing.T) {
	c := NewTTLCache()
	if _, ok, _ := c.GetBytes("absent"); ok {
		t.Error("missing key reported present")
	}
}
