package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetOrFetchCachesUntilInvalidated(t *testing.T) {
	c := New(0)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	v, err := c.GetOrFetch("athlete:1", fetch)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	if v.(int) != 1 {
		t.Fatalf("expected first fetch result, got %v", v)
	}

	// Second read must not refetch.
	v, _ = c.GetOrFetch("athlete:1", fetch)
	if v.(int) != 1 || calls != 1 {
		t.Fatalf("expected cached value, got %v after %d calls", v, calls)
	}

	c.Invalidate("athlete:1")

	v, _ = c.GetOrFetch("athlete:1", fetch)
	if v.(int) != 2 || calls != 2 {
		t.Fatalf("expected refetch after invalidation, got %v after %d calls", v, calls)
	}
}

func TestGetOrFetchErrorDoesNotCache(t *testing.T) {
	c := New(0)

	boom := errors.New("db down")
	_, err := c.GetOrFetch("k", func() (interface{}, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}

	if _, ok := c.Peek("k"); ok {
		t.Error("a failed fetch must not populate the cache")
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(0)

	for _, k := range []string{"dashboard:athlete:1", "dashboard:athlete:2", "dashboard:company:1"} {
		key := k
		_, _ = c.GetOrFetch(key, func() (interface{}, error) { return key, nil })
	}

	c.InvalidatePrefix("dashboard:athlete:")

	if _, ok := c.Peek("dashboard:athlete:1"); ok {
		t.Error("prefixed key should be stale")
	}
	if _, ok := c.Peek("dashboard:athlete:2"); ok {
		t.Error("prefixed key should be stale")
	}
	if _, ok := c.Peek("dashboard:company:1"); !ok {
		t.Error("unrelated key should stay fresh")
	}
}

func TestMaxAgeExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)

	_, _ = c.GetOrFetch("k", func() (interface{}, error) { return 1, nil })
	if _, ok := c.Peek("k"); !ok {
		t.Fatal("fresh entry should be visible")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Peek("k"); ok {
		t.Error("entry past max age should be stale")
	}
}
