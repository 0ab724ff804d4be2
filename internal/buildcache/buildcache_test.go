package buildcache_test

import (
	"path/filepath"
	"testing"

	"github.com/funvibe/matchc/internal/buildcache"
)

func open(t *testing.T) *buildcache.Cache {
	t.Helper()
	c, err := buildcache.Open(filepath.Join(t.TempDir(), "matchc-build-cache.db"))
	if err != nil {
		t.Fatalf("opening build cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetOnEmptyCacheIsCleanMiss(t *testing.T) {
	c := open(t)
	_, hit, err := c.Get("nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit {
		t.Fatalf("expected a miss on an empty cache")
	}
}

func TestPutThenGetRoundTrips(t *testing.T) {
	c := open(t)
	key := buildcache.KeyOf("scrutinee", "arms-block", "matchcCompiled0")
	if err := c.Put(key, []byte("func matchcCompiled0() any { return nil }"), []byte("no warnings"), 1700000000); err != nil {
		t.Fatalf("unexpected error on Put: %v", err)
	}
	entry, hit, err := c.Get(key)
	if err != nil {
		t.Fatalf("unexpected error on Get: %v", err)
	}
	if !hit {
		t.Fatalf("expected a hit after Put")
	}
	if string(entry.Emitted) != "func matchcCompiled0() any { return nil }" {
		t.Fatalf("unexpected emitted bytes: %s", entry.Emitted)
	}
}

func TestPutOverwritesExistingKey(t *testing.T) {
	c := open(t)
	key := buildcache.KeyOf("scrutinee", "arms-block", "matchcCompiled0")
	if err := c.Put(key, []byte("v1"), nil, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Put(key, []byte("v2"), nil, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, hit, err := c.Get(key)
	if err != nil || !hit {
		t.Fatalf("expected a hit, got hit=%v err=%v", hit, err)
	}
	if string(entry.Emitted) != "v2" {
		t.Fatalf("expected the second Put to win, got %s", entry.Emitted)
	}
}

func TestKeyOfIsDeterministicAndPositionSensitive(t *testing.T) {
	a := buildcache.KeyOf("x", "y")
	b := buildcache.KeyOf("x", "y")
	c := buildcache.KeyOf("xy")
	if a != b {
		t.Fatalf("expected KeyOf to be deterministic for identical inputs")
	}
	if a == c {
		t.Fatalf("expected KeyOf to distinguish (\"x\",\"y\") from (\"xy\")")
	}
}
