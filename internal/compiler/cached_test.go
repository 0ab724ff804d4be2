package compiler_test

import (
	"path/filepath"
	"testing"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/buildcache"
	"github.com/funvibe/matchc/internal/compiler"
)

func TestCompileMatchCachedMissThenHit(t *testing.T) {
	cache, err := buildcache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("opening build cache: %v", err)
	}
	defer cache.Close()

	key := buildcache.KeyOf("scrutinee", "literal-arm")

	first, hit, err := compiler.CompileMatchCached(cache, key, fakeOracle{}, "matchcCompiled0", "any",
		&ast.Identifier{Name: "scrutinee"}, twoArms())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit {
		t.Fatalf("expected a miss on the first call")
	}

	second, hit, err := compiler.CompileMatchCached(cache, key, fakeOracle{}, "matchcCompiled0", "any",
		&ast.Identifier{Name: "scrutinee"}, twoArms())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit {
		t.Fatalf("expected a hit on the second call with the same key")
	}
	if second.Source != first.Source {
		t.Fatalf("expected the cached source to match the original compilation")
	}
}
