package compiler

import (
	"strings"
	"time"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/buildcache"
	"github.com/funvibe/matchc/internal/diagnostics"
	"github.com/funvibe/matchc/internal/typesystem"
)

// CompileMatchCached wraps CompileMatch with internal/buildcache: key
// identifies this exact (scrutinee, arms, entry-point shape) compilation
// — callers build it with buildcache.KeyOf over a stable textual
// rendering of the scrutinee and arms ASTs. A hit skips C2-C7 entirely
// and returns the previously emitted source; a miss compiles normally and
// stores the result for next time. Warnings are not replayed on a cache
// hit — they were already surfaced to the developer the first time this
// exact match expression compiled, and the cache's whole point is to
// avoid redoing that work.
func CompileMatchCached(cache *buildcache.Cache, key string, oracle typesystem.Oracle, funcName, resultType string, scrutinee ast.Expression, arms []*ast.MatchArm) (out *Output, hit bool, err error) {
	entry, hit, err := cache.Get(key)
	if err != nil {
		return nil, false, err
	}
	if hit {
		return &Output{Source: string(entry.Emitted)}, true, nil
	}

	out, err = CompileMatch(oracle, funcName, resultType, scrutinee, arms)
	if err != nil {
		return nil, false, err
	}
	if err := cache.Put(key, []byte(out.Source), []byte(warningsText(out.Warnings)), time.Now().Unix()); err != nil {
		return nil, false, err
	}
	return out, false, nil
}

func warningsText(warnings []*diagnostics.Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
