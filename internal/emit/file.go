package emit

import (
	"fmt"
	"strings"
)

// preamble is emitted once per generated file: local wrapper functions that
// forward to internal/runtime, so the per-node renderers in render.go can
// emit short unqualified calls (matchcEqual, matchcLen, ...) without
// needing to know the import alias in scope at the call site.
const preamble = `import matchcrt "github.com/funvibe/matchc/internal/runtime"

func matchcEqual(a, b any) bool           { return matchcrt.Equal(a, b) }
func matchcLen(v any) int                 { return matchcrt.Len(v) }
func matchcIndexFromEnd(v any, n int) any { return matchcrt.IndexFromEnd(v, n) }
func matchcSliceFromEnd(v any, n int) any { return matchcrt.SliceFromEnd(v, n) }
func matchcTuple(vs ...any) []any         { return matchcrt.Tuple(vs...) }

func matchcIsType[T any](v any) bool { return matchcrt.IsType[T](v) }

type matchcFailure = matchcrt.MatchFailure
`

// File assembles one or more Emit results into a single compilable Go
// source file, per spec.md §6's "several match expressions per source file
// compile independently but share one generated file".
func File(pkgName string, results ...*Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by matchc. DO NOT EDIT.\n\npackage %s\n\n", pkgName)
	b.WriteString(preamble)
	b.WriteString("\n")
	for _, r := range results {
		b.WriteString(r.Source)
		b.WriteString("\n")
	}
	return b.String()
}
