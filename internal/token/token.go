// Package token carries source-location metadata for surface AST nodes.
//
// matchc's own retrieval did not keep the teacher's internal/token package,
// only code that imports it (diagnostics.NewError(code, tok, msg), every
// Pattern's GetToken()). This rebuilds the same shape: a Token is a location
// plus the lexeme that produced it, nothing more — the core never re-lexes.
package token

import "fmt"

// Token is a minimal source-location carrier. Pattern-matching arms and
// bound patterns attach one for diagnostics; equality of bound patterns
// ignores it entirely (spec.md §3: "metadata is not part of equality").
type Token struct {
	File   string
	Line   int
	Column int
	Lexeme string
}

// String renders the "file:line:col" prefix used by diagnostics.
func (t Token) String() string {
	if t.File == "" && t.Line == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}

// Zero reports whether the token carries no location at all (synthesized
// nodes, e.g. gensym'd phi fetches, legitimately have no source position).
func (t Token) Zero() bool {
	return t.File == "" && t.Line == 0 && t.Column == 0
}
