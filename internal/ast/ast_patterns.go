package ast

import "github.com/funvibe/matchc/internal/token"

// WildcardPattern: `_`. Adapted from the teacher's ast.WildcardPattern.
type WildcardPattern struct {
	Tok token.Token
}

func (p *WildcardPattern) GetToken() token.Token { return p.Tok }
func (*WildcardPattern) patternNode()             {}

// LiteralPattern: a number, string, symbol-expression, quoted AST, or
// macro call. Adapted from the teacher's ast.LiteralPattern.
type LiteralPattern struct {
	Tok   token.Token
	Value Expression
}

func (p *LiteralPattern) GetToken() token.Token { return p.Tok }
func (*LiteralPattern) patternNode()            {}

// InterpolationPattern: `$(expr)`. Adapted from spec.md §4.2's dispatch
// table row for interpolation; the teacher has no direct equivalent (its
// StringPattern captures are a narrower, string-only feature kept below).
type InterpolationPattern struct {
	Tok  token.Token
	Expr Expression
}

func (p *InterpolationPattern) GetToken() token.Token { return p.Tok }
func (*InterpolationPattern) patternNode()            {}

// IdentifierPattern: `v`. Adapted from the teacher's ast.IdentifierPattern.
type IdentifierPattern struct {
	Tok  token.Token
	Name string
}

func (p *IdentifierPattern) GetToken() token.Token { return p.Tok }
func (*IdentifierPattern) patternNode()            {}

// TypePattern: `::T` (Inner == nil) or `p::T` (Inner != nil). Adapted from
// the teacher's ast.TypePattern, generalized to carry an optional inner
// pattern the way spec.md §4.2 distinguishes the two dispatch rows.
type TypePattern struct {
	Tok   token.Token
	Type  *TypeExpr
	Inner Pattern // nil for bare `::T`
}

func (p *TypePattern) GetToken() token.Token { return p.Tok }
func (*TypePattern) patternNode()            {}

// CtorArg is one argument to a ConstructorPattern, positional or named.
type CtorArg struct {
	Name    string // empty for positional args
	Pattern Pattern
}

// ConstructorPattern: `Ctor(args...)`, all-positional or all-named (mixed
// is rejected by the binder — spec.md §7 MixedFieldStyle). Adapted from
// the teacher's ast.ConstructorPattern, which only supported positional
// elements; named fields are this package's generalization.
type ConstructorPattern struct {
	Tok  token.Token
	Name string
	Args []CtorArg
}

func (p *ConstructorPattern) GetToken() token.Token { return p.Tok }
func (*ConstructorPattern) patternNode()            {}

// SpreadPattern: `...` or `...xs` inside a Tuple/ArrayPattern. Adapted from
// the teacher's ast.SpreadPattern.
type SpreadPattern struct {
	Tok     token.Token
	Pattern Pattern // nil for an anonymous `...`
}

func (p *SpreadPattern) GetToken() token.Token { return p.Tok }
func (*SpreadPattern) patternNode()            {}

// TuplePattern: `(a, b, ...)`. Adapted from the teacher's ast.TuplePattern.
type TuplePattern struct {
	Tok      token.Token
	Elements []Pattern // at most one element may be a *SpreadPattern
}

func (p *TuplePattern) GetToken() token.Token { return p.Tok }
func (*TuplePattern) patternNode()            {}

// ArrayPattern: `[a, b, ...]`. Adapted from the teacher's ast.ListPattern.
type ArrayPattern struct {
	Tok      token.Token
	Elements []Pattern // at most one element may be a *SpreadPattern
}

func (p *ArrayPattern) GetToken() token.Token { return p.Tok }
func (*ArrayPattern) patternNode()            {}

// AndPattern: `a && b` / `a & b`. Bindings of a flow into b.
type AndPattern struct {
	Tok   token.Token
	Left  Pattern
	Right Pattern
}

func (p *AndPattern) GetToken() token.Token { return p.Tok }
func (*AndPattern) patternNode()            {}

// OrPattern: `a || b` / `a | b`. Only variables bound on both sides are in
// scope after it (spec.md P6).
type OrPattern struct {
	Tok   token.Token
	Left  Pattern
	Right Pattern
}

func (p *OrPattern) GetToken() token.Token { return p.Tok }
func (*OrPattern) patternNode()            {}

// WherePattern: `p where g`.
type WherePattern struct {
	Tok   token.Token
	Inner Pattern
	Guard Expression
}

func (p *WherePattern) GetToken() token.Token { return p.Tok }
func (*WherePattern) patternNode()            {}

// PinPattern: `^variable` — matches if the value equals the existing
// variable's value. Kept from the teacher's ast.PinPattern: surface sugar
// for an EqualValueTest against an already-bound identifier, same as
// re-mentioning a bound variable name (spec.md §4.2's "identifier v already
// bound to t" row).
type PinPattern struct {
	Tok  token.Token
	Name string
}

func (p *PinPattern) GetToken() token.Token { return p.Tok }
func (*PinPattern) patternNode()            {}
