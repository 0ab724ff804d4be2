// Package ast defines the minimal surface-syntax tree the core consumes
// (spec.md §6: "a minimal tree with the node kinds needed by §4.2's dispatch
// table"). It is adapted from the teacher's internal/ast package — the
// teacher's Node/Expression interfaces and its Pattern hierarchy
// (ast_types.go's WildcardPattern/LiteralPattern/IdentifierPattern/
// ConstructorPattern/TuplePattern/ListPattern/RecordPattern/TypePattern/
// PinPattern) map almost directly onto spec.md §4.2's dispatch table; this
// package keeps that shape but drops everything from the teacher's AST that
// belongs to a whole-language front end (declarations, imports, statements,
// the Visitor interface) since the core only ever receives an expression
// tree and a block of match arms, never a full program.
package ast

import "github.com/funvibe/matchc/internal/token"

// Node is the base interface for every surface node the core can see.
type Node interface {
	GetToken() token.Token
}

// Expression is a host-language expression: the scrutinee, an arm's result,
// a guard, or a value embedded in an EqualValueTest. The core treats
// expressions opaquely except for the handful of kinds it must recognize
// (Identifier, for pattern-variable substitution; MatchFail/MatchReturn,
// for early exit).
type Expression interface {
	Node
	expressionNode()
}

// Pattern is a surface pattern, one leaf of spec.md §4.2's dispatch table.
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr names a type, as written after `::`. WhereGuard is the guard
// clause carried by the type expression itself (spec.md §4.2: "T may carry
// a where guard which is split out and conjoined as a WhereTest").
type TypeExpr struct {
	Tok        token.Token
	Name       string
	WhereGuard Expression
}

func (t *TypeExpr) GetToken() token.Token { return t.Tok }

// --- Expressions ---

// Identifier is a bare name: a pattern-variable reference inside a guard or
// interpolation, or an ordinary host-language variable reference.
type Identifier struct {
	Tok  token.Token
	Name string
}

func (e *Identifier) GetToken() token.Token { return e.Tok }
func (*Identifier) expressionNode()         {}

// Literal is a host literal: number, string, symbol, boolean, or a quoted
// AST/macro-call node compared only by value equality (spec.md §9(b)).
type Literal struct {
	Tok   token.Token
	Value interface{}
}

func (e *Literal) GetToken() token.Token { return e.Tok }
func (*Literal) expressionNode()         {}

// Arg is one argument of a Call, positional or named.
type Arg struct {
	Name  string // empty for positional args
	Value Expression
}

// Call is a host-language function/constructor call, with all-positional,
// all-named, or (rejected by the binder) mixed arguments.
type Call struct {
	Tok  token.Token
	Name string
	Args []Arg
}

func (e *Call) GetToken() token.Token { return e.Tok }
func (*Call) expressionNode()         {}

// TupleExpr is a parenthesized tuple expression `(a, b, ...)`.
type TupleExpr struct {
	Tok      token.Token
	Elements []Expression
}

func (e *TupleExpr) GetToken() token.Token { return e.Tok }
func (*TupleExpr) expressionNode()         {}

// SequenceExpr is a bracketed sequence expression `[a, b, ...]`.
type SequenceExpr struct {
	Tok      token.Token
	Elements []Expression
}

func (e *SequenceExpr) GetToken() token.Token { return e.Tok }
func (*SequenceExpr) expressionNode()         {}

// BinaryExpr covers `&&`, `||`, `&`, `|` at the expression level (guards).
type BinaryExpr struct {
	Tok   token.Token
	Op    string
	Left  Expression
	Right Expression
}

func (e *BinaryExpr) GetToken() token.Token { return e.Tok }
func (*BinaryExpr) expressionNode()         {}

// UnaryNotExpr is `!g`.
type UnaryNotExpr struct {
	Tok     token.Token
	Operand Expression
}

func (e *UnaryNotExpr) GetToken() token.Token { return e.Tok }
func (*UnaryNotExpr) expressionNode()         {}

// Interpolation is `$(expr)` used inside a pattern position.
type Interpolation struct {
	Tok  token.Token
	Expr Expression
}

func (e *Interpolation) GetToken() token.Token { return e.Tok }
func (*Interpolation) expressionNode()         {}

// TempRef is not surface syntax: the binder substitutes every
// pattern-variable reference inside an interpolation or guard with one of
// these, so emitted code reads the compiler's own temporary instead of a
// user variable the arm hasn't bound yet (spec.md §4.2.2).
type TempRef struct {
	Temp string
}

func (*TempRef) GetToken() token.Token { return token.Token{} }
func (*TempRef) expressionNode()       {}

// MatchFail is the `match_fail` early-exit marker recognized inside an
// arm's result (spec.md §6, §9): jumps to the next arm.
type MatchFail struct {
	Tok token.Token
}

func (e *MatchFail) GetToken() token.Token { return e.Tok }
func (*MatchFail) expressionNode()         {}

// MatchReturn is the `match_return v` early-exit marker: jumps straight to
// the whole match expression's completion label with value v.
type MatchReturn struct {
	Tok   token.Token
	Value Expression
}

func (e *MatchReturn) GetToken() token.Token { return e.Tok }
func (*MatchReturn) expressionNode()         {}

// --- Match arms ---

// MatchArm is one `pattern => result` entry (optionally `pattern where g => result`,
// though where-clauses are more commonly attached via WherePattern).
type MatchArm struct {
	Tok     token.Token
	Pattern Pattern
	Guard   Expression // optional, nil if absent
	Result  Expression
}

func (a *MatchArm) GetToken() token.Token { return a.Tok }

// MatchExpression is the whole `match <Expression> { <Arms> }` surface form.
type MatchExpression struct {
	Tok       token.Token
	Scrutinee Expression
	Arms      []*MatchArm
}

func (e *MatchExpression) GetToken() token.Token { return e.Tok }
func (*MatchExpression) expressionNode()         {}
