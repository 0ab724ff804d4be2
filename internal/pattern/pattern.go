// Package pattern is C1 of spec.md §2: the bound-pattern algebra — a
// tagged-variant tree of fetches, tests, conjunctions, and disjunctions,
// with value-equality and hashing that ignore source-location metadata
// (spec.md §3: "Every bound pattern carries its source-location metadata
// for diagnostics; metadata is not part of equality").
//
// There is no teacher file that builds exactly this algebra — funxy's own
// pattern matching (evaluator/expressions_control.go's matchPattern) walks
// the *surface* AST directly, arm by arm, with no shared intermediate form.
// This package is grounded on that file's case list (one Pattern variant
// per surface form it handles) but turns it inside out: instead of one big
// type switch over surface patterns, each surface form lowers (via
// internal/binder) into a small set of primitive fetch/test operations that
// can be structurally compared and deduplicated across arms.
package pattern

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/token"
	"github.com/funvibe/matchc/internal/typesystem"
)

// Temp is a uniquely-named symbol (spec.md §3's "Temporary").
type Temp string

// Kind tags the variant of a bound Pattern.
type Kind int

const (
	KTrue Kind = iota
	KFalse
	KEqualValueTest
	KTypeTest
	KRelationalTest
	KWhereTest
	KFetchField
	KFetchIndex
	KFetchRange
	KFetchLength
	KFetchExpression
	KAnd
	KOr
)

// Pattern is a node of the bound-pattern algebra.
type Pattern interface {
	Kind() Kind
	// Equal compares two bound patterns ignoring source-location metadata.
	Equal(other Pattern) bool
	// Hash is a structural hash consistent with Equal.
	Hash() uint64
	// Token returns the pattern's source-location metadata, for diagnostics.
	Token() token.Token
}

// RelOp is the comparison operator of a RelationalTest.
type RelOp int

const (
	RelEq RelOp = iota
	RelNe
	RelLt
	RelLe
	RelGt
	RelGe
)

func (op RelOp) String() string {
	switch op {
	case RelEq:
		return "=="
	case RelNe:
		return "!="
	case RelLt:
		return "<"
	case RelLe:
		return "<="
	case RelGt:
		return ">"
	case RelGe:
		return ">="
	}
	return "?"
}

// Binding is one entry of an insertion-ordered, immutable variable-binding
// map (spec.md §3's "Variable bindings").
type Binding struct {
	Name string
	Temp Temp
}

// Bindings is an insertion-ordered immutable mapping from user-visible
// variable names to temporary names.
type Bindings struct {
	entries []Binding
}

// NewBindings builds an empty binding map.
func NewBindings() Bindings { return Bindings{} }

// With returns a new Bindings with name bound to t, appended to (or
// replacing, in place, to preserve insertion order of) the existing map.
func (b Bindings) With(name string, t Temp) Bindings {
	out := make([]Binding, 0, len(b.entries)+1)
	replaced := false
	for _, e := range b.entries {
		if e.Name == name {
			out = append(out, Binding{Name: name, Temp: t})
			replaced = true
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, Binding{Name: name, Temp: t})
	}
	return Bindings{entries: out}
}

// Get looks up a bound variable.
func (b Bindings) Get(name string) (Temp, bool) {
	for _, e := range b.entries {
		if e.Name == name {
			return e.Temp, true
		}
	}
	return "", false
}

// Names returns the bound variable names in insertion order.
func (b Bindings) Names() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Name
	}
	return out
}

// Entries exposes the raw (Name, Temp) pairs in insertion order.
func (b Bindings) Entries() []Binding {
	return b.entries
}

// Equal compares two binding maps as sets of (name, temp) pairs — order
// does not participate in structural equality, only in iteration/display.
func (b Bindings) Equal(o Bindings) bool {
	if len(b.entries) != len(o.entries) {
		return false
	}
	for _, e := range b.entries {
		t, ok := o.Get(e.Name)
		if !ok || t != e.Temp {
			return false
		}
	}
	return true
}

// Hash is a structural hash of the binding set, consistent with Equal.
func (b Bindings) Hash() uint64 { return b.hash() }

func (b Bindings) hash() uint64 {
	sorted := append([]Binding(nil), b.entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	h := fnv.New64a()
	for _, e := range sorted {
		fmt.Fprintf(h, "%s=%s;", e.Name, e.Temp)
	}
	return h.Sum64()
}

// --- leaves ---

type truePattern struct{ tok token.Token }

// True always matches; carries no runtime work.
func True(tok token.Token) Pattern { return truePattern{tok: tok} }

func (p truePattern) Kind() Kind          { return KTrue }
func (p truePattern) Token() token.Token  { return p.tok }
func (p truePattern) Hash() uint64        { return 1 }
func (p truePattern) Equal(o Pattern) bool {
	return o.Kind() == KTrue
}

type falsePattern struct{ tok token.Token }

// False never matches; used as a simplification result.
func False(tok token.Token) Pattern { return falsePattern{tok: tok} }

func (p falsePattern) Kind() Kind         { return KFalse }
func (p falsePattern) Token() token.Token { return p.tok }
func (p falsePattern) Hash() uint64       { return 2 }
func (p falsePattern) Equal(o Pattern) bool {
	return o.Kind() == KFalse
}

// IsTrue/IsFalse are convenience predicates used throughout C4/C5.
func IsTrue(p Pattern) bool  { return p.Kind() == KTrue }
func IsFalse(p Pattern) bool { return p.Kind() == KFalse }

// IsFetch reports whether p's kind is one of the fetch variants (a leaf
// with exactly one successor once chosen as an automaton action).
func IsFetch(k Kind) bool {
	switch k {
	case KFetchField, KFetchIndex, KFetchRange, KFetchLength, KFetchExpression:
		return true
	default:
		return false
	}
}

// IsTest reports whether p's kind is one of the two-successor test
// variants.
func IsTest(k Kind) bool {
	switch k {
	case KEqualValueTest, KTypeTest, KRelationalTest, KWhereTest:
		return true
	default:
		return false
	}
}

// exprKey produces a structural string key for a host ast.Expression, used
// for equality/hashing of EqualValueTest and FetchExpression (spec.md §3:
// "structural key (... / expression + captures)"). The core never
// evaluates host expressions, only compares them for the purpose of temp
// reuse, so a deterministic textual rendering is sufficient.
func exprKey(e ast.Expression) string {
	if e == nil {
		return "<nil>"
	}
	switch v := e.(type) {
	case *ast.Identifier:
		return "id:" + v.Name
	case *ast.Literal:
		return fmt.Sprintf("lit:%v", v.Value)
	case *ast.TempRef:
		return "tmp:" + v.Temp
	case *ast.Call:
		s := "call:" + v.Name + "("
		for _, a := range v.Args {
			s += a.Name + "=" + exprKey(a.Value) + ","
		}
		return s + ")"
	case *ast.TupleExpr:
		s := "tuple("
		for _, el := range v.Elements {
			s += exprKey(el) + ","
		}
		return s + ")"
	case *ast.SequenceExpr:
		s := "seq("
		for _, el := range v.Elements {
			s += exprKey(el) + ","
		}
		return s + ")"
	case *ast.BinaryExpr:
		return "(" + exprKey(v.Left) + v.Op + exprKey(v.Right) + ")"
	case *ast.UnaryNotExpr:
		return "!" + exprKey(v.Operand)
	case *ast.Interpolation:
		return "$(" + exprKey(v.Expr) + ")"
	default:
		return fmt.Sprintf("%T:%v", e, e)
	}
}

type equalValueTest struct {
	tok      token.Token
	input    Temp
	value    ast.Expression
	captures Bindings
}

// EqualValueTest: input equals a constant or substituted host expression.
func EqualValueTest(tok token.Token, input Temp, value ast.Expression, captures Bindings) Pattern {
	return equalValueTest{tok: tok, input: input, value: value, captures: captures}
}

func (p equalValueTest) Kind() Kind         { return KEqualValueTest }
func (p equalValueTest) Token() token.Token { return p.tok }
func (p equalValueTest) Input() Temp        { return p.input }
func (p equalValueTest) Value() ast.Expression { return p.value }
func (p equalValueTest) Captures() Bindings  { return p.captures }
func (p equalValueTest) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "eq:%s:%s:%d", p.input, exprKey(p.value), p.captures.hash())
	return h.Sum64()
}
func (p equalValueTest) Equal(o Pattern) bool {
	q, ok := o.(equalValueTest)
	return ok && p.input == q.input && exprKey(p.value) == exprKey(q.value) && p.captures.Equal(q.captures)
}

type typeTest struct {
	tok   token.Token
	input Temp
	typ   typesystem.Type
}

// TypeTest: input is a member of a resolved type.
func TypeTest(tok token.Token, input Temp, t typesystem.Type) Pattern {
	return typeTest{tok: tok, input: input, typ: t}
}

func (p typeTest) Kind() Kind             { return KTypeTest }
func (p typeTest) Token() token.Token     { return p.tok }
func (p typeTest) Input() Temp            { return p.input }
func (p typeTest) Type() typesystem.Type  { return p.typ }
func (p typeTest) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "ty:%s:%s", p.input, p.typ.String())
	return h.Sum64()
}
func (p typeTest) Equal(o Pattern) bool {
	q, ok := o.(typeTest)
	return ok && p.input == q.input && typesystem.Equal(p.typ, q.typ)
}

type relationalTest struct {
	tok   token.Token
	input Temp
	op    RelOp
	value int
}

// RelationalTest: numeric comparison of a temporary against an integer
// constant; used for length checks against splats.
func RelationalTest(tok token.Token, input Temp, op RelOp, value int) Pattern {
	return relationalTest{tok: tok, input: input, op: op, value: value}
}

func (p relationalTest) Kind() Kind        { return KRelationalTest }
func (p relationalTest) Token() token.Token { return p.tok }
func (p relationalTest) Input() Temp       { return p.input }
func (p relationalTest) Op() RelOp         { return p.op }
func (p relationalTest) Value() int        { return p.value }
func (p relationalTest) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "rel:%s:%d:%d", p.input, p.op, p.value)
	return h.Sum64()
}
func (p relationalTest) Equal(o Pattern) bool {
	q, ok := o.(relationalTest)
	return ok && p.input == q.input && p.op == q.op && p.value == q.value
}

type whereTest struct {
	tok      token.Token
	temp     Temp
	inverted bool
}

// WhereTest: boolean check against a precomputed guard result.
func WhereTest(tok token.Token, t Temp, inverted bool) Pattern {
	return whereTest{tok: tok, temp: t, inverted: inverted}
}

func (p whereTest) Kind() Kind         { return KWhereTest }
func (p whereTest) Token() token.Token { return p.tok }
func (p whereTest) Temp() Temp         { return p.temp }
func (p whereTest) Inverted() bool     { return p.inverted }
func (p whereTest) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "where:%s:%v", p.temp, p.inverted)
	return h.Sum64()
}
func (p whereTest) Equal(o Pattern) bool {
	q, ok := o.(whereTest)
	return ok && p.temp == q.temp && p.inverted == q.inverted
}

// --- fetches ---

// FetchKey is the structural key of a fetch: two fetches allocate the same
// temporary iff kind, input, and FetchKey are equal (spec.md I1).
type FetchKey string

type fetchField struct {
	tok       token.Token
	input     Temp
	field     string
	fieldType typesystem.Type
	result    Temp
}

// FetchField projects a named field.
func FetchField(tok token.Token, input Temp, field string, fieldType typesystem.Type, result Temp) Pattern {
	return fetchField{tok: tok, input: input, field: field, fieldType: fieldType, result: result}
}

func (p fetchField) Kind() Kind            { return KFetchField }
func (p fetchField) Token() token.Token    { return p.tok }
func (p fetchField) Input() Temp           { return p.input }
func (p fetchField) Field() string         { return p.field }
func (p fetchField) FieldType() typesystem.Type { return p.fieldType }
func (p fetchField) Result() Temp          { return p.result }
func (p fetchField) Key() FetchKey         { return FetchKey(fmt.Sprintf("field:%s:%s", p.input, p.field)) }
func (p fetchField) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(p.Key()))
	return h.Sum64()
}
func (p fetchField) Equal(o Pattern) bool {
	q, ok := o.(fetchField)
	return ok && p.input == q.input && p.field == q.field
}

type fetchIndex struct {
	tok    token.Token
	input  Temp
	index  int // 1-based, or negative = splat-relative from the end
	typ    typesystem.Type
	result Temp
}

// FetchIndex projects by 1-based (or splat-relative negative) index.
func FetchIndex(tok token.Token, input Temp, index int, t typesystem.Type, result Temp) Pattern {
	return fetchIndex{tok: tok, input: input, index: index, typ: t, result: result}
}

func (p fetchIndex) Kind() Kind         { return KFetchIndex }
func (p fetchIndex) Token() token.Token { return p.tok }
func (p fetchIndex) Input() Temp        { return p.input }
func (p fetchIndex) Index() int         { return p.index }
func (p fetchIndex) Type() typesystem.Type { return p.typ }
func (p fetchIndex) Result() Temp       { return p.result }
func (p fetchIndex) Key() FetchKey      { return FetchKey(fmt.Sprintf("idx:%s:%d", p.input, p.index)) }
func (p fetchIndex) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(p.Key()))
	return h.Sum64()
}
func (p fetchIndex) Equal(o Pattern) bool {
	q, ok := o.(fetchIndex)
	return ok && p.input == q.input && p.index == q.index
}

type fetchRange struct {
	tok      token.Token
	input    Temp
	first    int
	fromEnd  bool
	typ      typesystem.Type
	result   Temp
}

// FetchRange projects a contiguous sub-sequence (the splat itself).
func FetchRange(tok token.Token, input Temp, first int, fromEnd bool, t typesystem.Type, result Temp) Pattern {
	return fetchRange{tok: tok, input: input, first: first, fromEnd: fromEnd, typ: t, result: result}
}

func (p fetchRange) Kind() Kind          { return KFetchRange }
func (p fetchRange) Token() token.Token  { return p.tok }
func (p fetchRange) Input() Temp         { return p.input }
func (p fetchRange) First() int          { return p.first }
func (p fetchRange) FromEnd() bool       { return p.fromEnd }
func (p fetchRange) Type() typesystem.Type { return p.typ }
func (p fetchRange) Result() Temp        { return p.result }
func (p fetchRange) Key() FetchKey {
	return FetchKey(fmt.Sprintf("range:%s:%d:%v", p.input, p.first, p.fromEnd))
}
func (p fetchRange) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(p.Key()))
	return h.Sum64()
}
func (p fetchRange) Equal(o Pattern) bool {
	q, ok := o.(fetchRange)
	return ok && p.input == q.input && p.first == q.first && p.fromEnd == q.fromEnd
}

type fetchLength struct {
	tok    token.Token
	input  Temp
	typ    typesystem.Type
	result Temp
}

// FetchLength is the length of a sequence/tuple.
func FetchLength(tok token.Token, input Temp, t typesystem.Type, result Temp) Pattern {
	return fetchLength{tok: tok, input: input, typ: t, result: result}
}

func (p fetchLength) Kind() Kind         { return KFetchLength }
func (p fetchLength) Token() token.Token { return p.tok }
func (p fetchLength) Input() Temp        { return p.input }
func (p fetchLength) Type() typesystem.Type { return p.typ }
func (p fetchLength) Result() Temp       { return p.result }
func (p fetchLength) Key() FetchKey      { return FetchKey(fmt.Sprintf("len:%s", p.input)) }
func (p fetchLength) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(p.Key()))
	return h.Sum64()
}
func (p fetchLength) Equal(o Pattern) bool {
	q, ok := o.(fetchLength)
	return ok && p.input == q.input
}

type fetchExpression struct {
	tok      token.Token
	input    Temp
	expr     ast.Expression
	captures Bindings
	optKey   string
	typ      typesystem.Type
	result   Temp
}

// FetchExpression evaluates a host-language expression: used for guards
// and for phi-merging across disjunctions (spec.md §4.2.1), where optKey
// is the phi temporary name that disambiguates left/right branch fetches
// of the same user-visible variable.
func FetchExpression(tok token.Token, input Temp, expr ast.Expression, captures Bindings, optKey string, t typesystem.Type, result Temp) Pattern {
	return fetchExpression{tok: tok, input: input, expr: expr, captures: captures, optKey: optKey, typ: t, result: result}
}

func (p fetchExpression) Kind() Kind            { return KFetchExpression }
func (p fetchExpression) Token() token.Token    { return p.tok }
func (p fetchExpression) Input() Temp           { return p.input }
func (p fetchExpression) Expr() ast.Expression  { return p.expr }
func (p fetchExpression) Captures() Bindings    { return p.captures }
func (p fetchExpression) OptionalKey() string   { return p.optKey }
func (p fetchExpression) Type() typesystem.Type { return p.typ }
func (p fetchExpression) Result() Temp          { return p.result }
func (p fetchExpression) Key() FetchKey {
	return FetchKey(fmt.Sprintf("fexpr:%s:%s:%s", p.input, exprKey(p.expr), p.optKey))
}
func (p fetchExpression) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(p.Key()))
	return h.Sum64()
}
func (p fetchExpression) Equal(o Pattern) bool {
	q, ok := o.(fetchExpression)
	return ok && p.input == q.input && exprKey(p.expr) == exprKey(q.expr) && p.optKey == q.optKey
}

// --- combinators ---

type and struct {
	tok  token.Token
	subs []Pattern
}

// And: all subpatterns must match, left to right.
func And(tok token.Token, subs ...Pattern) Pattern {
	return and{tok: tok, subs: subs}
}

func (p and) Kind() Kind          { return KAnd }
func (p and) Token() token.Token  { return p.tok }
func (p and) Subs() []Pattern     { return p.subs }
func (p and) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte("and:"))
	for _, s := range p.subs {
		fmt.Fprintf(h, "%d;", s.Hash())
	}
	return h.Sum64()
}
func (p and) Equal(o Pattern) bool {
	q, ok := o.(and)
	if !ok || len(p.subs) != len(q.subs) {
		return false
	}
	for i := range p.subs {
		if !p.subs[i].Equal(q.subs[i]) {
			return false
		}
	}
	return true
}

type or struct {
	tok  token.Token
	subs []Pattern
}

// Or: first matching subpattern wins.
func Or(tok token.Token, subs ...Pattern) Pattern {
	return or{tok: tok, subs: subs}
}

func (p or) Kind() Kind         { return KOr }
func (p or) Token() token.Token { return p.tok }
func (p or) Subs() []Pattern    { return p.subs }
func (p or) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte("or:"))
	for _, s := range p.subs {
		fmt.Fprintf(h, "%d;", s.Hash())
	}
	return h.Sum64()
}
func (p or) Equal(o Pattern) bool {
	q, ok := o.(or)
	if !ok || len(p.subs) != len(q.subs) {
		return false
	}
	for i := range p.subs {
		if !p.subs[i].Equal(q.subs[i]) {
			return false
		}
	}
	return true
}

// Accessor helpers for combinators, used by C4/C5/C6 without needing type
// assertions on the unexported and/or structs.
func AsAnd(p Pattern) ([]Pattern, bool) {
	v, ok := p.(and)
	if !ok {
		return nil, false
	}
	return v.subs, true
}

func AsOr(p Pattern) ([]Pattern, bool) {
	v, ok := p.(or)
	if !ok {
		return nil, false
	}
	return v.subs, true
}

// --- exported accessors (the concrete variant structs are unexported, so
// callers outside this package switch on Kind() then narrow with these) ---

func AsEqualValueTest(p Pattern) (input Temp, value ast.Expression, captures Bindings, ok bool) {
	v, ok := p.(equalValueTest)
	if !ok {
		return "", nil, Bindings{}, false
	}
	return v.input, v.value, v.captures, true
}

func AsTypeTest(p Pattern) (input Temp, typ typesystem.Type, ok bool) {
	v, ok := p.(typeTest)
	if !ok {
		return "", nil, false
	}
	return v.input, v.typ, true
}

func AsRelationalTest(p Pattern) (input Temp, op RelOp, value int, ok bool) {
	v, ok := p.(relationalTest)
	if !ok {
		return "", 0, 0, false
	}
	return v.input, v.op, v.value, true
}

func AsWhereTest(p Pattern) (t Temp, inverted bool, ok bool) {
	v, ok := p.(whereTest)
	if !ok {
		return "", false, false
	}
	return v.temp, v.inverted, true
}

func AsFetchField(p Pattern) (input Temp, field string, fieldType typesystem.Type, result Temp, ok bool) {
	v, ok := p.(fetchField)
	if !ok {
		return "", "", nil, "", false
	}
	return v.input, v.field, v.fieldType, v.result, true
}

func AsFetchIndex(p Pattern) (input Temp, index int, typ typesystem.Type, result Temp, ok bool) {
	v, ok := p.(fetchIndex)
	if !ok {
		return "", 0, nil, "", false
	}
	return v.input, v.index, v.typ, v.result, true
}

func AsFetchRange(p Pattern) (input Temp, first int, fromEnd bool, typ typesystem.Type, result Temp, ok bool) {
	v, ok := p.(fetchRange)
	if !ok {
		return "", 0, false, nil, "", false
	}
	return v.input, v.first, v.fromEnd, v.typ, v.result, true
}

func AsFetchLength(p Pattern) (input Temp, typ typesystem.Type, result Temp, ok bool) {
	v, ok := p.(fetchLength)
	if !ok {
		return "", nil, "", false
	}
	return v.input, v.typ, v.result, true
}

func AsFetchExpression(p Pattern) (input Temp, expr ast.Expression, captures Bindings, optKey string, typ typesystem.Type, result Temp, ok bool) {
	v, ok := p.(fetchExpression)
	if !ok {
		return "", nil, Bindings{}, "", nil, "", false
	}
	return v.input, v.expr, v.captures, v.optKey, v.typ, v.result, true
}

// FetchKeyOf returns the structural fetch key of p if it is any fetch
// variant, used by the binder's temp-allocation cache (spec.md I1).
func FetchKeyOf(p Pattern) (FetchKey, bool) {
	switch v := p.(type) {
	case fetchField:
		return v.Key(), true
	case fetchIndex:
		return v.Key(), true
	case fetchRange:
		return v.Key(), true
	case fetchLength:
		return v.Key(), true
	case fetchExpression:
		return v.Key(), true
	default:
		return "", false
	}
}

// ResultOf returns the result temp of any fetch variant.
func ResultOf(p Pattern) (Temp, bool) {
	switch v := p.(type) {
	case fetchField:
		return v.result, true
	case fetchIndex:
		return v.result, true
	case fetchRange:
		return v.result, true
	case fetchLength:
		return v.result, true
	case fetchExpression:
		return v.result, true
	default:
		return "", false
	}
}

// IsIrrefutable reports whether p always matches: True, or an And whose
// subpatterns are all irrefutable, or an Or with at least one irrefutable
// subpattern (spec.md §4.1).
func IsIrrefutable(p Pattern) bool {
	switch p.Kind() {
	case KTrue:
		return true
	case KAnd:
		subs, _ := AsAnd(p)
		for _, s := range subs {
			if !IsIrrefutable(s) {
				return false
			}
		}
		return true
	case KOr:
		subs, _ := AsOr(p)
		for _, s := range subs {
			if IsIrrefutable(s) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
