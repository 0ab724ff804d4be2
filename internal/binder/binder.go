// Package binder is C2 of spec.md §2: lowers a surface ast.Pattern, matched
// against a host expression bound to a temporary, into the C1 bound-pattern
// algebra plus a Bindings map from pattern-variable name to temp.
//
// Grounded on internal/evaluator/statements_patterns.go's bindPatternToValue
// (the same surface-pattern case list, walked recursively against a live
// value instead of a symbolic temp) and internal/evaluator/expressions_control.go's
// matchPattern/evalMatchExpression (the arm-by-arm surface dispatch that
// Builder's worklist replaces with a shared automaton).
package binder

import (
	"fmt"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/automaton"
	"github.com/funvibe/matchc/internal/diagnostics"
	"github.com/funvibe/matchc/internal/pattern"
	"github.com/funvibe/matchc/internal/token"
	"github.com/funvibe/matchc/internal/typesystem"
)

// Binder lowers surface match arms into automaton.Arm values, allocating
// fresh temporaries for every fetch and caching them by FetchKey so that
// two patterns needing "the same field of the same temp" share one fetch
// (spec.md §4.2's "Temp allocation is cached per (input, key)").
type Binder struct {
	oracle  typesystem.Oracle
	bag     *diagnostics.Bag
	counter int
	cache   map[pattern.Temp]map[pattern.FetchKey]pattern.Temp
	// scope tracks name -> temp for identifiers bound so far within the arm
	// currently being lowered, so a PinPattern (^name) can resolve which
	// temp to compare the current position against. Reset at the start of
	// every arm by BindArms.
	scope map[string]pattern.Temp
}

func New(oracle typesystem.Oracle, bag *diagnostics.Bag) *Binder {
	return &Binder{
		oracle: oracle,
		bag:    bag,
		cache:  make(map[pattern.Temp]map[pattern.FetchKey]pattern.Temp),
	}
}

// Error is a compile-time lowering failure (spec.md §7's table: UnresolvedType,
// NonType, DuplicateNamedField, MixedFieldStyle, WrongFieldCount, UnknownField,
// MultipleSplats, UnrecognizedPattern, UnrecognizedBlock, UnrecognizedCase).
type Error = diagnostics.DiagnosticError

// BindArms lowers every arm of a surface match expression against scrutinee
// temp root, in order, returning one automaton.Arm per surface arm. A
// lowering error aborts the whole match (spec.md §7: these are compile-time,
// not per-arm-skippable).
func (b *Binder) BindArms(root pattern.Temp, arms []*ast.MatchArm) ([]*automaton.Arm, error) {
	out := make([]*automaton.Arm, 0, len(arms))
	for i, arm := range arms {
		b.scope = make(map[string]pattern.Temp)
		p, binds, err := b.bind(root, arm.Pattern)
		if err != nil {
			return nil, err
		}
		if arm.Guard != nil {
			p = b.addGuard(p, rewriteBoundIdentifiers(arm.Guard, binds), binds)
		}
		result := rewriteBoundIdentifiers(arm.Result, binds)
		out = append(out, automaton.NewArm(i, p, binds, result))
	}
	return out, nil
}

// rewriteBoundIdentifiers walks e, replacing every *ast.Identifier whose
// name is in binds with an *ast.TempRef naming the bound temp, so a guard
// or result expression that reads a pattern variable reads the compiler's
// temporary instead of a host identifier the arm never declares (spec.md
// §4.2.2's "pattern-variable reference inside an interpolation or guard").
// Identifiers not in binds (ordinary host variables) pass through
// unchanged.
func rewriteBoundIdentifiers(e ast.Expression, binds pattern.Bindings) ast.Expression {
	switch v := e.(type) {
	case nil:
		return nil
	case *ast.Identifier:
		if t, ok := binds.Get(v.Name); ok {
			return &ast.TempRef{Temp: string(t)}
		}
		return v
	case *ast.Call:
		args := make([]ast.Arg, len(v.Args))
		for i, a := range v.Args {
			args[i] = ast.Arg{Name: a.Name, Value: rewriteBoundIdentifiers(a.Value, binds)}
		}
		return &ast.Call{Tok: v.Tok, Name: v.Name, Args: args}
	case *ast.TupleExpr:
		elems := make([]ast.Expression, len(v.Elements))
		for i, el := range v.Elements {
			elems[i] = rewriteBoundIdentifiers(el, binds)
		}
		return &ast.TupleExpr{Tok: v.Tok, Elements: elems}
	case *ast.SequenceExpr:
		elems := make([]ast.Expression, len(v.Elements))
		for i, el := range v.Elements {
			elems[i] = rewriteBoundIdentifiers(el, binds)
		}
		return &ast.SequenceExpr{Tok: v.Tok, Elements: elems}
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{
			Tok:   v.Tok,
			Op:    v.Op,
			Left:  rewriteBoundIdentifiers(v.Left, binds),
			Right: rewriteBoundIdentifiers(v.Right, binds),
		}
	case *ast.UnaryNotExpr:
		return &ast.UnaryNotExpr{Tok: v.Tok, Operand: rewriteBoundIdentifiers(v.Operand, binds)}
	case *ast.Interpolation:
		return &ast.Interpolation{Tok: v.Tok, Expr: rewriteBoundIdentifiers(v.Expr, binds)}
	case *ast.MatchReturn:
		return &ast.MatchReturn{Tok: v.Tok, Value: rewriteBoundIdentifiers(v.Value, binds)}
	default:
		// *ast.Literal, *ast.TempRef, *ast.MatchFail: nothing to rewrite.
		return e
	}
}

// rewriteScoped rewrites e against every name bound so far in the arm
// currently being lowered (b.scope), not just the bindings of the
// sub-pattern being processed — an interpolation pattern element can
// reference a sibling bound earlier in the same tuple/constructor, the
// same rule *ast.PinPattern already relies on b.scope for.
func (b *Binder) rewriteScoped(e ast.Expression) ast.Expression {
	binds := pattern.NewBindings()
	for name, t := range b.scope {
		binds = binds.With(name, t)
	}
	return rewriteBoundIdentifiers(e, binds)
}

// addGuard shreds a `where`-clause arm (spec.md §4.2.2): the guard
// expression is bound as a fetch (its value is computed once, since it may
// be arbitrarily expensive or impure) and then tested for truth. Like every
// other fetch, its result temp is cached by structural key, so
// structurally equal guards share one temp.
func (b *Binder) addGuard(p pattern.Pattern, guard ast.Expression, binds pattern.Bindings) pattern.Pattern {
	tok := guard.GetToken()
	key, _ := pattern.FetchKeyOf(pattern.FetchExpression(tok, "", guard, binds, "", typesystem.Any, ""))
	fetch, result := b.fetchCached("", key, func(res pattern.Temp) pattern.Pattern {
		return pattern.FetchExpression(tok, "", guard, binds, "", typesystem.Any, res)
	})
	test := pattern.WhereTest(tok, result, false)
	return pattern.And(tok, p, fetch, test)
}

// bind dispatches on the surface pattern's concrete type (spec.md §4.2's
// table), returning the bound pattern that tests/fetches temp t, plus the
// bindings it introduces.
func (b *Binder) bind(t pattern.Temp, p ast.Pattern) (pattern.Pattern, pattern.Bindings, error) {
	switch v := p.(type) {
	case *ast.WildcardPattern:
		return pattern.True(v.Tok), pattern.NewBindings(), nil

	case *ast.IdentifierPattern:
		// A name already bound earlier in this same arm re-tests equality
		// against its first binding instead of silently rebinding, so a
		// pattern like (x, x) only matches positions that are ==, the
		// same rule *ast.PinPattern enforces for the ^name spelling.
		if prevTemp, ok := b.scope[v.Name]; ok {
			return pattern.EqualValueTest(v.Tok, t, &ast.TempRef{Temp: string(prevTemp)}, pattern.NewBindings()), pattern.NewBindings(), nil
		}
		b.scope[v.Name] = t
		return pattern.True(v.Tok), pattern.NewBindings().With(v.Name, t), nil

	case *ast.PinPattern:
		// Re-testing a previously bound name lowers to an ordinary
		// equal-value test against the temp the name was first bound to
		// earlier in this same arm; when the values differ the arm simply
		// does not match.
		prevTemp, ok := b.scope[v.Name]
		if !ok {
			return nil, pattern.Bindings{}, diagnostics.NewError(diagnostics.ErrUndefinedVariable, v.Tok, "pinned variable %q is not bound earlier in this pattern", v.Name)
		}
		return pattern.EqualValueTest(v.Tok, t, &ast.TempRef{Temp: string(prevTemp)}, pattern.NewBindings()), pattern.NewBindings(), nil

	case *ast.LiteralPattern:
		return pattern.EqualValueTest(v.Tok, t, v.Value, pattern.NewBindings()), pattern.NewBindings(), nil

	case *ast.InterpolationPattern:
		return pattern.EqualValueTest(v.Tok, t, b.rewriteScoped(v.Expr), pattern.NewBindings()), pattern.NewBindings(), nil

	case *ast.TypePattern:
		return b.bindTypePattern(t, v)

	case *ast.ConstructorPattern:
		return b.bindConstructorPattern(t, v)

	case *ast.TuplePattern:
		return b.bindSequence(t, v.Tok, v.Elements)

	case *ast.ArrayPattern:
		return b.bindSequence(t, v.Tok, v.Elements)

	case *ast.AndPattern:
		return b.bindAnd(t, v)

	case *ast.OrPattern:
		return b.bindOr(t, v)

	case *ast.WherePattern:
		return b.bindWhere(t, v)

	case *ast.SpreadPattern:
		// A bare spread outside of a sequence context is a binder error,
		// not a silently-accepted wildcard (spec.md §7: MultipleSplats'
		// sibling case, a spread where one cannot be used at all).
		return nil, pattern.Bindings{}, diagnostics.NewError(diagnostics.ErrUnrecognizedCase, v.Tok, "spread pattern is only valid as a sequence element")

	default:
		return nil, pattern.Bindings{}, diagnostics.NewError(diagnostics.ErrUnrecognizedPattern, p.GetToken(), "unrecognized pattern form %T", p)
	}
}

func (b *Binder) bindTypePattern(t pattern.Temp, v *ast.TypePattern) (pattern.Pattern, pattern.Bindings, error) {
	typ, err := b.resolveType(v.Type)
	if err != nil {
		return nil, pattern.Bindings{}, err
	}
	var result pattern.Pattern = pattern.TypeTest(v.Tok, t, typ)
	binds := pattern.NewBindings()
	if v.Inner != nil {
		inner, innerBinds, err := b.bind(t, v.Inner)
		if err != nil {
			return nil, pattern.Bindings{}, err
		}
		result, binds = pattern.And(v.Tok, result, inner), innerBinds
	}
	// A guard carried by the type expression is split out and conjoined as
	// a where-clause after the type test and the inner pattern.
	if v.Type != nil && v.Type.WhereGuard != nil {
		result = b.addGuard(result, b.rewriteScoped(v.Type.WhereGuard), binds)
	}
	return result, binds, nil
}

func (b *Binder) resolveType(te *ast.TypeExpr) (typesystem.Type, error) {
	if te == nil {
		return typesystem.Any, nil
	}
	resolved, err := b.oracle.ResolveType(te, te.Tok)
	if err != nil {
		return nil, diagnostics.NewError(diagnostics.ErrUnresolvedType, te.Tok, "cannot resolve type %q: %v", te.Name, err)
	}
	return resolved, nil
}

// bindConstructorPattern implements spec.md §4.2's constructor-field
// dispatch: a TypeTest on the constructor type, then for every field a
// FetchField followed by a recursive bind of the field's sub-pattern, ANDed
// together in field order. Positional and named
// styles may not mix (MixedFieldStyle); duplicate names are rejected
// (DuplicateNamedField); more than one spread is rejected (MultipleSplats).
func (b *Binder) bindConstructorPattern(t pattern.Temp, v *ast.ConstructorPattern) (pattern.Pattern, pattern.Bindings, error) {
	named, positional, spreadCount := 0, 0, 0
	seen := make(map[string]bool)
	for _, f := range v.Args {
		if f.Name != "" {
			named++
			if seen[f.Name] {
				return nil, pattern.Bindings{}, diagnostics.NewError(diagnostics.ErrDuplicateNamedField, v.Tok, "duplicate field %q in pattern for %s", f.Name, v.Name)
			}
			seen[f.Name] = true
		} else {
			positional++
		}
		if _, ok := f.Pattern.(*ast.SpreadPattern); ok {
			spreadCount++
		}
	}
	if named > 0 && positional > 0 {
		return nil, pattern.Bindings{}, diagnostics.NewError(diagnostics.ErrMixedFieldStyle, v.Tok, "constructor pattern %s mixes named and positional fields", v.Name)
	}
	if spreadCount > 1 {
		return nil, pattern.Bindings{}, diagnostics.NewError(diagnostics.ErrMultipleSplats, v.Tok, "constructor pattern %s has more than one spread field", v.Name)
	}

	fieldNames, ok := b.oracle.FieldNames(typesystem.TCon{Name: v.Name})
	if !ok {
		return nil, pattern.Bindings{}, diagnostics.NewError(diagnostics.ErrUnrecognizedCase, v.Tok, "unknown constructor %s", v.Name)
	}
	if positional > 0 && spreadCount == 0 && positional != len(fieldNames) {
		return nil, pattern.Bindings{}, diagnostics.NewError(diagnostics.ErrWrongFieldCount, v.Tok, "constructor %s expects %d fields, got %d", v.Name, len(fieldNames), positional)
	}

	ctorType := typesystem.TCon{Name: v.Name}
	result := pattern.TypeTest(v.Tok, t, ctorType)
	binds := pattern.NewBindings()

	for i, f := range v.Args {
		if _, isSpread := f.Pattern.(*ast.SpreadPattern); isSpread {
			continue
		}
		name := f.Name
		if name == "" {
			if i >= len(fieldNames) {
				return nil, pattern.Bindings{}, diagnostics.NewError(diagnostics.ErrWrongFieldCount, v.Tok, "constructor %s expects %d fields, got more", v.Name, len(fieldNames))
			}
			name = fieldNames[i]
		} else if !containsName(fieldNames, name) {
			return nil, pattern.Bindings{}, diagnostics.NewError(diagnostics.ErrUnknownField, v.Tok, "constructor %s has no field %q", v.Name, name)
		}

		fieldType := b.oracle.FieldType(ctorType, name)
		fetch, fieldTemp := b.fetchCached(t, pattern.FetchKey("field:"+string(t)+":"+name), func(res pattern.Temp) pattern.Pattern {
			return pattern.FetchField(f.Pattern.GetToken(), t, name, fieldType, res)
		})
		fieldPattern, fieldBinds, err := b.bind(fieldTemp, f.Pattern)
		if err != nil {
			return nil, pattern.Bindings{}, err
		}
		result = pattern.And(v.Tok, result, fetch, fieldPattern)
		binds = mergeBindings(binds, fieldBinds)
	}
	return result, binds, nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// bindSequence implements tuple and array/list patterns: a length fetch and
// test (length equal to the element count, or at least the number of
// non-spread elements when a spread is present), then fixed positional
// elements before/after at most one SpreadPattern. No type test is emitted,
// so tuple and array patterns lower identically.
func (b *Binder) bindSequence(t pattern.Temp, tok token.Token, elems []ast.Pattern) (pattern.Pattern, pattern.Bindings, error) {
	spreadAt := -1
	for i, e := range elems {
		if _, ok := e.(*ast.SpreadPattern); ok {
			if spreadAt != -1 {
				return nil, pattern.Bindings{}, diagnostics.NewError(diagnostics.ErrMultipleSplats, e.GetToken(), "sequence pattern has more than one spread element")
			}
			spreadAt = i
		}
	}

	realTok := tok
	var result pattern.Pattern = pattern.True(realTok)
	binds := pattern.NewBindings()

	op, n := pattern.RelEq, len(elems)
	if spreadAt != -1 {
		op, n = pattern.RelGe, len(elems)-1
	}
	lenFetch, lenTemp := b.fetchCached(t, pattern.FetchKey(fmt.Sprintf("len:%s", t)), func(res pattern.Temp) pattern.Pattern {
		return pattern.FetchLength(tok, t, typesystem.Any, res)
	})
	result = pattern.And(realTok, result, lenFetch, pattern.RelationalTest(tok, lenTemp, op, n))

	if spreadAt == -1 {
		for i, e := range elems {
			fetch, idxTemp := b.fetchCached(t, pattern.FetchKey(fmt.Sprintf("idx:%s:%d", t, i+1)), func(res pattern.Temp) pattern.Pattern {
				return pattern.FetchIndex(e.GetToken(), t, i+1, typesystem.Any, res)
			})
			sub, subBinds, err := b.bind(idxTemp, e)
			if err != nil {
				return nil, pattern.Bindings{}, err
			}
			result = pattern.And(realTok, result, fetch, sub)
			binds = mergeBindings(binds, subBinds)
		}
		return result, binds, nil
	}

	before := elems[:spreadAt]
	after := elems[spreadAt+1:]
	for i, e := range before {
		fetch, idxTemp := b.fetchCached(t, pattern.FetchKey(fmt.Sprintf("idx:%s:%d", t, i+1)), func(res pattern.Temp) pattern.Pattern {
			return pattern.FetchIndex(e.GetToken(), t, i+1, typesystem.Any, res)
		})
		sub, subBinds, err := b.bind(idxTemp, e)
		if err != nil {
			return nil, pattern.Bindings{}, err
		}
		result = pattern.And(realTok, result, fetch, sub)
		binds = mergeBindings(binds, subBinds)
	}
	for j, e := range after {
		fromEnd := len(after) - j
		fetch, idxTemp := b.fetchCached(t, pattern.FetchKey(fmt.Sprintf("idxend:%s:%d", t, fromEnd)), func(res pattern.Temp) pattern.Pattern {
			return pattern.FetchIndex(e.GetToken(), t, -fromEnd, typesystem.Any, res)
		})
		sub, subBinds, err := b.bind(idxTemp, e)
		if err != nil {
			return nil, pattern.Bindings{}, err
		}
		result = pattern.And(realTok, result, fetch, sub)
		binds = mergeBindings(binds, subBinds)
	}
	if spread, ok := elems[spreadAt].(*ast.SpreadPattern); ok {
		if id, ok := spread.Pattern.(*ast.IdentifierPattern); ok {
			fetch, restTemp := b.fetchCached(t, pattern.FetchKey(fmt.Sprintf("rest:%s:%d", t, len(before))), func(res pattern.Temp) pattern.Pattern {
				return pattern.FetchRange(spread.Tok, t, len(before)+1, false, typesystem.Any, res)
			})
			result = pattern.And(realTok, result, fetch)
			binds = binds.With(id.Name, restTemp)
		}
	}
	return result, binds, nil
}

func (b *Binder) bindAnd(t pattern.Temp, v *ast.AndPattern) (pattern.Pattern, pattern.Bindings, error) {
	left, lb, err := b.bind(t, v.Left)
	if err != nil {
		return nil, pattern.Bindings{}, err
	}
	right, rb, err := b.bind(t, v.Right)
	if err != nil {
		return nil, pattern.Bindings{}, err
	}
	return pattern.And(v.Tok, left, right), mergeBindings(lb, rb), nil
}

// bindOr implements spec.md §4.2.1's phi-merging: both branches of a
// disjunction must bind the same set of names (to possibly different
// temps), and the resulting bound pattern rewrites both branches' uses of
// those names onto one shared "phi" temp per name, via a FetchExpression
// that just forwards whichever branch matched.
func (b *Binder) bindOr(t pattern.Temp, v *ast.OrPattern) (pattern.Pattern, pattern.Bindings, error) {
	// Each branch binds against its own copy of the enclosing scope, so a
	// name bound on the left is bound afresh (not re-tested) on the right.
	outer := b.scope
	branchScope := func() map[string]pattern.Temp {
		m := make(map[string]pattern.Temp, len(outer))
		for name, tmp := range outer {
			m[name] = tmp
		}
		return m
	}
	b.scope = branchScope()
	left, lb, err := b.bind(t, v.Left)
	if err != nil {
		return nil, pattern.Bindings{}, err
	}
	b.scope = branchScope()
	right, rb, err := b.bind(t, v.Right)
	if err != nil {
		return nil, pattern.Bindings{}, err
	}
	b.scope = outer

	lNames, rNames := lb.Names(), rb.Names()
	if !sameNameSet(lNames, rNames) {
		return nil, pattern.Bindings{}, diagnostics.NewError(diagnostics.ErrUndefinedVariable, v.Tok, "both sides of an `or` pattern must bind the same names")
	}

	phi := pattern.NewBindings()
	for _, name := range lNames {
		lt, _ := lb.Get(name)
		rt, _ := rb.Get(name)
		phiTemp := b.allocFresh()
		left = b.rewritePhi(left, lt, phiTemp, v.Tok)
		right = b.rewritePhi(right, rt, phiTemp, v.Tok)
		phi = phi.With(name, phiTemp)
		b.scope[name] = phiTemp
	}
	return pattern.Or(v.Tok, left, right), phi, nil
}

// rewritePhi ANDs in a same-value fetch renaming from to phi, so later
// references to the bound name (via phi) see the branch's actual temp. The
// spec explicitly rules out transitive phi-chaining (SPEC_FULL.md §5): a
// phi temp is always a direct alias of exactly one branch temp, never of
// another phi.
func (b *Binder) rewritePhi(p pattern.Pattern, from, phi pattern.Temp, tok token.Token) pattern.Pattern {
	alias := pattern.FetchExpression(tok, from, &ast.TempRef{Temp: string(from)}, pattern.NewBindings(), string(phi), typesystem.Any, phi)
	return pattern.And(tok, p, alias)
}

func (b *Binder) bindWhere(t pattern.Temp, v *ast.WherePattern) (pattern.Pattern, pattern.Bindings, error) {
	inner, binds, err := b.bind(t, v.Inner)
	if err != nil {
		return nil, pattern.Bindings{}, err
	}
	return b.addGuard(inner, b.rewriteScoped(v.Guard), binds), binds, nil
}

// fetchCached returns the fetch pattern to AND into the current arm plus
// the temp it delivers its value to. The *temp* is cached per (t, key)
// across every arm this Binder ever lowers (spec.md §4.2: "temp allocation
// is cached per (input, key)"), so identical field/index accesses in
// different arms compile to the same temp name and the automaton builder's
// structural interning recognizes them as the same fetch. The fetch
// *pattern* returned to the caller is freshly built on every call (even a
// cache hit): each arm needs its own FetchX node in its own conjunction
// tree, and pattern.Pattern equality is structural, so two arms' fetches
// naming the same (t, key, result-temp) compare equal regardless of being
// distinct objects.
func (b *Binder) fetchCached(t pattern.Temp, key pattern.FetchKey, build func(result pattern.Temp) pattern.Pattern) (pattern.Pattern, pattern.Temp) {
	m, ok := b.cache[t]
	if !ok {
		m = make(map[pattern.FetchKey]pattern.Temp)
		b.cache[t] = m
	}
	result, ok := m[key]
	if !ok {
		result = b.allocFresh()
		m[key] = result
	}
	return build(result), result
}

func (b *Binder) allocFresh() pattern.Temp {
	b.counter++
	return pattern.Temp(fmt.Sprintf("t%d", b.counter))
}

func mergeBindings(a, b pattern.Bindings) pattern.Bindings {
	out := a
	for _, e := range b.Entries() {
		out = out.With(e.Name, e.Temp)
	}
	return out
}

func sameNameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, n := range a {
		set[n] = true
	}
	for _, n := range b {
		if !set[n] {
			return false
		}
	}
	return true
}
