// Package simplify is C5 of spec.md §2: rewrites a bound pattern given that
// a specific fetch has been performed, or that a specific test evaluated to
// true/false. There is no teacher equivalent — funxy's matchPattern
// (evaluator/expressions_control.go) re-walks the whole surface pattern on
// every arm instead of algebraically simplifying a shared intermediate
// form — so this package is grounded directly on spec.md §4.4's rules.
package simplify

import (
	"github.com/funvibe/matchc/internal/pattern"
	"github.com/funvibe/matchc/internal/typesystem"
)

// RemoveFetch returns p with any subpattern structurally equal to the fetch
// action a replaced by True, propagated through And/Or (spec.md §4.4,
// "Given a fetch-action a and a pattern p").
func RemoveFetch(a pattern.Pattern, p pattern.Pattern) pattern.Pattern {
	if p.Equal(a) {
		return pattern.True(p.Token())
	}
	if subs, ok := pattern.AsAnd(p); ok {
		out := make([]pattern.Pattern, len(subs))
		for i, s := range subs {
			out[i] = RemoveFetch(a, s)
		}
		return simplifyAnd(p, out)
	}
	if subs, ok := pattern.AsOr(p); ok {
		out := make([]pattern.Pattern, len(subs))
		for i, s := range subs {
			out[i] = RemoveFetch(a, s)
		}
		return simplifyOr(p, out)
	}
	return p
}

// Test rewrites p given that test action a evaluated to sense (spec.md
// §4.4, "Given a test-action a, a sense...").
func Test(a pattern.Pattern, sense bool, p pattern.Pattern, oracle typesystem.Oracle) pattern.Pattern {
	if p.Equal(a) {
		if sense {
			return pattern.True(p.Token())
		}
		return pattern.False(p.Token())
	}

	if p.Kind() == pattern.KTypeTest && a.Kind() == pattern.KTypeTest {
		if out, ok := refineTypeTest(a, sense, p, oracle); ok {
			return out
		}
	}

	if p.Kind() == pattern.KWhereTest && a.Kind() == pattern.KWhereTest {
		if out, ok := refineWhereTest(a, sense, p); ok {
			return out
		}
	}

	if subs, ok := pattern.AsAnd(p); ok {
		out := make([]pattern.Pattern, len(subs))
		for i, s := range subs {
			out[i] = Test(a, sense, s, oracle)
		}
		return simplifyAnd(p, out)
	}
	if subs, ok := pattern.AsOr(p); ok {
		out := make([]pattern.Pattern, len(subs))
		for i, s := range subs {
			out[i] = Test(a, sense, s, oracle)
		}
		return simplifyOr(p, out)
	}
	return p
}

// refineTypeTest implements spec.md §4.4's "Type-test refinement" for two
// TypeTests sharing the same input temporary.
func refineTypeTest(a pattern.Pattern, sense bool, p pattern.Pattern, oracle typesystem.Oracle) (pattern.Pattern, bool) {
	aInput, aType, _ := pattern.AsTypeTest(a)
	pInput, pType, _ := pattern.AsTypeTest(p)
	if aInput != pInput {
		return nil, false
	}
	if sense {
		if oracle.Subtype(aType, pType) {
			return pattern.True(p.Token()), true
		}
		if oracle.Subtype(pType, aType) {
			// p is strictly narrower than a: knowing the input is an `a`
			// doesn't decide whether it's a `p` too — keep p as is.
			return p, true
		}
		if oracle.Intersect(aType, pType) == nil {
			return pattern.False(p.Token()), true
		}
		return p, true
	}
	// sense == false
	if oracle.Subtype(pType, aType) {
		return pattern.False(p.Token()), true
	}
	return p, true
}

// refineWhereTest implements spec.md §4.4's "Where-test inversion" for two
// WhereTests over the same guard temporary.
func refineWhereTest(a pattern.Pattern, sense bool, p pattern.Pattern) (pattern.Pattern, bool) {
	aTemp, aInv, _ := pattern.AsWhereTest(a)
	pTemp, pInv, _ := pattern.AsWhereTest(p)
	if aTemp != pTemp {
		return nil, false
	}
	if (aInv == pInv) == sense {
		return pattern.True(p.Token()), true
	}
	return pattern.False(p.Token()), true
}

// simplifyAnd applies local boolean simplification to a rewritten And:
// True subpatterns are absorbed, any False subpattern collapses the whole
// conjunction, and a single surviving subpattern replaces the And.
func simplifyAnd(orig pattern.Pattern, subs []pattern.Pattern) pattern.Pattern {
	var kept []pattern.Pattern
	for _, s := range subs {
		if pattern.IsFalse(s) {
			return pattern.False(orig.Token())
		}
		if pattern.IsTrue(s) {
			continue
		}
		kept = append(kept, s)
	}
	switch len(kept) {
	case 0:
		return pattern.True(orig.Token())
	case 1:
		return kept[0]
	default:
		return pattern.And(orig.Token(), kept...)
	}
}

// simplifyOr applies local boolean simplification to a rewritten Or: False
// subpatterns are absorbed, any True subpattern collapses the whole
// disjunction, and a single surviving subpattern replaces the Or.
func simplifyOr(orig pattern.Pattern, subs []pattern.Pattern) pattern.Pattern {
	var kept []pattern.Pattern
	for _, s := range subs {
		if pattern.IsTrue(s) {
			return pattern.True(orig.Token())
		}
		if pattern.IsFalse(s) {
			continue
		}
		kept = append(kept, s)
	}
	switch len(kept) {
	case 0:
		return pattern.False(orig.Token())
	case 1:
		return kept[0]
	default:
		return pattern.Or(orig.Token(), kept...)
	}
}
