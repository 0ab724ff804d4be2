// Package runtime holds the small set of helpers emitted code calls into:
// structural equality, type narrowing, length/slicing of host values, and
// the two panic types spec.md §7 names (MatchFailure,
// TypeBindingChanged); emitted code raises only MatchFailure. Grounded on internal/evaluator's
// matchPattern (internal/evaluator/expressions_control.go) and
// bindPatternToValue (internal/evaluator/statements_patterns.go), which do
// the same equality/type-check/index work dynamically at tree-walk time;
// here the same checks are library calls the generated code invokes
// instead of a recursive matcher.
package runtime

import (
	"fmt"
	"reflect"
)

// MatchFailure is raised when a match expression (compile_match) runs out
// of arms for a given scrutinee value (spec.md §7, "MatchFailure").
type MatchFailure struct {
	Scrutinee any
}

func (f MatchFailure) Error() string {
	return fmt.Sprintf("matchc: no arm matched value %#v", f.Scrutinee)
}

// TypeBindingChanged describes a binding whose value changed from its first
// binding to a later one. No code emitted by matchc raises it: a pinned
// identifier pattern lowers to an equality test, and an unequal value just
// makes that arm not match.
type TypeBindingChanged struct {
	Name     string
	Previous any
	Next     any
}

func (e TypeBindingChanged) Error() string {
	return fmt.Sprintf("matchc: binding %q changed from %#v to %#v", e.Name, e.Previous, e.Next)
}

// Equal implements spec.md §3's EqualValueTest: deep structural equality
// over host values, not pointer/reflect.DeepEqual identity, so that two
// differently-constructed but equal slices/maps/structs compare equal.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		if cv, ok := coerceNumeric(av, bv); ok {
			return cv
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func coerceNumeric(av, bv reflect.Value) (bool, bool) {
	if !isNumeric(av.Kind()) || !isNumeric(bv.Kind()) {
		return false, false
	}
	af, aok := asFloat(av)
	bf, bok := asFloat(bv)
	if !aok || !bok {
		return false, false
	}
	return af == bf, true
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func asFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

// IsType implements spec.md §3's TypeTest: does v's dynamic type satisfy T?
func IsType[T any](v any) bool {
	_, ok := v.(T)
	return ok
}

// Len implements spec.md §3's FetchLength over anything with a runtime
// notion of length: strings, slices, arrays, and maps.
func Len(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len()
	default:
		return 0
	}
}

// IndexFromEnd implements spec.md §3's FetchIndex with a negative index:
// element n from the end (1-based), e.g. IndexFromEnd(xs, 1) is xs's last
// element.
func IndexFromEnd(v any, n int) any {
	rv := reflect.ValueOf(v)
	i := rv.Len() - n
	return rv.Index(i).Interface()
}

// SliceFromEnd implements spec.md §3's FetchRange anchored at the end: the
// last n elements of v.
func SliceFromEnd(v any, n int) any {
	rv := reflect.ValueOf(v)
	start := rv.Len() - n
	if start < 0 {
		start = 0
	}
	return rv.Slice(start, rv.Len()).Interface()
}

// Tuple packages positional values the same way compile_match's host
// tuple-expression arms do; it exists so emitted code does not need to
// know the concrete arity-N tuple type at codegen time.
func Tuple(vs ...any) []any {
	return vs
}
