// Package native is the default typesystem.Oracle (no matchc.yaml
// oracle_plugin configured, or oracle_plugin: native): it answers type
// questions about plain registered Go struct types plus the handful of
// built-in ADTs matchc ships (Option, Result, List, Tuple), the same way
// the teacher's HostObject (internal/evaluator/host_object.go,
// host_access.go) reflects over an arbitrary wrapped Go value instead of
// carrying its own runtime type representation for every host type.
package native

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/config"
	"github.com/funvibe/matchc/internal/diagnostics"
	"github.com/funvibe/matchc/internal/token"
	"github.com/funvibe/matchc/internal/typesystem"
)

// Oracle resolves `::Name` type expressions against a registry of Go
// struct types, populated by Register, plus matchc's built-in ADTs.
type Oracle struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// New returns an Oracle with no registered types beyond the built-ins.
func New() *Oracle {
	return &Oracle{types: make(map[string]reflect.Type)}
}

// Register associates a surface type name with the Go struct type of
// zero (a zero value or nil pointer of the type to register, the same
// calling convention as encoding/json's RegisterName-style helpers).
// Field order for FieldNames is the struct's declared field order.
func (o *Oracle) Register(name string, zero interface{}) {
	t := reflect.TypeOf(zero)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.types[name] = t
}

func (o *Oracle) lookup(name string) (reflect.Type, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	t, ok := o.types[name]
	return t, ok
}

func isBuiltinADT(name string) bool {
	switch name {
	case config.OptionTypeName, config.ResultTypeName, config.ListTypeName, config.TupleTypeName,
		config.SomeCtorName, config.NoneCtorName, config.OkCtorName, config.FailCtorName:
		return true
	}
	return false
}

// ResolveType implements typesystem.Oracle. expr must be an *ast.TypeExpr;
// any other expression shape is M002 ("not a type").
func (o *Oracle) ResolveType(expr interface{}, loc fmt.Stringer) (typesystem.Type, error) {
	te, ok := expr.(*ast.TypeExpr)
	if !ok {
		return nil, diagnosticErrorf(diagnostics.ErrNonType, loc, "expression does not name a type")
	}
	if isBuiltinADT(te.Name) {
		return typesystem.TCon{Name: te.Name}, nil
	}
	if _, ok := o.lookup(te.Name); ok {
		return typesystem.TCon{Name: te.Name}, nil
	}
	return nil, diagnosticErrorf(diagnostics.ErrUnresolvedType, loc, "unresolved type %q", te.Name)
}

// FieldNames implements typesystem.Oracle via reflection over the
// registered struct's exported fields, in declaration order.
func (o *Oracle) FieldNames(t typesystem.Type) ([]string, bool) {
	con, ok := t.(typesystem.TCon)
	if !ok {
		return nil, false
	}
	rt, ok := o.lookup(con.Name)
	if !ok || rt.Kind() != reflect.Struct {
		return nil, false
	}
	names := make([]string, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		names = append(names, f.Name)
	}
	return names, true
}

// FieldType implements typesystem.Oracle. Unknown fields and fields whose
// Go type isn't itself a registered type resolve to typesystem.Any.
func (o *Oracle) FieldType(t typesystem.Type, field string) typesystem.Type {
	con, ok := t.(typesystem.TCon)
	if !ok {
		return typesystem.Any
	}
	rt, ok := o.lookup(con.Name)
	if !ok || rt.Kind() != reflect.Struct {
		return typesystem.Any
	}
	sf, ok := rt.FieldByName(field)
	if !ok {
		return typesystem.Any
	}
	if name, ok := o.nameOf(sf.Type); ok {
		return typesystem.TCon{Name: name}
	}
	return typesystem.Any
}

// nameOf finds a registered name for a reflect.Type, the inverse of
// Register, used so FieldType can report a field's own registered type
// instead of always falling back to Any.
func (o *Oracle) nameOf(rt reflect.Type) (string, bool) {
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	for name, candidate := range o.types {
		if candidate == rt {
			return name, true
		}
	}
	return "", false
}

// Subtype implements typesystem.Oracle. The native oracle has no
// subtyping beyond equality, except that each ADT constructor (Some,
// None, Ok, Fail) is a subtype of its parent (Option, Result) per
// spec.md's worked examples of narrowing a type test on a sum type.
func (o *Oracle) Subtype(a, b typesystem.Type) bool {
	if typesystem.Equal(a, b) {
		return true
	}
	ac, aok := a.(typesystem.TCon)
	bc, bok := b.(typesystem.TCon)
	if !aok || !bok {
		return false
	}
	switch ac.Name {
	case config.SomeCtorName, config.NoneCtorName:
		return bc.Name == config.OptionTypeName
	case config.OkCtorName, config.FailCtorName:
		return bc.Name == config.ResultTypeName
	}
	return false
}

// Intersect implements typesystem.Oracle: equal types intersect to
// themselves, a constructor and its parent ADT intersect to the
// constructor (the more precise type survives), otherwise empty.
func (o *Oracle) Intersect(a, b typesystem.Type) typesystem.Type {
	if typesystem.Equal(a, b) {
		return a
	}
	if o.Subtype(a, b) {
		return a
	}
	if o.Subtype(b, a) {
		return b
	}
	return nil
}

// diagnosticErrorf builds a DiagnosticError from the fmt.Stringer the
// binder passes as loc. In practice the binder always passes the
// ast.TypeExpr's own token.Token (which satisfies fmt.Stringer via its
// value-receiver String method); a loc of any other concrete type still
// produces a usable error, just without file:line:col attribution.
func diagnosticErrorf(code diagnostics.ErrorCode, loc fmt.Stringer, format string, args ...interface{}) error {
	tok, _ := loc.(token.Token)
	return diagnostics.NewError(code, tok, format, args...)
}

// RegisteredNames returns the sorted list of user-registered type names.
func (o *Oracle) RegisteredNames() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	names := make([]string, 0, len(o.types))
	for n := range o.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
