// Package prototype is a typesystem.Oracle backed by live protobuf
// descriptors, for matching on decoded gRPC messages. Grounded on the
// teacher's internal/evaluator/builtins_grpc.go, which already loads
// .proto files with protoparse and walks desc.MessageDescriptor/
// desc.FieldDescriptor for its protoEncode/protoDecode/grpcInvoke
// builtins; this oracle answers the same descriptor questions but for
// the compiler's binder instead of a dynamic runtime conversion.
package prototype

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/diagnostics"
	"github.com/funvibe/matchc/internal/token"
	"github.com/funvibe/matchc/internal/typesystem"
)

// Oracle resolves `::pkg.Message` type expressions against a set of
// loaded .proto files, and `::pkg.Message.oneof_name` against the oneof
// case union those files declare.
type Oracle struct {
	mu       sync.RWMutex
	messages map[string]*desc.MessageDescriptor
	oneofs   map[string]*desc.OneOfDescriptor
}

// Load parses the given .proto files (searched under importPaths, "."
// if none given) and builds an Oracle over every message and oneof
// they declare, the same protoparse.Parser the teacher's
// grpcLoadProto builtin uses.
func Load(protoFiles []string, importPaths []string) (*Oracle, error) {
	if len(importPaths) == 0 {
		importPaths = []string{"."}
	}
	parser := protoparse.Parser{ImportPaths: importPaths}
	fds, err := parser.ParseFiles(protoFiles...)
	if err != nil {
		return nil, fmt.Errorf("loading proto descriptors: %w", err)
	}

	o := &Oracle{
		messages: make(map[string]*desc.MessageDescriptor),
		oneofs:   make(map[string]*desc.OneOfDescriptor),
	}
	for _, fd := range fds {
		o.registerFile(fd)
	}
	return o, nil
}

func (o *Oracle) registerFile(fd *desc.FileDescriptor) {
	for _, md := range fd.GetMessageTypes() {
		o.registerMessage(md)
	}
}

func (o *Oracle) registerMessage(md *desc.MessageDescriptor) {
	o.messages[md.GetFullyQualifiedName()] = md
	for _, oo := range md.GetOneOfs() {
		name := md.GetFullyQualifiedName() + "." + oo.GetName()
		o.oneofs[name] = oo
	}
	for _, nested := range md.GetNestedMessageTypes() {
		o.registerMessage(nested)
	}
}

// ResolveType implements typesystem.Oracle. expr must be an
// *ast.TypeExpr naming either a fully-qualified message ("pkg.Msg") or
// one of its oneofs ("pkg.Msg.kind").
func (o *Oracle) ResolveType(expr interface{}, loc fmt.Stringer) (typesystem.Type, error) {
	te, ok := expr.(*ast.TypeExpr)
	if !ok {
		return nil, diagErr(diagnostics.ErrNonType, loc, "expression does not name a type")
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	if _, ok := o.messages[te.Name]; ok {
		return typesystem.TCon{Name: te.Name}, nil
	}
	if _, ok := o.oneofs[te.Name]; ok {
		return typesystem.TCon{Name: te.Name}, nil
	}
	return nil, diagErr(diagnostics.ErrUnresolvedType, loc, "unresolved protobuf type %q", te.Name)
}

// FieldNames implements typesystem.Oracle: returns field names in
// ascending protobuf field-number order, matching the wire-stable order
// the teacher's dynamicMessageToObject iterates GetFields() in.
func (o *Oracle) FieldNames(t typesystem.Type) ([]string, bool) {
	con, ok := t.(typesystem.TCon)
	if !ok {
		return nil, false
	}
	o.mu.RLock()
	md, ok := o.messages[con.Name]
	o.mu.RUnlock()
	if !ok {
		return nil, false
	}
	fields := append([]*desc.FieldDescriptor(nil), md.GetFields()...)
	sort.Slice(fields, func(i, j int) bool { return fields[i].GetNumber() < fields[j].GetNumber() })
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.GetName()
	}
	return names, true
}

// FieldType implements typesystem.Oracle, mapping a protobuf field's
// wire type to a Type handle the same way the teacher's
// getProtoTypeAsFunxy does, except nested messages resolve to their own
// registered TCon rather than always widening to Any.
func (o *Oracle) FieldType(t typesystem.Type, field string) typesystem.Type {
	con, ok := t.(typesystem.TCon)
	if !ok {
		return typesystem.Any
	}
	o.mu.RLock()
	md, ok := o.messages[con.Name]
	o.mu.RUnlock()
	if !ok {
		return typesystem.Any
	}
	fd := md.FindFieldByName(field)
	if fd == nil {
		return typesystem.Any
	}
	if fd.GetType() == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		return typesystem.TCon{Name: fd.GetMessageType().GetFullyQualifiedName()}
	}
	return typesystem.TCon{Name: protoScalarName(fd.GetType())}
}

func protoScalarName(t descriptorpb.FieldDescriptorProto_Type) string {
	switch t {
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return "String"
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return "Bool"
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return "Bytes"
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return "Float"
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return "Enum"
	default:
		return "Int"
	}
}

// Subtype implements typesystem.Oracle: a message is a subtype of a
// oneof if it's one of that oneof's declared case types, modeling
// spec.md's "narrow a type test on a sum type" example for protobuf's
// `oneof` union.
func (o *Oracle) Subtype(a, b typesystem.Type) bool {
	if typesystem.Equal(a, b) {
		return true
	}
	ac, aok := a.(typesystem.TCon)
	bc, bok := b.(typesystem.TCon)
	if !aok || !bok {
		return false
	}
	o.mu.RLock()
	oo, ok := o.oneofs[bc.Name]
	o.mu.RUnlock()
	if !ok {
		return false
	}
	for _, choice := range oo.GetChoices() {
		if choice.GetType() == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE &&
			choice.GetMessageType().GetFullyQualifiedName() == ac.Name {
			return true
		}
	}
	return false
}

// Intersect implements typesystem.Oracle with the same "more precise
// type wins" rule as internal/oracle/native.
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

func diagErr(code diagnostics.ErrorCode, loc fmt.Stringer, format string, args ...interface{}) error {
	tok, _ := loc.(token.Token)
	return diagnostics.NewError(code, tok, format, args...)
}
