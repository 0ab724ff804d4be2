// Package rpcservice exposes the same compile-match entry points cmd/matchc
// runs locally over gRPC, using a hand-rolled grpc.ServiceDesc against a
// dynamically parsed compile.proto instead of protoc-gen-go-grpc stubs.
// Request and response messages are built with jhump/protoreflect's dynamic
// package, building services at runtime from a loaded proto file.
package rpcservice

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/funvibe/matchc/internal/compiler"
	"github.com/funvibe/matchc/internal/matchspec"
	"github.com/funvibe/matchc/internal/typesystem"
)

// Server implements the CompileService RPCs declared in compile.proto
// against a parsed .matchc.yaml document carried in each request.
type Server struct {
	oracle typesystem.Oracle
	sd     *desc.ServiceDescriptor
}

// New parses protoPath (normally the compile.proto shipped alongside this
// package) and returns a Server ready to Register against a grpc.Server.
func New(protoPath string, oracle typesystem.Oracle) (*Server, error) {
	parser := protoparse.Parser{ImportPaths: []string{filepath.Dir(protoPath)}}
	fds, err := parser.ParseFiles(filepath.Base(protoPath))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", protoPath, err)
	}
	if len(fds) == 0 {
		return nil, fmt.Errorf("%s: no file descriptors produced", protoPath)
	}

	sd := fds[0].FindService("matchc.rpc.CompileService")
	if sd == nil {
		return nil, fmt.Errorf("%s: service matchc.rpc.CompileService not found", protoPath)
	}

	return &Server{oracle: oracle, sd: sd}, nil
}

// Register builds a grpc.ServiceDesc from the parsed descriptor and wires it
// into srv, attaching a handler to a server that already exists.
func (s *Server) Register(srv *grpc.Server) {
	gsd := &grpc.ServiceDesc{
		ServiceName: s.sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Metadata:    s.sd.GetFile().GetName(),
	}

	for _, method := range s.sd.GetMethods() {
		md := method
		gsd.Methods = append(gsd.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler: func(_ interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				return s.handleUnary(ctx, md, dec)
			},
		})
	}

	srv.RegisterService(gsd, s)
}

func (s *Server) handleUnary(_ context.Context, md *desc.MethodDescriptor, dec func(interface{}) error) (interface{}, error) {
	in := dynamic.NewMessage(md.GetInputType())
	if err := dec(in); err != nil {
		return nil, err
	}

	out := dynamic.NewMessage(md.GetOutputType())

	switch md.GetName() {
	case "CompileMatch":
		if err := s.compileMatch(in, out); err != nil {
			return nil, err
		}
	case "CompileIsMatch":
		if err := s.compileIsMatch(in, out); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unhandled method %s", md.GetName())
	}

	return out, nil
}

func (s *Server) compileMatch(in, out *dynamic.Message) error {
	specYAML, err := getBytesField(in, "spec_yaml")
	if err != nil {
		return err
	}

	doc, err := matchspec.LoadBytes(specYAML, "<rpc request>")
	if err != nil {
		return err
	}
	if len(doc.Matches) != 1 {
		return fmt.Errorf("CompileMatch expects exactly one declared match, got %d", len(doc.Matches))
	}

	m := doc.Matches[0]
	result, err := compiler.CompileMatch(s.oracle, m.FuncName, m.ResultType, m.Scrutinee, m.Arms)
	if err != nil {
		return fmt.Errorf("compiling %q: %w", m.FuncName, err)
	}

	if err := setStringField(out, "source", result.Source); err != nil {
		return err
	}
	warnings := make([]interface{}, len(result.Warnings))
	for i, w := range result.Warnings {
		warnings[i] = w.Message
	}
	return setRepeatedField(out, "warnings", warnings)
}

func (s *Server) compileIsMatch(in, out *dynamic.Message) error {
	specYAML, err := getBytesField(in, "spec_yaml")
	if err != nil {
		return err
	}
	funcName, err := getStringField(in, "func_name")
	if err != nil {
		return err
	}

	doc, err := matchspec.LoadBytes(specYAML, "<rpc request>")
	if err != nil {
		return err
	}

	var target *matchspec.Match
	for _, m := range doc.Matches {
		if m.FuncName == funcName {
			target = m
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no declared match named %q", funcName)
	}
	if !target.BoolMode || len(target.Arms) != 1 {
		return fmt.Errorf("match %q is not a single-arm bool_mode match", funcName)
	}

	result, err := compiler.CompileIsMatch(s.oracle, target.FuncName, target.Scrutinee, target.Arms[0].Pattern)
	if err != nil {
		return fmt.Errorf("compiling %q: %w", funcName, err)
	}

	return setStringField(out, "source", result.Source)
}

func getBytesField(msg *dynamic.Message, name string) ([]byte, error) {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return nil, fmt.Errorf("field %q not found on %s", name, msg.GetMessageDescriptor().GetFullyQualifiedName())
	}
	v := msg.GetField(fd)
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("field %q is not bytes", name)
	}
	return b, nil
}

func getStringField(msg *dynamic.Message, name string) (string, error) {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return "", fmt.Errorf("field %q not found on %s", name, msg.GetMessageDescriptor().GetFullyQualifiedName())
	}
	v := msg.GetField(fd)
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", name)
	}
	return str, nil
}

func setStringField(msg *dynamic.Message, name, value string) error {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return fmt.Errorf("field %q not found on %s", name, msg.GetMessageDescriptor().GetFullyQualifiedName())
	}
	return msg.TrySetField(fd, value)
}

func setRepeatedField(msg *dynamic.Message, name string, values []interface{}) error {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return fmt.Errorf("field %q not found on %s", name, msg.GetMessageDescriptor().GetFullyQualifiedName())
	}
	for _, v := range values {
		if err := msg.TryAddRepeatedField(fd, v); err != nil {
			return err
		}
	}
	return nil
}
