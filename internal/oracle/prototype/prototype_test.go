package prototype_test

import (
	"testing"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/diagnostics"
	"github.com/funvibe/matchc/internal/oracle/prototype"
	"github.com/funvibe/matchc/internal/token"
)

func tok(line int) token.Token { return token.Token{File: "t.mx", Line: line} }

func load(t *testing.T) *prototype.Oracle {
	t.Helper()
	o, err := prototype.Load([]string{"sample.proto"}, []string{"testdata"})
	if err != nil {
		t.Fatalf("loading testdata/sample.proto: %v", err)
	}
	return o
}

func TestResolveMessageAndFieldOrder(t *testing.T) {
	o := load(t)
	te := &ast.TypeExpr{Tok: tok(1), Name: "matchc.test.Ping"}
	typ, err := o.ResolveType(te, te.Tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names, ok := o.FieldNames(typ)
	if !ok || len(names) != 1 || names[0] != "token" {
		t.Fatalf("expected [token], got %v/%v", names, ok)
	}
}

func TestResolveUnknownMessageIsUnresolvedType(t *testing.T) {
	o := load(t)
	te := &ast.TypeExpr{Tok: tok(1), Name: "matchc.test.Nope"}
	_, err := o.ResolveType(te, te.Tok)
	de, ok := err.(*diagnostics.DiagnosticError)
	if !ok || de.Code != diagnostics.ErrUnresolvedType {
		t.Fatalf("expected ErrUnresolvedType, got %v", err)
	}
}

func TestOneofCaseIsSubtypeOfOneof(t *testing.T) {
	o := load(t)
	pingTok := &ast.TypeExpr{Tok: tok(1), Name: "matchc.test.Ping"}
	ping, err := o.ResolveType(pingTok, pingTok.Tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	oneofTok := &ast.TypeExpr{Tok: tok(1), Name: "matchc.test.Envelope.body"}
	body, err := o.ResolveType(oneofTok, oneofTok.Tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !o.Subtype(ping, body) {
		t.Fatalf("expected Ping to be a subtype of the body oneof")
	}
	if got := o.Intersect(ping, body); got == nil || got.String() != "matchc.test.Ping" {
		t.Fatalf("expected Intersect(Ping, body) to be Ping, got %v", got)
	}
}
