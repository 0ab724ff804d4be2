// Package matchspec loads a .matchc.yaml match-spec document and builds the
// internal/ast trees (expressions, patterns, arms) the compiler consumes.
// A host-language source parser is out of scope here, so cmd/matchc's
// input is authored structurally instead: one YAML node per expression or
// pattern, tagged by a "kind" discriminator, decoded with the same
// gopkg.in/yaml.v3 used elsewhere in this module for project config.
package matchspec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/token"
)

// Document is the decoded top-level .matchc.yaml file.
type Document struct {
	Package string   `yaml:"package"`
	Matches []*Match `yaml:"-"`
}

// Match is one declared match expression, ready for internal/compiler.
type Match struct {
	FuncName   string
	ResultType string
	BoolMode   bool
	Scrutinee  ast.Expression
	Arms       []*ast.MatchArm
}

type rawDocument struct {
	Package string         `yaml:"package"`
	Matches []rawMatchSpec `yaml:"matches"`
}

type rawMatchSpec struct {
	Func       string    `yaml:"func"`
	ResultType string    `yaml:"result_type"`
	BoolMode   bool      `yaml:"bool_mode"`
	Scrutinee  yaml.Node `yaml:"scrutinee"`
	Arms       []rawArm  `yaml:"arms"`
}

type rawArm struct {
	Pattern yaml.Node  `yaml:"pattern"`
	Guard   *yaml.Node `yaml:"guard"`
	Result  yaml.Node  `yaml:"result"`
}

// Load reads and decodes path into a Document whose Matches are fully built
// ast trees.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading match spec %q: %w", path, err)
	}
	return LoadBytes(data, path)
}

// LoadBytes decodes an already-read match-spec document, e.g. one carried
// over the wire in a CompileRequest rather than read from disk. path is
// used only to label source-location tokens (diagnostics.DiagnosticError's
// file field); it need not name a real file.
func LoadBytes(data []byte, path string) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing match spec %q: %w", path, err)
	}

	doc := &Document{Package: raw.Package}
	for _, rm := range raw.Matches {
		scrutinee, err := exprFromNode(&rm.Scrutinee, path)
		if err != nil {
			return nil, fmt.Errorf("match %q scrutinee: %w", rm.Func, err)
		}

		arms := make([]*ast.MatchArm, 0, len(rm.Arms))
		for i, ra := range rm.Arms {
			pat, err := patternFromNode(&ra.Pattern, path)
			if err != nil {
				return nil, fmt.Errorf("match %q arm %d pattern: %w", rm.Func, i, err)
			}
			result, err := exprFromNode(&ra.Result, path)
			if err != nil {
				return nil, fmt.Errorf("match %q arm %d result: %w", rm.Func, i, err)
			}
			var guard ast.Expression
			if ra.Guard != nil {
				guard, err = exprFromNode(ra.Guard, path)
				if err != nil {
					return nil, fmt.Errorf("match %q arm %d guard: %w", rm.Func, i, err)
				}
			}
			arms = append(arms, &ast.MatchArm{
				Tok:     tokOf(&ra.Pattern, path),
				Pattern: pat,
				Guard:   guard,
				Result:  result,
			})
		}

		doc.Matches = append(doc.Matches, &Match{
			FuncName:   rm.Func,
			ResultType: rm.ResultType,
			BoolMode:   rm.BoolMode,
			Scrutinee:  scrutinee,
			Arms:       arms,
		})
	}
	return doc, nil
}

func tokOf(n *yaml.Node, file string) token.Token {
	return token.Token{File: file, Line: n.Line, Column: n.Column, Lexeme: n.Value}
}

func fields(n *yaml.Node) (map[string]yaml.Node, error) {
	if n == nil || n.Kind == 0 {
		return nil, fmt.Errorf("expected a mapping node, got an empty node")
	}
	var m map[string]yaml.Node
	if err := n.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

func kindOf(m map[string]yaml.Node) string {
	if k, ok := m["kind"]; ok {
		return k.Value
	}
	return ""
}

func childExpr(m map[string]yaml.Node, key, file string) (ast.Expression, error) {
	n, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("missing %q", key)
	}
	return exprFromNode(&n, file)
}

func childPattern(m map[string]yaml.Node, key, file string) (ast.Pattern, error) {
	n, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("missing %q", key)
	}
	return patternFromNode(&n, file)
}

func scalarValue(n yaml.Node) (interface{}, error) {
	var v interface{}
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// exprFromNode decodes one YAML expression node into an ast.Expression.
// Recognized kinds: ident, literal, call, tuple, sequence, binary, not,
// interpolation, match_fail, match_return.
func exprFromNode(n *yaml.Node, file string) (ast.Expression, error) {
	m, err := fields(n)
	if err != nil {
		return nil, err
	}
	tok := tokOf(n, file)

	switch kindOf(m) {
	case "ident":
		return &ast.Identifier{Tok: tok, Name: m["name"].Value}, nil

	case "literal":
		v, err := scalarValue(m["value"])
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Tok: tok, Value: v}, nil

	case "call":
		args, err := argsFromNode(m["args"], file)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Tok: tok, Name: m["name"].Value, Args: args}, nil

	case "tuple":
		elems, err := exprListFromNode(m["elements"], file)
		if err != nil {
			return nil, err
		}
		return &ast.TupleExpr{Tok: tok, Elements: elems}, nil

	case "sequence":
		elems, err := exprListFromNode(m["elements"], file)
		if err != nil {
			return nil, err
		}
		return &ast.SequenceExpr{Tok: tok, Elements: elems}, nil

	case "binary":
		left, err := childExpr(m, "left", file)
		if err != nil {
			return nil, err
		}
		right, err := childExpr(m, "right", file)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Tok: tok, Op: m["op"].Value, Left: left, Right: right}, nil

	case "not":
		operand, err := childExpr(m, "operand", file)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryNotExpr{Tok: tok, Operand: operand}, nil

	case "interpolation":
		inner, err := childExpr(m, "expr", file)
		if err != nil {
			return nil, err
		}
		return &ast.Interpolation{Tok: tok, Expr: inner}, nil

	case "match_fail":
		return &ast.MatchFail{Tok: tok}, nil

	case "match_return":
		value, err := childExpr(m, "value", file)
		if err != nil {
			return nil, err
		}
		return &ast.MatchReturn{Tok: tok, Value: value}, nil

	default:
		return nil, fmt.Errorf("%s: unknown expression kind %q", tok, kindOf(m))
	}
}

// patternFromNode decodes one YAML pattern node into an ast.Pattern.
// Recognized kinds: wildcard, literal, interpolation, ident, type, ctor,
// spread, tuple, array, and, or, where, pin.
func patternFromNode(n *yaml.Node, file string) (ast.Pattern, error) {
	m, err := fields(n)
	if err != nil {
		return nil, err
	}
	tok := tokOf(n, file)

	switch kindOf(m) {
	case "wildcard":
		return &ast.WildcardPattern{Tok: tok}, nil

	case "literal":
		value, err := childExpr(m, "value", file)
		if err != nil {
			return nil, err
		}
		return &ast.LiteralPattern{Tok: tok, Value: value}, nil

	case "interpolation":
		expr, err := childExpr(m, "expr", file)
		if err != nil {
			return nil, err
		}
		return &ast.InterpolationPattern{Tok: tok, Expr: expr}, nil

	case "ident":
		return &ast.IdentifierPattern{Tok: tok, Name: m["name"].Value}, nil

	case "pin":
		return &ast.PinPattern{Tok: tok, Name: m["name"].Value}, nil

	case "type":
		typeExpr := &ast.TypeExpr{Tok: tok, Name: m["type"].Value}
		if g, ok := m["where"]; ok {
			guard, err := exprFromNode(&g, file)
			if err != nil {
				return nil, err
			}
			typeExpr.WhereGuard = guard
		}
		var inner ast.Pattern
		if innerNode, ok := m["inner"]; ok {
			inner, err = patternFromNode(&innerNode, file)
			if err != nil {
				return nil, err
			}
		}
		return &ast.TypePattern{Tok: tok, Type: typeExpr, Inner: inner}, nil

	case "ctor":
		args, err := ctorArgsFromNode(m["args"], file)
		if err != nil {
			return nil, err
		}
		return &ast.ConstructorPattern{Tok: tok, Name: m["name"].Value, Args: args}, nil

	case "spread":
		var inner ast.Pattern
		if innerNode, ok := m["pattern"]; ok {
			inner, err = patternFromNode(&innerNode, file)
			if err != nil {
				return nil, err
			}
		}
		return &ast.SpreadPattern{Tok: tok, Pattern: inner}, nil

	case "tuple":
		elems, err := patternListFromNode(m["elements"], file)
		if err != nil {
			return nil, err
		}
		return &ast.TuplePattern{Tok: tok, Elements: elems}, nil

	case "array":
		elems, err := patternListFromNode(m["elements"], file)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayPattern{Tok: tok, Elements: elems}, nil

	case "and":
		left, err := childPattern(m, "left", file)
		if err != nil {
			return nil, err
		}
		right, err := childPattern(m, "right", file)
		if err != nil {
			return nil, err
		}
		return &ast.AndPattern{Tok: tok, Left: left, Right: right}, nil

	case "or":
		left, err := childPattern(m, "left", file)
		if err != nil {
			return nil, err
		}
		right, err := childPattern(m, "right", file)
		if err != nil {
			return nil, err
		}
		return &ast.OrPattern{Tok: tok, Left: left, Right: right}, nil

	case "where":
		inner, err := childPattern(m, "inner", file)
		if err != nil {
			return nil, err
		}
		guard, err := childExpr(m, "guard", file)
		if err != nil {
			return nil, err
		}
		return &ast.WherePattern{Tok: tok, Inner: inner, Guard: guard}, nil

	default:
		return nil, fmt.Errorf("%s: unknown pattern kind %q", tok, kindOf(m))
	}
}

func exprListFromNode(n yaml.Node, file string) ([]ast.Expression, error) {
	var items []yaml.Node
	if err := n.Decode(&items); err != nil {
		return nil, err
	}
	out := make([]ast.Expression, len(items))
	for i, item := range items {
		e, err := exprFromNode(&item, file)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func patternListFromNode(n yaml.Node, file string) ([]ast.Pattern, error) {
	var items []yaml.Node
	if err := n.Decode(&items); err != nil {
		return nil, err
	}
	out := make([]ast.Pattern, len(items))
	for i, item := range items {
		p, err := patternFromNode(&item, file)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

type rawArg struct {
	Name  string    `yaml:"name"`
	Value yaml.Node `yaml:"value"`
}

func argsFromNode(n yaml.Node, file string) ([]ast.Arg, error) {
	var items []rawArg
	if err := n.Decode(&items); err != nil {
		return nil, err
	}
	out := make([]ast.Arg, len(items))
	for i, item := range items {
		v, err := exprFromNode(&item.Value, file)
		if err != nil {
			return nil, err
		}
		out[i] = ast.Arg{Name: item.Name, Value: v}
	}
	return out, nil
}

type rawCtorArg struct {
	Name    string    `yaml:"name"`
	Pattern yaml.Node `yaml:"pattern"`
}

func ctorArgsFromNode(n yaml.Node, file string) ([]ast.CtorArg, error) {
	var items []rawCtorArg
	if err := n.Decode(&items); err != nil {
		return nil, err
	}
	out := make([]ast.CtorArg, len(items))
	for i, item := range items {
		p, err := patternFromNode(&item.Pattern, file)
		if err != nil {
			return nil, err
		}
		out[i] = ast.CtorArg{Name: item.Name, Pattern: p}
	}
	return out, nil
}
