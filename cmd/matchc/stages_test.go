package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/matchc/internal/oracle/native"
	"github.com/funvibe/matchc/internal/pipeline"
)

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "status.matchc.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadAndCompileStageProduceSource(t *testing.T) {
	path := writeSpec(t, `
package: generated
matches:
  - func: matchcStatus
    result_type: string
    scrutinee: {kind: ident, name: status}
    arms:
      - pattern: {kind: literal, value: {kind: literal, value: 200}}
        result: {kind: literal, value: ok}
      - pattern: {kind: wildcard}
        result: {kind: literal, value: error}
`)

	p := pipeline.New(loadStage{}, compileStage{oracle: native.New()})
	ctx := p.Run(&pipeline.Context{FilePath: path})

	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if len(ctx.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(ctx.Results))
	}
	if ctx.Results[0].Source == "" {
		t.Fatalf("expected non-empty generated source")
	}
}

func TestLoadStageReportsMissingFile(t *testing.T) {
	p := pipeline.New(loadStage{}, compileStage{oracle: native.New()})
	ctx := p.Run(&pipeline.Context{FilePath: filepath.Join(t.TempDir(), "missing.matchc.yaml")})
	if len(ctx.Errors) == 0 {
		t.Fatalf("expected an error for a missing file")
	}
}
