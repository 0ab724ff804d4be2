// Command matchc compiles .matchc.yaml match-spec files into Go source: for
// every declared match expression it runs the C2-C7 pipeline and writes one
// generated .go file per input, next to the input or into matchc.yaml's
// output_dir when that is set. Structure follows the
// teacher's cmd/funxy/main.go (flag-free argument dispatch, os.Exit on a
// fatal error); matchc.yaml project config and colorized diagnostics are
// this binary's own additions.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/matchc/internal/config"
	"github.com/funvibe/matchc/internal/emit"
	"github.com/funvibe/matchc/internal/oracle/native"
	"github.com/funvibe/matchc/internal/oracle/prototype"
	"github.com/funvibe/matchc/internal/pipeline"
	"github.com/funvibe/matchc/internal/typesystem"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [file.matchc.yaml ...]\n", filepath.Base(os.Args[0]))
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	proj, err := config.LoadProjectFile("matchc.yaml")
	if err != nil {
		fatalf("loading matchc.yaml: %v", err)
	}

	var oracle typesystem.Oracle = native.New()
	switch proj.OraclePlugin {
	case "", "native":
	case "prototype":
		protoOracle, err := prototype.Load(proj.ProtoFiles, nil)
		if err != nil {
			fatalf("loading prototype oracle: %v", err)
		}
		oracle = protoOracle
	default:
		warnf("oracle plugin %q is not recognized; falling back to native", proj.OraclePlugin)
	}

	p := pipeline.New(loadStage{}, compileStage{oracle: oracle})

	exitCode := 0
	for _, path := range args {
		if !config.HasSourceExt(path) {
			warnf("%s: not a recognized match-spec extension, compiling anyway", path)
		}

		ctx := p.Run(&pipeline.Context{FilePath: path})
		for _, err := range ctx.Errors {
			errorf("%v", err)
		}
		if len(ctx.Errors) > 0 {
			exitCode = 1
			continue
		}

		for i, out := range ctx.Results {
			for _, w := range out.Warnings {
				warnf("%s: %s", ctx.Doc.Matches[i].FuncName, w.Message)
			}
		}

		if err := writeOutput(proj, path, ctx); err != nil {
			errorf("%s: %v", path, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func writeOutput(proj *config.ProjectFile, inputPath string, ctx *pipeline.Context) error {
	pkgName := ctx.Doc.Package
	if pkgName == "" {
		pkgName = "generated"
	}

	results := make([]*emit.Result, len(ctx.Results))
	for i, out := range ctx.Results {
		results[i] = &emit.Result{Source: out.Source}
	}
	src := emit.File(pkgName, results...)

	outPath := outputPath(proj, inputPath)
	formatted, err := emit.Format(outPath, []byte(src))
	if err != nil {
		// Write the unformatted source anyway: a human can still read a
		// compiler bug out of it, and gofmt failing shouldn't hide output.
		formatted = []byte(src)
	}
	return os.WriteFile(outPath, formatted, 0o644)
}

func outputPath(proj *config.ProjectFile, inputPath string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(inputPath, ".yaml"), ".yml")
	base = strings.TrimSuffix(base, ".matchc")
	name := filepath.Base(base) + ".go"
	if proj.OutputDir != "" {
		return filepath.Join(proj.OutputDir, name)
	}
	return filepath.Join(filepath.Dir(inputPath), name)
}

var colorEnabled = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

func errorf(format string, args ...interface{}) {
	printDiag("31", "error", format, args...)
}

func warnf(format string, args ...interface{}) {
	printDiag("33", "warning", format, args...)
}

func printDiag(ansiColor, label, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if colorEnabled {
		fmt.Fprintf(os.Stderr, "\033[%sm%s:\033[0m %s\n", ansiColor, label, msg)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", label, msg)
}

func fatalf(format string, args ...interface{}) {
	errorf(format, args...)
	os.Exit(1)
}
