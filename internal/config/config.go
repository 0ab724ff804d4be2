// Package config holds compiler-wide constants and the project-file schema,
// adapted from the teacher's internal/config/constants.go (a single small
// file of package-wide constants, no sub-packages).
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the current matchc version. Set at build time via
// -ldflags "-X github.com/funvibe/matchc/internal/config.Version=..."
// by the release script, same convention as the teacher's funxy Version.
var Version = "0.1.0"

// SourceFileExtensions are the extensions cmd/matchc scans for match-spec
// documents to compile.
var SourceFileExtensions = []string{".matchc.yaml", ".matchc.yml"}

// Built-in type names the default oracle (internal/oracle/native) resolves
// without a user-supplied type registry, mirroring the teacher's built-in
// ADT names (config.ListTypeName, config.OptionTypeName, ...).
const (
	ListTypeName     = "List"
	TupleTypeName    = "Tuple"
	OptionTypeName   = "Option"
	ResultTypeName   = "Result"
	SomeCtorName     = "Some"
	NoneCtorName     = "None"
	OkCtorName       = "Ok"
	FailCtorName     = "Fail"
)

// HasSourceExt reports whether path ends in a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// ProjectFile is the schema of matchc.yaml, the project config the CLI
// loads from the working directory, the way the teacher loads funxy.yaml
// (internal/ext/config.go) with the same gopkg.in/yaml.v3 dependency.
type ProjectFile struct {
	ModulePath   string   `yaml:"module_path"`
	OutputDir    string   `yaml:"output_dir"`
	OraclePlugin string   `yaml:"oracle_plugin"` // "native" or "prototype"
	ProtoFiles   []string `yaml:"proto_files"`   // used when oracle_plugin is "prototype"
}

// LoadProjectFile reads and parses matchc.yaml. A missing file is not an
// error: it yields a ProjectFile with the native oracle and no OutputDir,
// so each generated file is written next to its input.
func LoadProjectFile(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &ProjectFile{OraclePlugin: "native"}, nil
	}
	if err != nil {
		return nil, err
	}
	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	if pf.OraclePlugin == "" {
		pf.OraclePlugin = "native"
	}
	return &pf, nil
}
