package emit

import "golang.org/x/tools/imports"

// Format runs goimports over generated source: it gofmt's the output and
// sorts/prunes its import block. The runtime helpers the rest of this
// package calls (matchcEqual, matchcIsType, matchcLen, ...) are local
// wrappers declared in File's preamble, which imports the runtime package
// itself.
func Format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}
