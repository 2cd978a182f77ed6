// Package rewrite implements the line-oriented source rewrites of hdrprefix:
// prefixing verilog-parser includes with their library directory and renaming
// namespace tokens, for one file or for a whole directory tree.
package rewrite

// DefaultLibraryDir is the directory segment prepended to rewritten includes.
const DefaultLibraryDir = "verilogparser"

// includeMarker opens a quoted include directive.
const includeMarker = `#include "`

// libraryHeaders are the public headers of the verilog parser library.
var libraryHeaders = []string{
	"verilog_ast.h",
	"verilog_ast_common.h",
	"verilog_ast_mem.h",
	"verilog_ast_util.h",
	"verilog_parser.h",
	"verilog_preprocessor.h",
}

var targetHeaders = func() map[string]struct{} {
	m := make(map[string]struct{}, len(libraryHeaders))
	for _, h := range libraryHeaders {
		m[h] = struct{}{}
	}
	return m
}()

// IsTargetHeader reports whether name is one of the library headers whose
// includes get prefixed.
func IsTargetHeader(name string) bool {
	_, ok := targetHeaders[name]
	return ok
}

// TargetHeaders returns the recognized header basenames in a stable order.
func TargetHeaders() []string {
	return append([]string(nil), libraryHeaders...)
}
