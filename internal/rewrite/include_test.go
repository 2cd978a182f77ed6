package rewrite

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncludeRewriter_RewriteLine(t *testing.T) {
	rw := NewIncludeRewriter("", nil)

	tests := []struct {
		name    string
		in      string
		want    string
		changed bool
	}{
		{"ast header", "#include \"verilog_ast.h\"\n", "#include <verilogparser/verilog_ast.h>\n", true},
		{"common header", "#include \"verilog_ast_common.h\"\n", "#include <verilogparser/verilog_ast_common.h>\n", true},
		{"mem header", "#include \"verilog_ast_mem.h\"\n", "#include <verilogparser/verilog_ast_mem.h>\n", true},
		{"util header", "#include \"verilog_ast_util.h\"\n", "#include <verilogparser/verilog_ast_util.h>\n", true},
		{"parser header", "#include \"verilog_parser.h\"\n", "#include <verilogparser/verilog_parser.h>\n", true},
		{"preprocessor header", "#include \"verilog_preprocessor.h\"\n", "#include <verilogparser/verilog_preprocessor.h>\n", true},
		{"other header", "#include \"other_header.h\"\n", "#include \"other_header.h\"\n", false},
		{"nested foreign", "#include \"sub/verilog_ast.h\"\n", "#include \"sub/verilog_ast.h\"\n", false},
		{"trailing segments kept", "#include \"verilog_ast.h/extra/x.h\"\n", "#include <verilogparser/verilog_ast.h/extra/x.h>\n", true},
		{"angle include", "#include <verilog_ast.h>\n", "#include <verilog_ast.h>\n", false},
		{"plain code", "int x = 1;\n", "int x = 1;\n", false},
		{"indent and comment dropped", "  #include \"verilog_parser.h\" // parser\n", "#include <verilogparser/verilog_parser.h>\n", true},
		{"crlf kept", "#include \"verilog_ast.h\"\r\n", "#include <verilogparser/verilog_ast.h>\r\n", true},
		{"missing terminator gains newline", "#include \"verilog_ast.h\"", "#include <verilogparser/verilog_ast.h>\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := rw.RewriteLine(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestIncludeRewriter_CustomPrefix(t *testing.T) {
	rw := NewIncludeRewriter("vp", nil)
	assert.Equal(t, "vp", rw.Prefix())

	got, changed, err := rw.RewriteLine("#include \"verilog_ast.h\"\n")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "#include <vp/verilog_ast.h>\n", got)
}

func TestIncludeRewriter_MalformedLine(t *testing.T) {
	rw := NewIncludeRewriter("", nil)

	got, changed, err := rw.RewriteLine("#include \"verilog_ast.h\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedInclude))
	assert.False(t, changed)
	assert.Equal(t, "#include \"verilog_ast.h\n", got)
}

func TestIncludeRewriter_RewriteFile(t *testing.T) {
	dir := t.TempDir()
	src := strings.Join([]string{
		"#ifndef DRIVER_HPP",
		"#include \"verilog_ast.h\"",
		"#include \"other_header.h\"",
		"#include <string>",
		"#endif",
		"",
	}, "\n")
	p := writeFile(t, dir, "driver.hpp", src)

	var trace bytes.Buffer
	rw := NewIncludeRewriter("", NewWriterReporter(&trace))
	res, err := rw.RewriteFile(p)
	require.NoError(t, err)

	want := []string{
		"#ifndef DRIVER_HPP\n",
		"#include <verilogparser/verilog_ast.h>\n",
		"#include \"other_header.h\"\n",
		"#include <string>\n",
		"#endif\n",
	}
	if diff := cmp.Diff(want, splitLines(readFile(t, p))); diff != "" {
		t.Errorf("rewritten file mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, res.Changes, 1)
	assert.Equal(t, 2, res.Changes[0].Line)
	assert.Equal(t, ChangeInclude, res.Changes[0].Kind)
	assert.Equal(t, 5, res.Lines)

	assert.Equal(t,
		"processing "+p+"\n#include <verilogparser/verilog_ast.h>\nother_header.h not changed\n",
		trace.String())
}

func TestIncludeRewriter_Idempotent(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.c", "#include \"verilog_parser.h\"\n#include \"verilog_ast_util.h\"\nint main() {}\n")

	rw := NewIncludeRewriter("", nil)
	_, err := rw.RewriteFile(p)
	require.NoError(t, err)
	once := readFile(t, p)

	res, err := rw.RewriteFile(p)
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, once, readFile(t, p))
}

func TestIncludeRewriter_LineCountPreserved(t *testing.T) {
	dir := t.TempDir()
	src := "a\n#include \"verilog_ast.h\"\n\n\n#include \"x.h\"\nlast"
	p := writeFile(t, dir, "count.c", src)

	_, err := NewIncludeRewriter("", nil).RewriteFile(p)
	require.NoError(t, err)
	assert.Len(t, splitLines(readFile(t, p)), len(splitLines(src)))
}

func TestIncludeRewriter_MalformedFileLeftUntouched(t *testing.T) {
	dir := t.TempDir()
	src := "#include \"verilog_ast.h\"\n#include \"broken\n"
	p := writeFile(t, dir, "bad.c", src)

	_, err := NewIncludeRewriter("", nil).RewriteFile(p)
	require.ErrorIs(t, err, ErrMalformedInclude)
	assert.Contains(t, err.Error(), "bad.c:2")
	assert.Equal(t, src, readFile(t, p))
}

func TestTargetHeaders(t *testing.T) {
	for _, h := range TargetHeaders() {
		assert.True(t, IsTargetHeader(h), h)
	}
	assert.Len(t, TargetHeaders(), 6)
	assert.Len(t, targetHeaders, len(libraryHeaders))

	hs := TargetHeaders()
	hs[0] = "changed.h"
	assert.True(t, IsTargetHeader("verilog_ast.h"))
	assert.Equal(t, "verilog_ast.h", TargetHeaders()[0])
	assert.False(t, IsTargetHeader("verilog_scanner.hpp"))
}
