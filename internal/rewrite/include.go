package rewrite

import (
	"fmt"
	"strings"
)

type includeKind int

const (
	includeAbsent  includeKind = iota // no quoted include on the line
	includeForeign                    // quoted include of some other header
	includeTarget                     // quoted include of a library header
)

// IncludeRewriter turns quoted includes of the library headers into
// angle-bracket includes under the library directory:
//
//	#include "verilog_ast.h"  ->  #include <verilogparser/verilog_ast.h>
type IncludeRewriter struct {
	prefix   string
	reporter Reporter
}

// NewIncludeRewriter returns a rewriter that inserts prefix as the first path
// segment. An empty prefix falls back to DefaultLibraryDir; a nil reporter
// discards the trace.
func NewIncludeRewriter(prefix string, reporter Reporter) *IncludeRewriter {
	if prefix == "" {
		prefix = DefaultLibraryDir
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &IncludeRewriter{prefix: prefix, reporter: reporter}
}

// Prefix returns the directory segment inserted into rewritten includes.
func (r *IncludeRewriter) Prefix() string {
	return r.prefix
}

// RewriteLine rewrites a single line, terminator included. The returned bool
// is true when the line was replaced.
func (r *IncludeRewriter) RewriteLine(line string) (string, bool, error) {
	newLine, _, kind, err := r.rewrite(line)
	if err != nil {
		return line, false, err
	}
	return newLine, kind == includeTarget, nil
}

// RewriteFile rewrites every include line of path in place.
func (r *IncludeRewriter) RewriteFile(path string) (*FileResult, error) {
	r.reporter.FileStarted(path)

	res, err := rewriteFile(path, ChangeInclude, func(lineNo int, line string) (string, bool, error) {
		newLine, first, kind, err := r.rewrite(line)
		if err != nil {
			return line, false, err
		}
		switch kind {
		case includeTarget:
			r.reporter.LineRewritten(Change{Kind: ChangeInclude, Path: path, Line: lineNo, Old: line, New: newLine})
			return newLine, true, nil
		case includeForeign:
			r.reporter.IncludeSkipped(path, lineNo, first)
		}
		return line, false, nil
	})
	if err != nil {
		return nil, err
	}

	r.reporter.FileFinished(res)
	return res, nil
}

// rewrite classifies line and builds its replacement. first is the leading
// segment of the quoted path, when there is one.
func (r *IncludeRewriter) rewrite(line string) (newLine, first string, kind includeKind, err error) {
	if !strings.Contains(line, includeMarker) {
		return line, "", includeAbsent, nil
	}

	// The quoted path is whatever sits between the first two quotes.
	parts := strings.SplitN(line, `"`, 3)
	if len(parts) < 3 {
		body, _ := splitTerminator(line)
		return line, "", includeAbsent, fmt.Errorf("%w: no closing quote in %q", ErrMalformedInclude, body)
	}

	segments := strings.Split(parts[1], "/")
	first = segments[0]
	if !IsTargetHeader(first) {
		return line, first, includeForeign, nil
	}

	_, term := splitTerminator(line)
	if term == "" {
		term = "\n"
	}
	newLine = "#include <" + r.prefix + "/" + strings.Join(segments, "/") + ">" + term
	return newLine, first, includeTarget, nil
}
