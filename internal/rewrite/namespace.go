package rewrite

import (
	"fmt"
	"strings"
)

const namespaceKeyword = "namespace"

// NamespaceRenamer replaces a token on lines that mention "namespace".
// Matching is by plain substring: an identifier that merely contains the
// source token is rewritten too.
type NamespaceRenamer struct {
	src      string
	dst      string
	reporter Reporter
}

// NewNamespaceRenamer returns a renamer from src to dst. Both tokens are
// required.
func NewNamespaceRenamer(src, dst string, reporter Reporter) (*NamespaceRenamer, error) {
	if src == "" || dst == "" {
		return nil, fmt.Errorf("%w: src=%q dst=%q", ErrEmptyToken, src, dst)
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &NamespaceRenamer{src: src, dst: dst, reporter: reporter}, nil
}

// RewriteLine replaces every occurrence of the source token when the line
// contains both "namespace" and the token.
func (n *NamespaceRenamer) RewriteLine(line string) (string, bool) {
	if !strings.Contains(line, namespaceKeyword) || !strings.Contains(line, n.src) {
		return line, false
	}
	newLine := strings.ReplaceAll(line, n.src, n.dst)
	return newLine, newLine != line
}

// RewriteFile renames the token throughout path in place.
func (n *NamespaceRenamer) RewriteFile(path string) (*FileResult, error) {
	n.reporter.FileStarted(path)

	res, err := rewriteFile(path, ChangeNamespace, func(lineNo int, line string) (string, bool, error) {
		newLine, changed := n.RewriteLine(line)
		if changed {
			n.reporter.LineRewritten(Change{Kind: ChangeNamespace, Path: path, Line: lineNo, Old: line, New: newLine})
		}
		return newLine, changed, nil
	})
	if err != nil {
		return nil, err
	}

	n.reporter.FileFinished(res)
	return res, nil
}
