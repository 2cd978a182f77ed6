package rewrite

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ChangeKind identifies which rewriter produced a change.
type ChangeKind int

const (
	ChangeInclude   ChangeKind = iota // include directive prefixed
	ChangeNamespace                   // namespace token renamed
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInclude:
		return "include"
	case ChangeNamespace:
		return "namespace"
	default:
		return "unknown"
	}
}

// Change records a single rewritten line. Old and New include their line
// terminators.
type Change struct {
	Kind ChangeKind
	Path string
	Line int // 1-based
	Old  string
	New  string
}

// FileResult describes the outcome of rewriting one file.
type FileResult struct {
	Path       string
	Lines      int
	Changes    []Change
	OldContent string
	NewContent string
}

// Changed reports whether any line of the file was rewritten.
func (r *FileResult) Changed() bool {
	return len(r.Changes) > 0
}

// lineFunc rewrites one line (terminator included). lineNo is 1-based.
type lineFunc func(lineNo int, line string) (newLine string, changed bool, err error)

// rewriteFile reads path fully, applies fn to every line and overwrites the
// file in place when at least one line changed. Line count and order are
// preserved; the file mode is kept.
func rewriteFile(path string, kind ChangeKind, fn lineFunc) (*FileResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := validateText(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	content := string(data)
	lines := splitLines(content)
	result := &FileResult{
		Path:       path,
		Lines:      len(lines),
		OldContent: content,
	}

	var sb strings.Builder
	sb.Grow(len(content))
	for i, line := range lines {
		newLine, changed, err := fn(i+1, line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, i+1, err)
		}
		if changed {
			result.Changes = append(result.Changes, Change{
				Kind: kind,
				Path: path,
				Line: i + 1,
				Old:  line,
				New:  newLine,
			})
		}
		sb.WriteString(newLine)
	}
	result.NewContent = sb.String()

	if !result.Changed() {
		return result, nil
	}
	if err := os.WriteFile(path, []byte(result.NewContent), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return result, nil
}

// validateText rejects content that is not UTF-8 or that carries NUL bytes.
func validateText(data []byte) error {
	if bytes.IndexByte(data, 0) >= 0 {
		return fmt.Errorf("%w: contains NUL bytes", ErrNotText)
	}
	if _, _, err := transform.Bytes(encoding.UTF8Validator, data); err != nil {
		return fmt.Errorf("%w: %v", ErrNotText, err)
	}
	return nil
}

// splitLines splits s after every "\n". The last element has no terminator
// when s does not end with a newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitTerminator separates a line from its "\n" or "\r\n" terminator.
func splitTerminator(line string) (body, term string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}
