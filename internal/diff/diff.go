// Package diff renders the line changes of a rewritten file as a unified diff,
// using the sergi/go-diff library for the line matching.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType represents the type of diff line
type LineType int

const (
	LineContext LineType = iota // Unchanged context line
	LineAdded                   // Added line
	LineRemoved                 // Removed line
)

// Line represents a single line in the diff
type Line struct {
	OldNum  int // 1-based, 0 for added lines
	NewNum  int // 1-based, 0 for removed lines
	Content string
	Type    LineType
}

// Hunk represents a group of changes
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// FileDiff represents changes to a single file
type FileDiff struct {
	Path  string
	Hunks []Hunk
}

// Empty reports whether the file has no changes.
func (f *FileDiff) Empty() bool {
	return len(f.Hunks) == 0
}

// Engine computes line diffs.
type Engine struct {
	dmp          *diffmatchpatch.DiffMatchPatch
	contextLines int
}

// NewEngine creates a diff engine that keeps contextLines of unchanged
// lines around each change.
func NewEngine(contextLines int) *Engine {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // Disable timeout for accuracy
	if contextLines < 0 {
		contextLines = 0
	}
	return &Engine{dmp: dmp, contextLines: contextLines}
}

// ComputeDiff creates a FileDiff from old and new content strings
func (e *Engine) ComputeDiff(path, oldContent, newContent string) *FileDiff {
	fd := &FileDiff{Path: path}
	if oldContent == newContent {
		return fd
	}

	// Line-level reduction avoids newline boundary artifacts.
	a, b, lineArray := e.dmp.DiffLinesToChars(oldContent, newContent)
	diffs := e.dmp.DiffMain(a, b, false)
	diffs = e.dmp.DiffCharsToLines(diffs, lineArray)

	fd.Hunks = e.groupIntoHunks(toLines(diffs))
	return fd
}

// toLines flattens diffs into numbered lines.
func toLines(diffs []diffmatchpatch.Diff) []Line {
	var lines []Line
	oldNum, newNum := 0, 0

	for _, d := range diffs {
		parts := strings.SplitAfter(d.Text, "\n")
		if parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
		for _, p := range parts {
			content := strings.TrimSuffix(p, "\n")
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldNum++
				newNum++
				lines = append(lines, Line{OldNum: oldNum, NewNum: newNum, Content: content, Type: LineContext})
			case diffmatchpatch.DiffDelete:
				oldNum++
				lines = append(lines, Line{OldNum: oldNum, Content: content, Type: LineRemoved})
			case diffmatchpatch.DiffInsert:
				newNum++
				lines = append(lines, Line{NewNum: newNum, Content: content, Type: LineAdded})
			}
		}
	}
	return lines
}

// groupIntoHunks keeps changed lines plus surrounding context, merging
// windows that touch.
func (e *Engine) groupIntoHunks(lines []Line) []Hunk {
	var hunks []Hunk
	end := -1 // exclusive end of the current window

	for i, l := range lines {
		if l.Type == LineContext {
			continue
		}
		lo := i - e.contextLines
		if lo < 0 {
			lo = 0
		}
		hi := i + e.contextLines + 1
		if hi > len(lines) {
			hi = len(lines)
		}

		if len(hunks) > 0 && lo <= end {
			last := &hunks[len(hunks)-1]
			last.Lines = append(last.Lines, lines[end:hi]...)
		} else {
			hunks = append(hunks, Hunk{Lines: append([]Line(nil), lines[lo:hi]...)})
		}
		if hi > end {
			end = hi
		}
	}

	for i := range hunks {
		computeHunkBounds(&hunks[i])
	}
	return hunks
}

// computeHunkBounds calculates start lines and counts for a hunk
func computeHunkBounds(h *Hunk) {
	for _, l := range h.Lines {
		if l.Type != LineAdded {
			if h.OldStart == 0 {
				h.OldStart = l.OldNum
			}
			h.OldCount++
		}
		if l.Type != LineRemoved {
			if h.NewStart == 0 {
				h.NewStart = l.NewNum
			}
			h.NewCount++
		}
	}
}

// Unified renders fd in unified diff format. An empty diff renders as "".
func Unified(fd *FileDiff) string {
	if fd.Empty() {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", fd.Path, fd.Path)
	for _, h := range fd.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			switch l.Type {
			case LineAdded:
				sb.WriteByte('+')
			case LineRemoved:
				sb.WriteByte('-')
			default:
				sb.WriteByte(' ')
			}
			sb.WriteString(strings.TrimSuffix(l.Content, "\r"))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
