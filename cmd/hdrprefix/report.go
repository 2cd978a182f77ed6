package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"hdrprefix/internal/diff"
	"hdrprefix/internal/rewrite"
)

var (
	successColor = lipgloss.Color("#8BC34A") // Lime Green
	mutedColor   = lipgloss.Color("#6b7280") // Gray

	summaryLabelStyle = lipgloss.NewStyle().Bold(true)
	summaryCountStyle = lipgloss.NewStyle().Foreground(successColor)
	summaryMutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

// traceReporter prints the per-file trace and, on request, a unified diff of
// each changed file.
type traceReporter struct {
	rewrite.Reporter

	out      io.Writer
	showDiff bool
	engine   *diff.Engine
}

func newTraceReporter(out io.Writer, quiet, showDiff bool) *traceReporter {
	var base rewrite.Reporter = rewrite.NewWriterReporter(out)
	if quiet {
		base = rewrite.NopReporter{}
	}
	return &traceReporter{
		Reporter: base,
		out:      out,
		showDiff: showDiff,
		engine:   diff.NewEngine(3),
	}
}

func (r *traceReporter) FileFinished(res *rewrite.FileResult) {
	r.Reporter.FileFinished(res)
	if !r.showDiff || !res.Changed() {
		return
	}
	fmt.Fprint(r.out, diff.Unified(r.engine.ComputeDiff(res.Path, res.OldContent, res.NewContent)))
}

// renderSummary formats the closing line of a run.
func renderSummary(s rewrite.Summary) string {
	return fmt.Sprintf("%s %s files visited, %s changed, %s lines rewritten %s",
		summaryLabelStyle.Render("done:"),
		summaryCountStyle.Render(fmt.Sprint(s.FilesVisited)),
		summaryCountStyle.Render(fmt.Sprint(s.FilesChanged)),
		summaryCountStyle.Render(fmt.Sprint(s.LinesChanged)),
		summaryMutedStyle.Render("("+s.Elapsed.Round(time.Millisecond).String()+")"),
	)
}
