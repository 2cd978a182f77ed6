package rewrite

import (
	"fmt"
	"io"
	"strings"
)

// Reporter receives the progress trace of a rewrite run.
type Reporter interface {
	FileStarted(path string)
	LineRewritten(c Change)
	IncludeSkipped(path string, line int, segment string)
	FileFinished(res *FileResult)
}

// NopReporter discards the trace.
type NopReporter struct{}

func (NopReporter) FileStarted(string) {}
func (NopReporter) LineRewritten(Change) {}
func (NopReporter) IncludeSkipped(string, int, string) {}
func (NopReporter) FileFinished(*FileResult) {}

// WriterReporter prints the classic trace: "processing <file>", every new
// include line, and "<header> not changed" for foreign includes.
type WriterReporter struct {
	w io.Writer
}

// NewWriterReporter returns a reporter printing to w.
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

func (r *WriterReporter) FileStarted(path string) {
	fmt.Fprintln(r.w, "processing", path)
}

func (r *WriterReporter) LineRewritten(c Change) {
	if c.Kind != ChangeInclude {
		return
	}
	fmt.Fprintln(r.w, strings.TrimRight(c.New, "\r\n"))
}

func (r *WriterReporter) IncludeSkipped(_ string, _ int, segment string) {
	fmt.Fprintln(r.w, segment, "not changed")
}

func (r *WriterReporter) FileFinished(*FileResult) {}
