package diff

import (
	"strings"
	"testing"
)

func TestComputeDiff_SingleReplacement(t *testing.T) {
	oldContent := "#ifndef X\n#include \"verilog_ast.h\"\nint a;\n"
	newContent := "#ifndef X\n#include <verilogparser/verilog_ast.h>\nint a;\n"

	engine := NewEngine(3)
	fd := engine.ComputeDiff("x.h", oldContent, newContent)

	if len(fd.Hunks) != 1 {
		t.Fatalf("Expected 1 hunk, got %d", len(fd.Hunks))
	}
	h := fd.Hunks[0]
	if h.OldStart != 1 || h.OldCount != 3 || h.NewStart != 1 || h.NewCount != 3 {
		t.Errorf("unexpected hunk bounds: %+v", h)
	}

	var removed, added []string
	for _, l := range h.Lines {
		switch l.Type {
		case LineRemoved:
			removed = append(removed, l.Content)
		case LineAdded:
			added = append(added, l.Content)
		}
	}
	if len(removed) != 1 || removed[0] != "#include \"verilog_ast.h\"" {
		t.Errorf("unexpected removed lines: %q", removed)
	}
	if len(added) != 1 || added[0] != "#include <verilogparser/verilog_ast.h>" {
		t.Errorf("unexpected added lines: %q", added)
	}
}

func TestComputeDiff_NoChange(t *testing.T) {
	fd := NewEngine(3).ComputeDiff("same.c", "a\nb\n", "a\nb\n")
	if !fd.Empty() {
		t.Errorf("Expected empty diff, got %d hunks", len(fd.Hunks))
	}
	if got := Unified(fd); got != "" {
		t.Errorf("Expected empty rendering, got %q", got)
	}
}

func TestComputeDiff_SeparateHunks(t *testing.T) {
	var oldLines, newLines []string
	for i := 0; i < 20; i++ {
		line := "line"
		oldLines = append(oldLines, line)
		newLines = append(newLines, line)
	}
	oldLines[1] = "namespace foo {"
	newLines[1] = "namespace bar {"
	oldLines[18] = "} // namespace foo"
	newLines[18] = "} // namespace bar"

	fd := NewEngine(2).ComputeDiff("ns.cpp", strings.Join(oldLines, "\n")+"\n", strings.Join(newLines, "\n")+"\n")
	if len(fd.Hunks) != 2 {
		t.Fatalf("Expected 2 hunks, got %d", len(fd.Hunks))
	}
	if fd.Hunks[0].OldStart != 1 {
		t.Errorf("Expected first hunk at line 1, got %d", fd.Hunks[0].OldStart)
	}
	if fd.Hunks[1].OldStart != 17 {
		t.Errorf("Expected second hunk at line 17, got %d", fd.Hunks[1].OldStart)
	}
}

func TestUnified(t *testing.T) {
	fd := NewEngine(1).ComputeDiff("a.c", "x\n#include \"verilog_parser.h\"\r\ny\nz\n", "x\n#include <verilogparser/verilog_parser.h>\r\ny\nz\n")

	want := "--- a/a.c\n" +
		"+++ b/a.c\n" +
		"@@ -1,3 +1,3 @@\n" +
		" x\n" +
		"-#include \"verilog_parser.h\"\n" +
		"+#include <verilogparser/verilog_parser.h>\n" +
		" y\n"
	if got := Unified(fd); got != want {
		t.Errorf("Unified mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}
