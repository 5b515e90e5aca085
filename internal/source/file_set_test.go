package source

import "testing"

func TestFileSetAddDeduplicatesPaths(t *testing.T) {
	fs := NewFileSet()
	a := fs.Add("units/a.yaml")
	b := fs.Add("units/./a.yaml")
	if a != b {
		t.Fatalf("expected same id for equivalent paths, got %d and %d", a, b)
	}
	if a == NoFileID {
		t.Fatalf("first file must not get the reserved id")
	}
	if fs.Len() != 1 {
		t.Fatalf("expected 1 file, got %d", fs.Len())
	}
}

func TestFileSetFormat(t *testing.T) {
	fs := NewFileSet()
	fs.SetBaseDir("/work")
	id := fs.Add("/work/src/main.yaml")

	if got := fs.Format(Loc{File: id, Line: 3, Col: 7}); got != "src/main.yaml:3:7" {
		t.Fatalf("unexpected format: %q", got)
	}
	if got := fs.Format(Loc{File: id}); got != "src/main.yaml" {
		t.Fatalf("unexpected format without line: %q", got)
	}
	if got := fs.Format(Loc{}); got != "<unknown>" {
		t.Fatalf("unexpected format for zero loc: %q", got)
	}
}

func TestFileSetFormatKeepsOutsidePaths(t *testing.T) {
	fs := NewFileSet()
	fs.SetBaseDir("/work")
	id := fs.Add("/elsewhere/x.yaml")
	if got := fs.Format(Loc{File: id, Line: 1, Col: 1}); got != "/elsewhere/x.yaml:1:1" {
		t.Fatalf("unexpected format: %q", got)
	}
}
