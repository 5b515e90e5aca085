package diag

import (
	"testing"

	"ccgen/internal/source"
)

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		CGUnsupportedConstruct: "CG9001",
		CGUnresolvedName:       "CG9005",
		IOWriteFailure:         "IO4002",
		PrjInvalidConfig:       "PRJ5001",
		UnknownCode:            "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: expected %s, got %s", code, want, got)
		}
	}
	if got := CGMissingReturn.String(); got != "[CG9003]: Missing return in function" {
		t.Fatalf("unexpected string: %q", got)
	}
	if got := Code(9999).Title(); got != "Unknown error" {
		t.Fatalf("unexpected fallback title: %q", got)
	}
}

func TestBagLimitAndMerge(t *testing.T) {
	b := NewBag(1)
	if !b.Add(Diagnostic{Severity: SevWarning, Code: CGUnreachableCode}) {
		t.Fatalf("first add must succeed")
	}
	if b.Add(Diagnostic{Severity: SevError}) {
		t.Fatalf("add past the limit must fail")
	}
	if b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("unexpected severity summary")
	}

	other := NewBag(0)
	other.Add(Diagnostic{Severity: SevError, Code: CGTypeMismatch})
	b.Merge(other)
	if b.Len() != 2 || !b.HasErrors() {
		t.Fatalf("merge lost diagnostics: %d", b.Len())
	}
}

func TestBagSort(t *testing.T) {
	b := NewBag(0)
	b.Add(Diagnostic{Severity: SevWarning, Code: CGUnreachableCode, Primary: source.Loc{File: 1, Line: 4, Col: 1}})
	b.Add(Diagnostic{Severity: SevError, Code: CGTypeMismatch, Primary: source.Loc{File: 1, Line: 2, Col: 5}})
	b.Add(Diagnostic{Severity: SevError, Code: CGMissingReturn, Primary: source.Loc{File: 1, Line: 4, Col: 1}})
	b.Sort()

	got := []Code{b.Items()[0].Code, b.Items()[1].Code, b.Items()[2].Code}
	want := []Code{CGTypeMismatch, CGMissingReturn, CGUnreachableCode}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i].ID(), got[i].ID())
		}
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	r := &BagReporter{Bag: bag}
	b := ReportWarning(r, CGUnreachableCode, source.Loc{File: 1, Line: 1, Col: 1}, "dropped").
		WithNote(source.Loc{File: 1, Line: 1, Col: 1}, "block ends here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("note was not attached")
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("unit.yaml")
	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     CGMissingReturn,
			Message:  "function \"f\" may end\nwithout a return",
			Primary:  source.Loc{File: id, Line: 3, Col: 2},
			Notes:    []Note{{Loc: source.Loc{File: id, Line: 1, Col: 1}, Msg: "declared here"}},
		},
	}
	want := "error CG9003 unit.yaml:3:2 function \"f\" may end without a return\n" +
		"note CG9003 unit.yaml:1:1 declared here"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
	if got := FormatOne(diags[0], nil); got != "error CG9003 1:3:2 function \"f\" may end without a return" {
		t.Fatalf("unexpected single output: %q", got)
	}
}
