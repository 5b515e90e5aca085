package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ccgen/internal/astio"
	"ccgen/internal/buildpipeline"
	"ccgen/internal/source"
)

const unitYAML = `decls:
  - kind: func
    name: one
    type: {kind: func, ret: int}
    body:
      kind: block
      stmts:
        - {kind: return, value: {kind: int, int: 1}}
`

func TestParseProgressMode(t *testing.T) {
	for in, want := range map[string]progressMode{"": progressAuto, "AUTO": progressAuto, "on": progressOn, " off ": progressOff} {
		got, err := parseProgressMode(in)
		if err != nil || got != want {
			t.Fatalf("parseProgressMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parseProgressMode("maybe"); err == nil || !strings.Contains(err.Error(), "--ui") {
		t.Fatalf("invalid mode: err = %v", err)
	}
}

func TestUseProgressView(t *testing.T) {
	two := []string{"a.yaml", "b.yaml"}
	cases := []struct {
		name string
		s    buildSettings
		tty  bool
		want bool
	}{
		{"auto on terminal", buildSettings{inputs: two}, true, true},
		{"auto without terminal", buildSettings{inputs: two}, false, false},
		{"auto single unit", buildSettings{inputs: two[:1]}, true, false},
		{"forced on", buildSettings{inputs: two[:1], ui: progressOn}, false, true},
		{"forced off", buildSettings{inputs: two, ui: progressOff}, true, false},
		{"stdout wins", buildSettings{inputs: two, ui: progressOn, stdout: true}, true, false},
		{"quiet wins", buildSettings{inputs: two, ui: progressOn, quiet: true}, true, false},
	}
	for _, tc := range cases {
		if got := tc.s.useProgressView(tc.tty); got != tc.want {
			t.Fatalf("%s: useProgressView = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestReadColorMode(t *testing.T) {
	if got, err := readColorMode("On"); err != nil || got != "on" {
		t.Fatalf("readColorMode = %q, %v", got, err)
	}
	if _, err := readColorMode("always"); err == nil {
		t.Fatal("invalid color mode accepted")
	}
}

func TestCollectInputsExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.astpack", "sub/c.yml", "notes.txt", ".hidden/d.yaml"} {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	got, err := collectInputs([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.astpack"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "sub", "c.yml"),
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("collectInputs = %v, want %v", got, want)
	}
	if _, err := collectInputs([]string{filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Fatal("missing input accepted")
	}
	empty := t.TempDir()
	if _, err := collectInputs([]string{empty}); err == nil {
		t.Fatal("empty directory accepted")
	}
}

func TestPackDocument(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "one.yaml")
	if err := os.WriteFile(in, []byte(unitYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	data, err := packDocument(in)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	doc, err := astio.DecodeMsgpack(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Module != "one" || doc.File != "one.yaml" {
		t.Fatalf("doc header = %q %q", doc.Module, doc.File)
	}
	if doc.Decls[0].Line != 2 {
		t.Fatalf("position lost: line %d", doc.Decls[0].Line)
	}
	if _, err := astio.Decode("one.astpack", data, source.NewFileSet()); err != nil {
		t.Fatalf("packed document does not decode: %v", err)
	}
}

func TestPackDocumentReportsLocation(t *testing.T) {
	in := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(in, []byte("decls:\n  - {kind: block}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := packDocument(in)
	if err == nil || !strings.Contains(err.Error(), "bad.yaml:2:") {
		t.Fatalf("err = %v", err)
	}
}

func TestPrintIRSkipsFailedUnits(t *testing.T) {
	res := &buildpipeline.Result{Units: []*buildpipeline.UnitResult{
		{IR: "; a\n"},
		{IR: "; b\n", Err: errors.New("boom")},
		{IR: "; c\n"},
	}}
	var buf bytes.Buffer
	if err := printIR(&buf, res); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "; a\n; c\n" {
		t.Fatalf("printIR = %q", buf.String())
	}
}

func TestPrintErrorSilencesFailedUnits(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, buildpipeline.ErrUnitsFailed)
	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}
	printError(&buf, errors.New("no inputs"))
	if !strings.Contains(buf.String(), "no inputs") {
		t.Fatalf("printError = %q", buf.String())
	}
}

func TestFormatPathForOutput(t *testing.T) {
	root := t.TempDir()
	if got := formatPathForOutput(root, filepath.Join(root, "build", "a.ll")); got != "build/a.ll" {
		t.Fatalf("inside root: %q", got)
	}
	outside := filepath.Join(filepath.Dir(root), "x.ll")
	if got := formatPathForOutput(root, outside); got != outside {
		t.Fatalf("outside root: %q", got)
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "ccgen" || payload.Version == "" {
		t.Fatalf("payload = %+v", payload)
	}
}
