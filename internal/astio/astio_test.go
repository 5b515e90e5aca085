package astio

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ccgen/internal/ast"
	"ccgen/internal/backend/llvm"
	"ccgen/internal/source"
	"ccgen/internal/types"
)

func decodeFixture(t *testing.T, name string) (*Unit, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	u, err := DecodeFile(filepath.Join("testdata", name), fs)
	if err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
	return u, fs
}

func lowerTree(t *testing.T, module string, tree *ast.Tree) string {
	t.Helper()
	s := llvm.NewSession(module, llvm.Options{})
	if err := s.Run(context.Background(), tree); err != nil {
		t.Fatalf("lower: %v", err)
	}
	out, err := s.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	return out.String()
}

func TestDecodeYAMLFixture(t *testing.T) {
	u, fs := decodeFixture(t, "fact.yaml")
	if u.Module != "fact" {
		t.Fatalf("module = %q, want fact", u.Module)
	}
	if len(u.Tree.Decls) != 2 {
		t.Fatalf("decls = %d, want 2", len(u.Tree.Decls))
	}
	fn := u.Tree.FuncDef(u.Tree.Decls[1])
	if fn == nil || fn.Name != "fact" {
		t.Fatalf("second decl = %+v, want fact", fn)
	}
	loc := u.Tree.Node(u.Tree.Decls[1]).Loc
	if got := fs.Format(loc); !strings.HasSuffix(got, "fact.yaml:7:5") {
		t.Fatalf("loc = %q, want fact.yaml:7:5", got)
	}
	info, ok := u.Tree.Types.FnInfo(u.Tree.FuncDef(u.Tree.Decls[0]).Signature)
	if !ok || !info.Variadic || len(info.Params) != 1 || !u.Tree.Types.IsPointer(info.Params[0]) {
		t.Fatalf("printf signature = %+v", info)
	}

	ir := lowerTree(t, u.Module, u.Tree)
	for _, want := range []string{
		"declare i32 @printf(i8*",
		"...)",
		"define i32 @fact(i32 %n)",
		"call i32 @fact(",
		"icmp sle i32",
	} {
		if !strings.Contains(ir, want) {
			t.Fatalf("IR missing %q:\n%s", want, ir)
		}
	}
}

func TestMsgpackRoundTripLowersIdentically(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "fact.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := DecodeYAML(data)
	if err != nil {
		t.Fatal(err)
	}
	packed, err := MarshalMsgpack(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := DecodeMsgpack(bytes.NewReader(packed))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	a, err := Build(doc, 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(back, 1)
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != b.Len() {
		t.Fatalf("node count %d vs %d", a.Len(), b.Len())
	}
	if x, y := lowerTree(t, "m", a), lowerTree(t, "m", b); x != y {
		t.Fatalf("IR differs after round trip:\n%s\n---\n%s", x, y)
	}
	for i := 0; i < a.Len(); i++ {
		id := ast.NodeID(i + 1)
		if a.Node(id).Loc != b.Node(id).Loc {
			t.Fatalf("node %d loc %v vs %v", id, a.Node(id).Loc, b.Node(id).Loc)
		}
	}
}

func TestDecodeAstpackFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "fact.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := DecodeYAML(data)
	if err != nil {
		t.Fatal(err)
	}
	doc.Module = ""
	packed, err := MarshalMsgpack(doc)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "fact2.astpack")
	if err := os.WriteFile(path, packed, 0o600); err != nil {
		t.Fatal(err)
	}
	u, err := DecodeFile(path, source.NewFileSet())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Module != "fact2" {
		t.Fatalf("module = %q, want name from file", u.Module)
	}
}

func TestTypeShorthand(t *testing.T) {
	cases := []struct {
		in       string
		kind     string
		unsigned bool
		stars    int
	}{
		{"int", "int", false, 0},
		{"unsigned", "int", true, 0},
		{"unsigned char", "char", true, 0},
		{"signed short", "short", false, 0},
		{"long long", "llong", false, 0},
		{"char*", "char", false, 1},
		{"void **", "void", false, 2},
		{"double", "double", false, 0},
	}
	for _, tc := range cases {
		td, err := ParseTypeShorthand(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		for i := 0; i < tc.stars; i++ {
			if td.Kind != "ptr" || td.Elem == nil {
				t.Fatalf("%q: want pointer, got %+v", tc.in, td)
			}
			td = td.Elem
		}
		if td.Kind != tc.kind || td.Unsigned != tc.unsigned {
			t.Fatalf("%q: got %+v", tc.in, td)
		}
	}
	for _, bad := range []string{"", "bool", "unsigned float", "unsigned void*", "int long"} {
		if _, err := ParseTypeShorthand(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestBuildInternsTypes(t *testing.T) {
	doc := &Document{Decls: []NodeDoc{{
		Kind: "func",
		Name: "f",
		Type: &TypeDoc{Kind: "func", Ret: &TypeDoc{Kind: "void"}, Params: []TypeDoc{
			{Kind: "array", Elem: &TypeDoc{Kind: "int"}, Size: 4},
			{Kind: "long", Unsigned: true},
		}},
		Params: []string{"a", "b"},
	}}}
	tree, err := Build(doc, 1)
	if err != nil {
		t.Fatal(err)
	}
	in := tree.Types
	info, ok := in.FnInfo(tree.FuncDef(tree.Decls[0]).Signature)
	if !ok {
		t.Fatal("signature is not a function")
	}
	if in.KindOf(info.Params[0]) != types.KindArray {
		t.Fatalf("param 0 = %s, want array", in.Format(info.Params[0]))
	}
	if info.Params[1] != in.Builtins().ULong {
		t.Fatalf("param 1 = %s, want unsigned long", in.Format(info.Params[1]))
	}
	if info.Result != in.Builtins().Void {
		t.Fatalf("result = %s, want void", in.Format(info.Result))
	}
}

func TestMalformedDocuments(t *testing.T) {
	cases := map[string]string{
		"not a func": `
decls:
  - {kind: int, int: 1}`,
		"unknown kind": `
decls:
  - kind: func
    name: f
    type: {kind: func, ret: int}
    body: {kind: block, stmts: [{kind: goto}]}`,
		"bad op": `
decls:
  - kind: func
    name: f
    type: {kind: func, ret: int}
    body:
      kind: block
      stmts:
        - kind: return
          value: {kind: binary, op: "**", lhs: {kind: int, int: 1}, rhs: {kind: int, int: 2}}`,
		"missing rhs": `
decls:
  - kind: func
    name: f
    type: {kind: func, ret: int}
    body:
      kind: block
      stmts:
        - kind: return
          value: {kind: binary, op: "+", lhs: {kind: int, int: 1}}`,
		"non-function type": `
decls:
  - {kind: func, name: f, type: int}`,
		"void param": `
decls:
  - kind: func
    name: f
    type: {kind: func, ret: int, params: [void]}`,
		"missing callee": `
decls:
  - kind: func
    name: f
    type: {kind: func, ret: int}
    body: {kind: block, stmts: [{kind: call}]}`,
	}
	for name, src := range cases {
		doc, err := DecodeYAML([]byte(src))
		if err != nil {
			t.Fatalf("%s: yaml: %v", name, err)
		}
		_, err = Build(doc, 1)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("%s: want *DecodeError, got %v", name, err)
		}
		if de.Loc.Line == 0 {
			t.Fatalf("%s: error without a line: %v", name, de)
		}
	}
}

func TestDecodeRejectsUnknownExtension(t *testing.T) {
	fs := source.NewFileSet()
	_, err := Decode("unit.json", []byte("{}"), fs)
	var de *DecodeError
	if !errors.As(err, &de) || !strings.Contains(de.Msg, ".json") {
		t.Fatalf("want extension error, got %v", err)
	}
	if Supported("unit.json") || !Supported("unit.YML") || !Supported("x.astpack") {
		t.Fatal("Supported disagrees with Decode")
	}
}

func TestDecodeWrapsSyntaxErrors(t *testing.T) {
	_, err := Decode("bad.yaml", []byte("decls: [\n"), source.NewFileSet())
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("want *DecodeError, got %v", err)
	}
}
