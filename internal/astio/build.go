package astio

import (
	"fmt"

	"ccgen/internal/ast"
	"ccgen/internal/source"
	"ccgen/internal/types"
)

// DecodeError reports a malformed document and where it went wrong.
type DecodeError struct {
	Loc source.Loc
	Msg string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
}

type builder struct {
	tree *ast.Tree
	in   *types.Interner
	file source.FileID
}

// Build converts doc into a tree whose nodes point into file.
func Build(doc *Document, file source.FileID) (*ast.Tree, error) {
	b := &builder{tree: ast.NewTree(nil), file: file}
	b.in = b.tree.Types
	for i := range doc.Decls {
		d := &doc.Decls[i]
		if d.Kind != "func" {
			return nil, b.errorf(d, "top-level declaration must be a func, got %q", d.Kind)
		}
		id, err := b.node(d)
		if err != nil {
			return nil, err
		}
		b.tree.AddDecl(id)
	}
	return b.tree, nil
}

func (b *builder) loc(n *NodeDoc) source.Loc {
	return source.Loc{File: b.file, Line: n.Line, Col: n.Col}
}

func (b *builder) errorf(n *NodeDoc, format string, args ...any) *DecodeError {
	return &DecodeError{Loc: b.loc(n), Msg: fmt.Sprintf(format, args...)}
}

// optional builds n when present and returns NoNodeID otherwise.
func (b *builder) optional(n *NodeDoc) (ast.NodeID, error) {
	if n == nil {
		return ast.NoNodeID, nil
	}
	return b.node(n)
}

func (b *builder) required(parent *NodeDoc, n *NodeDoc, field string) (ast.NodeID, error) {
	if n == nil {
		return ast.NoNodeID, b.errorf(parent, "%s node needs %q", parent.Kind, field)
	}
	return b.node(n)
}

func (b *builder) list(nodes []NodeDoc) ([]ast.NodeID, error) {
	ids := make([]ast.NodeID, 0, len(nodes))
	for i := range nodes {
		id, err := b.node(&nodes[i])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (b *builder) node(n *NodeDoc) (ast.NodeID, error) {
	loc := b.loc(n)
	switch n.Kind {
	case "func":
		return b.funcDef(n)
	case "block":
		stmts, err := b.list(n.Stmts)
		if err != nil {
			return ast.NoNodeID, err
		}
		return b.tree.NewBlock(loc, stmts...), nil
	case "binary":
		op, ok := ast.ParseBinaryOp(n.Op)
		if !ok {
			return ast.NoNodeID, b.errorf(n, "unknown binary operator %q", n.Op)
		}
		lhs, err := b.required(n, n.LHS, "lhs")
		if err != nil {
			return ast.NoNodeID, err
		}
		rhs, err := b.required(n, n.RHS, "rhs")
		if err != nil {
			return ast.NoNodeID, err
		}
		return b.tree.NewBinary(loc, op, lhs, rhs), nil
	case "return":
		value, err := b.optional(n.Value)
		if err != nil {
			return ast.NoNodeID, err
		}
		return b.tree.NewReturn(loc, value), nil
	case "int":
		return b.tree.NewIntLit(loc, n.Int), nil
	case "float":
		return b.tree.NewFloatLit(loc, n.Float, n.Double), nil
	case "ident":
		if n.Name == "" {
			return ast.NoNodeID, b.errorf(n, "ident node needs \"name\"")
		}
		return b.tree.NewIdent(loc, n.Name), nil
	case "call":
		if n.Callee == "" {
			return ast.NoNodeID, b.errorf(n, "call node needs \"callee\"")
		}
		args, err := b.list(n.Args)
		if err != nil {
			return ast.NoNodeID, err
		}
		return b.tree.NewCall(loc, n.Callee, args...), nil
	case "if":
		cond, err := b.required(n, n.Cond, "cond")
		if err != nil {
			return ast.NoNodeID, err
		}
		then, err := b.required(n, n.Then, "then")
		if err != nil {
			return ast.NoNodeID, err
		}
		els, err := b.optional(n.Else)
		if err != nil {
			return ast.NoNodeID, err
		}
		return b.tree.NewIf(loc, cond, then, els), nil
	case "while":
		cond, err := b.required(n, n.Cond, "cond")
		if err != nil {
			return ast.NoNodeID, err
		}
		body, err := b.required(n, n.Body, "body")
		if err != nil {
			return ast.NoNodeID, err
		}
		return b.tree.NewWhile(loc, cond, body), nil
	case "":
		return ast.NoNodeID, b.errorf(n, "node without kind")
	}
	return ast.NoNodeID, b.errorf(n, "unknown node kind %q", n.Kind)
}

func (b *builder) funcDef(n *NodeDoc) (ast.NodeID, error) {
	if n.Name == "" {
		return ast.NoNodeID, b.errorf(n, "func node needs \"name\"")
	}
	if n.Type == nil {
		return ast.NoNodeID, b.errorf(n, "func %q needs \"type\"", n.Name)
	}
	sig, err := b.typ(n, n.Type)
	if err != nil {
		return ast.NoNodeID, err
	}
	if b.in.KindOf(sig) != types.KindFunc {
		return ast.NoNodeID, b.errorf(n, "func %q has type %s, want a function type", n.Name, b.in.Format(sig))
	}
	body, err := b.optional(n.Body)
	if err != nil {
		return ast.NoNodeID, err
	}
	return b.tree.NewFuncDef(b.loc(n), n.Name, sig, n.Params, body), nil
}

var integerKinds = map[string]types.Kind{
	"char":  types.KindChar,
	"short": types.KindShort,
	"int":   types.KindInt,
	"long":  types.KindLong,
	"llong": types.KindLLong,
}

// typ interns t. Children are interned first, which keeps the type graph acyclic.
func (b *builder) typ(at *NodeDoc, t *TypeDoc) (types.TypeID, error) {
	bt := b.in.Builtins()
	if k, ok := integerKinds[t.Kind]; ok {
		sign := types.Signed
		if t.Unsigned {
			sign = types.Unsigned
		}
		return b.in.Integer(k, sign), nil
	}
	if t.Unsigned {
		return types.NoTypeID, b.errorf(at, "type %q cannot be unsigned", t.Kind)
	}
	switch t.Kind {
	case "void":
		return bt.Void, nil
	case "float":
		return bt.Float, nil
	case "double":
		return bt.Double, nil
	case "ptr", "array":
		if t.Elem == nil {
			return types.NoTypeID, b.errorf(at, "%s type needs \"elem\"", t.Kind)
		}
		elem, err := b.typ(at, t.Elem)
		if err != nil {
			return types.NoTypeID, err
		}
		if t.Kind == "ptr" {
			return b.in.Pointer(elem), nil
		}
		if b.in.IsVoid(elem) {
			return types.NoTypeID, b.errorf(at, "array of void")
		}
		return b.in.Array(elem, t.Size), nil
	case "func":
		if t.Ret == nil {
			return types.NoTypeID, b.errorf(at, "func type needs \"ret\"")
		}
		ret, err := b.typ(at, t.Ret)
		if err != nil {
			return types.NoTypeID, err
		}
		params := make([]types.TypeID, 0, len(t.Params))
		for i := range t.Params {
			p, err := b.typ(at, &t.Params[i])
			if err != nil {
				return types.NoTypeID, err
			}
			if b.in.IsVoid(p) {
				return types.NoTypeID, b.errorf(at, "parameter %d has type void", i)
			}
			params = append(params, p)
		}
		return b.in.RegisterFn(params, ret, t.Vararg), nil
	}
	return types.NoTypeID, b.errorf(at, "unknown type kind %q", t.Kind)
}
