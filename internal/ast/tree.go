package ast

import (
	"slices"

	"ccgen/internal/source"
	"ccgen/internal/types"
)

// Tree owns every node of one translation unit together with the type
// interner the nodes refer to.
type Tree struct {
	Types *types.Interner
	Decls []NodeID

	nodes    *Arena[Node]
	funcs    *Arena[FuncDefData]
	blocks   *Arena[BlockData]
	binaries *Arena[BinaryData]
	returns  *Arena[ReturnData]
	ints     *Arena[IntLitData]
	floats   *Arena[FloatLitData]
	idents   *Arena[IdentData]
	calls    *Arena[CallData]
	ifs      *Arena[IfData]
	whiles   *Arena[WhileData]
}

// NewTree creates an empty tree. A nil interner gets a fresh one.
func NewTree(in *types.Interner) *Tree {
	if in == nil {
		in = types.NewInterner()
	}
	const capHint = 1 << 6
	return &Tree{
		Types:    in,
		nodes:    NewArena[Node](capHint),
		funcs:    NewArena[FuncDefData](8),
		blocks:   NewArena[BlockData](capHint),
		binaries: NewArena[BinaryData](capHint),
		returns:  NewArena[ReturnData](8),
		ints:     NewArena[IntLitData](capHint),
		floats:   NewArena[FloatLitData](8),
		idents:   NewArena[IdentData](capHint),
		calls:    NewArena[CallData](8),
		ifs:      NewArena[IfData](8),
		whiles:   NewArena[WhileData](8),
	}
}

func (t *Tree) newNode(kind NodeKind, loc source.Loc, payload uint32) NodeID {
	return NodeID(t.nodes.Allocate(Node{Kind: kind, Loc: loc, Payload: PayloadID(payload)}))
}

// Node returns the header of id or nil.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return t.nodes.Len()
}

// AddDecl appends a top-level declaration.
func (t *Tree) AddDecl(id NodeID) {
	t.Decls = append(t.Decls, id)
}

// Constructors ---------------------------------------------------------------

func (t *Tree) NewFuncDef(loc source.Loc, name string, sig types.TypeID, params []string, body NodeID) NodeID {
	p := t.funcs.Allocate(FuncDefData{Name: name, Signature: sig, ParamNames: slices.Clone(params), Body: body})
	return t.newNode(NodeFuncDef, loc, p)
}

func (t *Tree) NewBlock(loc source.Loc, stmts ...NodeID) NodeID {
	p := t.blocks.Allocate(BlockData{Stmts: slices.Clone(stmts)})
	return t.newNode(NodeBlock, loc, p)
}

func (t *Tree) NewBinary(loc source.Loc, op BinaryOp, lhs, rhs NodeID) NodeID {
	p := t.binaries.Allocate(BinaryData{Op: op, LHS: lhs, RHS: rhs})
	return t.newNode(NodeBinary, loc, p)
}

func (t *Tree) NewReturn(loc source.Loc, value NodeID) NodeID {
	p := t.returns.Allocate(ReturnData{Value: value})
	return t.newNode(NodeReturn, loc, p)
}

func (t *Tree) NewIntLit(loc source.Loc, value int64) NodeID {
	p := t.ints.Allocate(IntLitData{Value: value})
	return t.newNode(NodeIntLit, loc, p)
}

func (t *Tree) NewFloatLit(loc source.Loc, value float64, double bool) NodeID {
	p := t.floats.Allocate(FloatLitData{Value: value, Double: double})
	return t.newNode(NodeFloatLit, loc, p)
}

func (t *Tree) NewIdent(loc source.Loc, name string) NodeID {
	p := t.idents.Allocate(IdentData{Name: name})
	return t.newNode(NodeIdent, loc, p)
}

func (t *Tree) NewCall(loc source.Loc, callee string, args ...NodeID) NodeID {
	p := t.calls.Allocate(CallData{Callee: callee, Args: slices.Clone(args)})
	return t.newNode(NodeCall, loc, p)
}

func (t *Tree) NewIf(loc source.Loc, cond, then, els NodeID) NodeID {
	p := t.ifs.Allocate(IfData{Cond: cond, Then: then, Else: els})
	return t.newNode(NodeIf, loc, p)
}

func (t *Tree) NewWhile(loc source.Loc, cond, body NodeID) NodeID {
	p := t.whiles.Allocate(WhileData{Cond: cond, Body: body})
	return t.newNode(NodeWhile, loc, p)
}

// Accessors return nil when id does not exist or has a different kind.

func (t *Tree) payload(id NodeID, kind NodeKind) (uint32, bool) {
	n := t.Node(id)
	if n == nil || n.Kind != kind {
		return 0, false
	}
	return uint32(n.Payload), true
}

func (t *Tree) FuncDef(id NodeID) *FuncDefData {
	if p, ok := t.payload(id, NodeFuncDef); ok {
		return t.funcs.Get(p)
	}
	return nil
}

func (t *Tree) Block(id NodeID) *BlockData {
	if p, ok := t.payload(id, NodeBlock); ok {
		return t.blocks.Get(p)
	}
	return nil
}

func (t *Tree) Binary(id NodeID) *BinaryData {
	if p, ok := t.payload(id, NodeBinary); ok {
		return t.binaries.Get(p)
	}
	return nil
}

func (t *Tree) Return(id NodeID) *ReturnData {
	if p, ok := t.payload(id, NodeReturn); ok {
		return t.returns.Get(p)
	}
	return nil
}

func (t *Tree) IntLit(id NodeID) *IntLitData {
	if p, ok := t.payload(id, NodeIntLit); ok {
		return t.ints.Get(p)
	}
	return nil
}

func (t *Tree) FloatLit(id NodeID) *FloatLitData {
	if p, ok := t.payload(id, NodeFloatLit); ok {
		return t.floats.Get(p)
	}
	return nil
}

func (t *Tree) Ident(id NodeID) *IdentData {
	if p, ok := t.payload(id, NodeIdent); ok {
		return t.idents.Get(p)
	}
	return nil
}

func (t *Tree) Call(id NodeID) *CallData {
	if p, ok := t.payload(id, NodeCall); ok {
		return t.calls.Get(p)
	}
	return nil
}

func (t *Tree) If(id NodeID) *IfData {
	if p, ok := t.payload(id, NodeIf); ok {
		return t.ifs.Get(p)
	}
	return nil
}

func (t *Tree) While(id NodeID) *WhileData {
	if p, ok := t.payload(id, NodeWhile); ok {
		return t.whiles.Get(p)
	}
	return nil
}

// NewNode allocates a header-only node of kind. It exists for frontends that
// forward constructs carrying no payload; lowering decides whether to accept them.
func (t *Tree) NewNode(kind NodeKind, loc source.Loc) NodeID {
	return t.newNode(kind, loc, 0)
}
