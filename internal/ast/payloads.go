package ast

import "ccgen/internal/types"

// FuncDefData describes a function definition or, with no Body, a prototype.
type FuncDefData struct {
	Name       string
	Signature  types.TypeID // KindFunc
	ParamNames []string
	Body       NodeID
}

// BlockData is an ordered statement list.
type BlockData struct {
	Stmts []NodeID
}

// BinaryData is a binary operation.
type BinaryData struct {
	Op  BinaryOp
	LHS NodeID
	RHS NodeID
}

// ReturnData is a return statement; Value is NoNodeID for `return;`.
type ReturnData struct {
	Value NodeID
}

// IntLitData is an integer literal typed as int.
type IntLitData struct {
	Value int64
}

// FloatLitData is a floating literal; Double selects double over float.
type FloatLitData struct {
	Value  float64
	Double bool
}

// IdentData references a name in scope.
type IdentData struct {
	Name string
}

// CallData calls a previously declared function by name.
type CallData struct {
	Callee string
	Args   []NodeID
}

// IfData is a conditional; Else is NoNodeID when absent.
type IfData struct {
	Cond NodeID
	Then NodeID
	Else NodeID
}

// WhileData is a pre-tested loop.
type WhileData struct {
	Cond NodeID
	Body NodeID
}
