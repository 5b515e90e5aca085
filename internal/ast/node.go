package ast

import (
	"fmt"

	"ccgen/internal/source"
)

type (
	// NodeID addresses a node inside a Tree.
	NodeID uint32
	// PayloadID addresses the kind-specific data of a node.
	PayloadID uint32
)

const (
	NoNodeID    NodeID    = 0
	NoPayloadID PayloadID = 0
)

func (id NodeID) IsValid() bool { return id != NoNodeID }

// NodeKind is the closed set of constructs the frontend hands to codegen.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeFuncDef
	NodeBlock
	NodeBinary
	NodeReturn
	NodeIntLit
	NodeFloatLit
	NodeIdent
	NodeCall
	NodeIf
	NodeWhile
)

func (k NodeKind) String() string {
	switch k {
	case NodeInvalid:
		return "invalid"
	case NodeFuncDef:
		return "function definition"
	case NodeBlock:
		return "block"
	case NodeBinary:
		return "binary operation"
	case NodeReturn:
		return "return"
	case NodeIntLit:
		return "integer literal"
	case NodeFloatLit:
		return "floating literal"
	case NodeIdent:
		return "identifier"
	case NodeCall:
		return "call"
	case NodeIf:
		return "if"
	case NodeWhile:
		return "while"
	default:
		return fmt.Sprintf("NodeKind(%d)", k)
	}
}

// Node is the common header of every AST node.
type Node struct {
	Kind    NodeKind
	Loc     source.Loc
	Payload PayloadID
}
