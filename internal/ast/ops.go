package ast

import "fmt"

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	OpInvalid BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLogicalAnd
	OpLogicalOr
)

var opSpelling = map[BinaryOp]string{
	OpAdd:        "+",
	OpSub:        "-",
	OpMul:        "*",
	OpDiv:        "/",
	OpRem:        "%",
	OpBitAnd:     "&",
	OpBitOr:      "|",
	OpBitXor:     "^",
	OpShl:        "<<",
	OpShr:        ">>",
	OpEq:         "==",
	OpNe:         "!=",
	OpLt:         "<",
	OpLe:         "<=",
	OpGt:         ">",
	OpGe:         ">=",
	OpLogicalAnd: "&&",
	OpLogicalOr:  "||",
}

func (op BinaryOp) String() string {
	if s, ok := opSpelling[op]; ok {
		return s
	}
	return fmt.Sprintf("BinaryOp(%d)", op)
}

// ParseBinaryOp maps an operator spelling to its BinaryOp.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for op, spelling := range opSpelling {
		if spelling == s {
			return op, true
		}
	}
	return OpInvalid, false
}

// IsComparison reports whether op yields a truth value from two operands.
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// IsLogical reports whether op is a short-circuit operator.
func (op BinaryOp) IsLogical() bool {
	return op == OpLogicalAnd || op == OpLogicalOr
}

// IsBitwise reports whether op only applies to integers.
func (op BinaryOp) IsBitwise() bool {
	return op >= OpBitAnd && op <= OpShr
}
