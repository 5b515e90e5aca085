package llvm

import (
	"github.com/llir/llvm/ir/value"

	"ccgen/internal/types"
)

// Value is a lowered expression: the IR handle together with its source
// type. The zero Value is the result of a statement.
type Value struct {
	Handle value.Value
	Type   types.TypeID
}

// IsStmt reports whether v carries no expression result.
func (v Value) IsStmt() bool {
	return v.Type == types.NoTypeID
}

func stmtValue() Value {
	return Value{}
}
