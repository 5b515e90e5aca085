package llvm

import (
	"fmt"

	irtypes "github.com/llir/llvm/ir/types"

	"ccgen/internal/types"
)

// lowerType maps a source type to its IR type. An unknown id is a bug in
// the caller, not in the input, so it panics.
func lowerType(in *types.Interner, id types.TypeID) irtypes.Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("llvm: lowering unknown type #%d", id))
	}
	switch tt.Kind {
	case types.KindVoid:
		return irtypes.Void
	case types.KindChar:
		return irtypes.I8
	case types.KindShort:
		return irtypes.I16
	case types.KindInt, types.KindLong:
		return irtypes.I32
	case types.KindLLong:
		return irtypes.I64
	case types.KindFloat:
		return irtypes.Float
	case types.KindDouble:
		return irtypes.Double
	case types.KindPointer:
		return irtypes.NewPointer(lowerElem(in, tt.Elem))
	case types.KindArray:
		return irtypes.NewArray(tt.Count, lowerElem(in, tt.Elem))
	case types.KindFunc:
		return lowerFuncType(in, id)
	}
	panic(fmt.Sprintf("llvm: lowering type #%d of kind %s", id, tt.Kind))
}

// lowerElem lowers a pointee. void has no storage, so void* becomes i8*.
func lowerElem(in *types.Interner, id types.TypeID) irtypes.Type {
	if in.IsVoid(id) {
		return irtypes.I8
	}
	return lowerType(in, id)
}

func lowerFuncType(in *types.Interner, id types.TypeID) *irtypes.FuncType {
	info, ok := in.FnInfo(id)
	if !ok {
		panic(fmt.Sprintf("llvm: type #%d is not a function", id))
	}
	params := make([]irtypes.Type, len(info.Params))
	for i, p := range info.Params {
		params[i] = lowerType(in, p)
	}
	ft := irtypes.NewFunc(lowerType(in, info.Result), params...)
	ft.Variadic = info.Variadic
	return ft
}
