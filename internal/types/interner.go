package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive types.
type Builtins struct {
	Void   TypeID
	Char   TypeID
	UChar  TypeID
	Short  TypeID
	UShort TypeID
	Int    TypeID
	UInt   TypeID
	Long   TypeID
	ULong  TypeID
	LLong  TypeID
	ULLong TypeID
	Float  TypeID
	Double TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
//
// Composite descriptors may only reference TypeIDs that already exist, so
// the type graph is acyclic by construction.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	fns      []FnInfo
	builtins Builtins
}

// NewInterner constructs an interner seeded with the primitive types.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]TypeID, 32),
	}
	in.types = append(in.types, Type{Kind: KindInvalid}) // reserve 0 as NoTypeID
	in.builtins = Builtins{
		Void:   in.Intern(Type{Kind: KindVoid}),
		Char:   in.Intern(MakeInteger(KindChar, Signed)),
		UChar:  in.Intern(MakeInteger(KindChar, Unsigned)),
		Short:  in.Intern(MakeInteger(KindShort, Signed)),
		UShort: in.Intern(MakeInteger(KindShort, Unsigned)),
		Int:    in.Intern(MakeInteger(KindInt, Signed)),
		UInt:   in.Intern(MakeInteger(KindInt, Unsigned)),
		Long:   in.Intern(MakeInteger(KindLong, Signed)),
		ULong:  in.Intern(MakeInteger(KindLong, Unsigned)),
		LLong:  in.Intern(MakeInteger(KindLLong, Signed)),
		ULLong: in.Intern(MakeInteger(KindLLong, Unsigned)),
		Float:  in.Intern(Type{Kind: KindFloat}),
		Double: in.Intern(Type{Kind: KindDouble}),
	}
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
// Function types must be registered with RegisterFn.
func (in *Interner) Intern(t Type) TypeID {
	switch t.Kind {
	case KindInvalid:
		return NoTypeID
	case KindFunc:
		panic("types: function types must be registered with RegisterFn")
	case KindPointer, KindArray:
		in.mustExist(t.Elem)
	}
	if !t.Kind.IsInteger() {
		t.Sign = Signed
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// Integer returns the TypeID of the integer kind k with the given sign.
func (in *Interner) Integer(k Kind, sign Sign) TypeID {
	return in.Intern(MakeInteger(k, sign))
}

// Pointer returns the TypeID of a pointer to elem.
func (in *Interner) Pointer(elem TypeID) TypeID {
	return in.Intern(MakePointer(elem))
}

// Array returns the TypeID of elem[count].
func (in *Interner) Array(elem TypeID, count uint64) TypeID {
	return in.Intern(MakeArray(elem, count))
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

func (in *Interner) mustExist(id TypeID) {
	if id == NoTypeID || int(id) >= len(in.types) {
		panic(fmt.Errorf("types: reference to unknown type id %d", id))
	}
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len returns the number of interned types.
func (in *Interner) Len() int {
	return len(in.types) - 1
}
