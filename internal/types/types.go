package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the source-level type variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindChar
	KindShort
	KindInt
	KindLong
	KindLLong
	KindFloat
	KindDouble
	KindPointer
	KindArray
	KindFunc
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindChar:
		return "char"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindLLong:
		return "long long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindFunc:
		return "function"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsInteger reports whether k is one of the integer kinds.
func (k Kind) IsInteger() bool {
	return k >= KindChar && k <= KindLLong
}

// IsFloat reports whether k is float or double.
func (k Kind) IsFloat() bool {
	return k == KindFloat || k == KindDouble
}

// Sign is the signedness of an integer type.
type Sign uint8

const (
	Signed Sign = iota
	Unsigned
)

func (s Sign) String() string {
	if s == Unsigned {
		return "unsigned"
	}
	return "signed"
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Sign    Sign   // for integers
	Elem    TypeID // for pointers and arrays
	Count   uint64 // for arrays
	Payload uint32 // index into the function table
}

// Descriptor helpers ---------------------------------------------------------

// MakeInteger describes an integer of kind k (KindChar..KindLLong).
func MakeInteger(k Kind, sign Sign) Type {
	return Type{Kind: k, Sign: sign}
}

// MakePointer describes a pointer to elem.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeArray describes a fixed-size array of elem.
func MakeArray(elem TypeID, count uint64) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

// BitWidth returns the storage width of an integer kind. Long is 32 bits
// wide. Non-integer kinds report 0.
func BitWidth(k Kind) uint64 {
	switch k {
	case KindChar:
		return 8
	case KindShort:
		return 16
	case KindInt, KindLong:
		return 32
	case KindLLong:
		return 64
	default:
		return 0
	}
}

// Rank orders integer kinds for the usual arithmetic conversions.
func Rank(k Kind) int {
	switch k {
	case KindChar:
		return 1
	case KindShort:
		return 2
	case KindInt:
		return 3
	case KindLong:
		return 4
	case KindLLong:
		return 5
	default:
		return 0
	}
}
