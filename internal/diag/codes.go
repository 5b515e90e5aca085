package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// IO
	IOInfo         Code = 4000
	IOReadFailure  Code = 4001
	IOWriteFailure Code = 4002
	IODecodeError  Code = 4003

	// Project configuration
	PrjInfo          Code = 5000
	PrjInvalidConfig Code = 5001

	// Codegen
	CGInfo                 Code = 9000
	CGUnsupportedConstruct Code = 9001
	CGTypeMismatch         Code = 9002
	CGMissingReturn        Code = 9003
	CGUnreachableCode      Code = 9004
	CGUnresolvedName       Code = 9005
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	IOInfo:         "I/O information",
	IOReadFailure:  "Cannot read input",
	IOWriteFailure: "Cannot write output",
	IODecodeError:  "Malformed AST document",

	PrjInfo:          "Project information",
	PrjInvalidConfig: "Invalid project configuration",

	CGInfo:                 "Codegen information",
	CGUnsupportedConstruct: "Unsupported construct",
	CGTypeMismatch:         "Type mismatch",
	CGMissingReturn:        "Missing return in function",
	CGUnreachableCode:      "Unreachable code",
	CGUnresolvedName:       "Unresolved name",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("CG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
