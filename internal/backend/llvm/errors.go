package llvm

import (
	"errors"
	"fmt"

	"ccgen/internal/diag"
	"ccgen/internal/source"
)

// ErrorKind classifies codegen failures.
type ErrorKind uint8

const (
	UnsupportedConstruct ErrorKind = iota + 1
	TypeMismatch
	MissingReturn
	UnresolvedName
	UnreachableCode
)

func (k ErrorKind) String() string {
	switch k {
	case UnsupportedConstruct:
		return "unsupported construct"
	case TypeMismatch:
		return "type mismatch"
	case MissingReturn:
		return "missing return"
	case UnresolvedName:
		return "unresolved name"
	case UnreachableCode:
		return "unreachable code"
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Code maps the kind to its diagnostic code.
func (k ErrorKind) Code() diag.Code {
	switch k {
	case UnsupportedConstruct:
		return diag.CGUnsupportedConstruct
	case TypeMismatch:
		return diag.CGTypeMismatch
	case MissingReturn:
		return diag.CGMissingReturn
	case UnresolvedName:
		return diag.CGUnresolvedName
	case UnreachableCode:
		return diag.CGUnreachableCode
	}
	return diag.UnknownCode
}

// Error is a codegen failure attached to the node that caused it.
type Error struct {
	Kind ErrorKind
	Loc  source.Loc
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Loc, e.Msg)
}

func errorf(kind ErrorKind, loc source.Loc, format string, args ...any) *Error {
	return &Error{Kind: kind, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the ErrorKind carried by err, or 0 when err is not a codegen error.
func KindOf(err error) ErrorKind {
	var cg *Error
	if errors.As(err, &cg) {
		return cg.Kind
	}
	return 0
}

// WriteError reports a failure to write the rendered module.
type WriteError struct {
	Path string // empty for plain writers
	Err  error
}

func (e *WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("write module: %v", e.Err)
	}
	return fmt.Sprintf("write module to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ErrSessionFinished is returned by a session that was already sealed by Finish.
var ErrSessionFinished = errors.New("codegen session already finished")
