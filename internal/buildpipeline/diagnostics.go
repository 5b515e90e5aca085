package buildpipeline

import (
	"context"
	"errors"
	"fmt"

	"ccgen/internal/astio"
	"ccgen/internal/backend/llvm"
	"ccgen/internal/diag"
	"ccgen/internal/source"
)

type readError struct {
	path string
	err  error
}

func (e *readError) Error() string { return fmt.Sprintf("read %s: %v", e.path, e.err) }
func (e *readError) Unwrap() error { return e.err }

// reportError records err as an error diagnostic. Cancellation is not a
// diagnostic.
func reportError(bag *diag.Bag, file source.FileID, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	code, loc, msg := classify(file, err)
	diag.ReportError(&diag.BagReporter{Bag: bag}, code, loc, msg).Emit()
}

func classify(file source.FileID, err error) (diag.Code, source.Loc, string) {
	var (
		cg  *llvm.Error
		de  *astio.DecodeError
		we  *llvm.WriteError
		re  *readError
		loc = source.Loc{File: file}
	)
	switch {
	case errors.As(err, &cg):
		if cg.Loc.File != source.NoFileID {
			loc = cg.Loc
		}
		return cg.Kind.Code(), loc, cg.Msg
	case errors.As(err, &de):
		if de.Loc.File != source.NoFileID {
			loc = de.Loc
		}
		return diag.IODecodeError, loc, de.Msg
	case errors.As(err, &we):
		return diag.IOWriteFailure, loc, we.Error()
	case errors.As(err, &re):
		return diag.IOReadFailure, loc, re.err.Error()
	}
	return diag.UnknownCode, loc, err.Error()
}
