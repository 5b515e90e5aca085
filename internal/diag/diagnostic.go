// Package diag holds the diagnostic model shared by decoding, codegen and the
// build pipeline. It does no IO; rendering to a terminal lives in cmd/ccgen.
package diag

import "ccgen/internal/source"

type Note struct {
	Loc source.Loc
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Loc
	Notes    []Note
}
