package diag

import (
	"fmt"
	"strings"

	"ccgen/internal/source"
)

// FormatShort renders one line per diagnostic:
//
//	<severity> <code> <path>:<line>:<col> <message>
//
// Notes follow their diagnostic with the severity "note" when includeNotes is set.
// Input order is preserved; call Bag.Sort first for a stable order.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	var b strings.Builder
	for i := range diags {
		d := &diags[i]
		writeLine(&b, d.Severity.label(), d.Code, fs, d.Primary, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			writeLine(&b, "note", d.Code, fs, n.Loc, n.Msg)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatOne renders a single diagnostic the same way as FormatShort.
func FormatOne(d Diagnostic, fs *source.FileSet) string {
	var b strings.Builder
	writeLine(&b, d.Severity.label(), d.Code, fs, d.Primary, d.Message)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeLine(b *strings.Builder, sev string, code Code, fs *source.FileSet, loc source.Loc, msg string) {
	where := loc.String()
	if fs != nil {
		where = fs.Format(loc)
	}
	fmt.Fprintf(b, "%s %s %s %s\n", sev, code.ID(), where, sanitizeMessage(msg))
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
