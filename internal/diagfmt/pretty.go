package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"ccgen/internal/diag"
	"ccgen/internal/source"
)

// Pretty writes one line per diagnostic:
//
//	<path>:<line>:<col>: <severity> <CODE>: <message>
//
// followed by its notes when opts.ShowNotes is set. diags are expected sorted.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var b strings.Builder
	for _, d := range diags {
		b.WriteString(p.path.Sprint(where(fs, d.Primary, opts.PathMode)))
		b.WriteString(": ")
		b.WriteString(p.severity(d.Severity).Sprint(strings.ToLower(d.Severity.String())))
		b.WriteByte(' ')
		b.WriteString(p.code.Sprint(d.Code.ID()))
		b.WriteString(": ")
		b.WriteString(oneLine(d.Message))
		b.WriteByte('\n')
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			b.WriteString("  ")
			b.WriteString(p.note.Sprint("note"))
			b.WriteString(": ")
			if n.Loc.File != source.NoFileID {
				b.WriteString(where(fs, n.Loc, opts.PathMode))
				b.WriteString(": ")
			}
			b.WriteString(oneLine(n.Msg))
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Summary renders "N errors, M warnings" or "" when diags is empty.
func Summary(diags []diag.Diagnostic) string {
	var errs, warns int
	for _, d := range diags {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		return ""
	}
	return fmt.Sprintf("%s, %s", count(errs, "error"), count(warns, "warning"))
}

func count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func where(fs *source.FileSet, loc source.Loc, mode PathMode) string {
	if fs == nil {
		return loc.String()
	}
	path := formatPath(fs, loc.File, mode)
	if !loc.Known() {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, loc.Line, loc.Col)
}

func oneLine(msg string) string {
	return strings.ReplaceAll(strings.TrimRight(msg, "\n"), "\n", " ")
}

type palette struct {
	path, code, note       *color.Color
	err, warn, info, plain *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		path:  color.New(color.Bold),
		code:  color.New(color.Bold),
		note:  color.New(color.FgCyan),
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgBlue),
		plain: color.New(),
	}
	for _, c := range []*color.Color{p.path, p.code, p.note, p.err, p.warn, p.info, p.plain} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	case diag.SevInfo:
		return p.info
	}
	return p.plain
}
