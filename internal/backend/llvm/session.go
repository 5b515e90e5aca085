package llvm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/llir/llvm/ir"

	"ccgen/internal/ast"
	"ccgen/internal/diag"
	"ccgen/internal/source"
	"ccgen/internal/trace"
	"ccgen/internal/types"
)

// UnreachablePolicy decides what happens to statements that follow a terminator.
type UnreachablePolicy uint8

const (
	// UnreachableWarn drops the statements and reports a warning.
	UnreachableWarn UnreachablePolicy = iota
	// UnreachableError fails lowering with UnreachableCode.
	UnreachableError
)

func (p UnreachablePolicy) String() string {
	if p == UnreachableError {
		return "error"
	}
	return "warn"
}

// ParseUnreachablePolicy converts a configuration value to a policy.
// The empty string selects the default.
func ParseUnreachablePolicy(s string) (UnreachablePolicy, error) {
	switch strings.ToLower(s) {
	case "", "warn":
		return UnreachableWarn, nil
	case "error":
		return UnreachableError, nil
	}
	return UnreachableWarn, fmt.Errorf("invalid unreachable policy %q (expected: warn|error)", s)
}

// Options configures a Session.
type Options struct {
	TargetTriple string
	Unreachable  UnreachablePolicy
	Reporter     diag.Reporter // receives warnings; nil drops them
}

type sessionState uint8

const (
	stateCreated sessionState = iota
	statePopulated
	stateSerialized
)

type funcEntry struct {
	fn      *ir.Func
	sig     types.TypeID
	info    *types.FnInfo
	defined bool
}

// Session lowers translation units into one IR module. It is not safe for
// concurrent use; independent units get independent sessions.
type Session struct {
	name   string
	opts   Options
	module *ir.Module
	types  *types.Interner
	funcs  map[string]*funcEntry
	order  []*ir.Func
	state  sessionState
	poison error
}

// NewSession creates a session producing the module moduleName.
func NewSession(moduleName string, opts Options) *Session {
	m := ir.NewModule()
	m.SourceFilename = moduleName
	m.TargetTriple = opts.TargetTriple
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	return &Session{
		name:   moduleName,
		opts:   opts,
		module: m,
		funcs:  make(map[string]*funcEntry),
	}
}

// Run emits every top-level declaration of tree in order. The first failure
// poisons the session: later Run calls return the same error and Finish
// refuses to render the module.
func (s *Session) Run(ctx context.Context, tree *ast.Tree) error {
	switch {
	case s.state == stateSerialized:
		return ErrSessionFinished
	case s.poison != nil:
		return s.poison
	case tree == nil:
		return errors.New("codegen: nil tree")
	}
	if s.types == nil {
		s.types = tree.Types
	} else if s.types != tree.Types {
		return errors.New("codegen: tree uses a different type interner than earlier units")
	}
	s.state = statePopulated

	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeModule, "codegen:"+s.name, trace.CurrentSpan(ctx))
	for _, decl := range tree.Decls {
		if err := ctx.Err(); err != nil {
			s.poison = err
			span.End("canceled")
			return err
		}
		declSpan := trace.Begin(tr, trace.ScopeNode, declName(tree, decl), span.ID())
		_, err := s.emitFunction(tree, decl)
		declSpan.End("")
		if err != nil {
			s.poison = err
			span.End("failed")
			return err
		}
	}
	span.WithExtra("funcs", fmt.Sprint(len(s.order))).End("")
	return nil
}

func declName(tree *ast.Tree, id ast.NodeID) string {
	if fd := tree.FuncDef(id); fd != nil {
		return "func:" + fd.Name
	}
	return "decl"
}

// Finish seals the session and renders the module.
func (s *Session) Finish() (*Output, error) {
	if s.state == stateSerialized {
		return nil, ErrSessionFinished
	}
	s.state = stateSerialized
	if s.poison != nil {
		return nil, s.poison
	}
	for _, f := range s.module.Funcs {
		if err := f.AssignIDs(); err != nil {
			return nil, fmt.Errorf("assign local ids in @%s: %w", f.Name(), err)
		}
	}
	return &Output{Name: s.name, text: s.module.String()}, nil
}

// WriteToFile finishes the session and writes the module to path.
func (s *Session) WriteToFile(path string) error {
	out, err := s.Finish()
	if err != nil {
		return err
	}
	return out.WriteToFile(path)
}

// Funcs returns the emitted functions in declaration order.
func (s *Session) Funcs() []*ir.Func {
	return s.order
}

func (s *Session) warn(kind ErrorKind, loc source.Loc, msg string) {
	diag.ReportWarning(s.opts.Reporter, kind.Code(), loc, msg).Emit()
}

// Output is a rendered module.
type Output struct {
	Name string
	text string
}

// NewOutput wraps already rendered module text, e.g. from a cache.
func NewOutput(name, text string) *Output {
	return &Output{Name: name, text: text}
}

func (o *Output) String() string {
	return o.text
}

// WriteTo writes the module text to w. Failures are *WriteError.
func (o *Output) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, o.text)
	if err != nil {
		return int64(n), &WriteError{Err: err}
	}
	return int64(n), nil
}

// WriteToFile writes the module text to path, creating parent directories.
// The file is replaced atomically, so readers never see a partial module.
func (o *Output) WriteToFile(path string) error {
	if err := o.writeFile(path); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func (o *Output) writeFile(path string) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()
	if _, err = io.WriteString(f, o.text); err != nil {
		return err
	}
	if err = f.Chmod(0o644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
