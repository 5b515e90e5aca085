package llvm

import (
	"github.com/llir/llvm/ir"
	"golang.org/x/text/unicode/norm"

	"ccgen/internal/ast"
	"ccgen/internal/source"
	"ccgen/internal/types"
)

// funcEmitter lowers the body of one function.
type funcEmitter struct {
	s     *Session
	tree  *ast.Tree
	in    *types.Interner
	name  string
	info  *types.FnInfo
	fn    *ir.Func
	cur   *cursor
	scope map[string]Value
}

// emitFunction declares or defines the function described by id. A
// definition that follows a prototype of the same name completes it.
func (s *Session) emitFunction(tree *ast.Tree, id ast.NodeID) (*ir.Func, error) {
	n := tree.Node(id)
	if n == nil {
		return nil, errorf(UnsupportedConstruct, source.Loc{}, "missing declaration node #%d", id)
	}
	fd := tree.FuncDef(id)
	if fd == nil {
		return nil, errorf(UnsupportedConstruct, n.Loc, "top-level %s is not a function definition", n.Kind)
	}
	name := norm.NFC.String(fd.Name)
	if name == "" {
		return nil, errorf(UnsupportedConstruct, n.Loc, "function definition without a name")
	}
	in := tree.Types
	info, ok := in.FnInfo(fd.Signature)
	if !ok {
		return nil, errorf(TypeMismatch, n.Loc, "function %q has non-function signature %s", name, in.Format(fd.Signature))
	}
	isDef := fd.Body.IsValid()
	if err := checkParamNames(n, name, fd.ParamNames, len(info.Params), isDef); err != nil {
		return nil, err
	}

	entry, seen := s.funcs[name]
	if seen {
		if entry.sig != fd.Signature {
			return nil, errorf(TypeMismatch, n.Loc, "conflicting types for %q: %s was declared as %s",
				name, in.Format(fd.Signature), in.Format(entry.sig))
		}
		if isDef && entry.defined {
			return nil, errorf(TypeMismatch, n.Loc, "redefinition of %q", name)
		}
	} else {
		params := make([]*ir.Param, len(info.Params))
		for i, p := range info.Params {
			params[i] = ir.NewParam(paramName(fd.ParamNames, i), lowerType(in, p))
		}
		fn := s.module.NewFunc(name, lowerType(in, info.Result), params...)
		fn.Sig.Variadic = info.Variadic
		entry = &funcEntry{fn: fn, sig: fd.Signature, info: info}
		s.funcs[name] = entry
		s.order = append(s.order, fn)
	}
	if !isDef {
		return entry.fn, nil
	}

	for i, p := range entry.fn.Params {
		p.SetName(fd.ParamNames[i])
	}
	entry.defined = true
	fe := &funcEmitter{
		s:     s,
		tree:  tree,
		in:    in,
		name:  name,
		info:  info,
		fn:    entry.fn,
		cur:   newCursor(entry.fn, fd.ParamNames...),
		scope: make(map[string]Value, len(fd.ParamNames)),
	}
	fe.cur.positionAt(fe.cur.newBlock("entry"))
	for i, pname := range fd.ParamNames {
		if pname != "" {
			fe.scope[pname] = Value{Handle: entry.fn.Params[i], Type: info.Params[i]}
		}
	}

	if _, err := fe.lower(fd.Body); err != nil {
		return nil, err
	}
	if fe.cur.reachable() {
		if !in.IsVoid(info.Result) {
			return nil, errorf(MissingReturn, n.Loc, "control reaches the end of non-void function %q", name)
		}
		fe.cur.ret(nil)
	}
	return entry.fn, nil
}

func checkParamNames(n *ast.Node, fname string, names []string, want int, isDef bool) error {
	if len(names) != want && (isDef || len(names) != 0) {
		return errorf(TypeMismatch, n.Loc, "function %q names %d parameter(s) but its signature has %d",
			fname, len(names), want)
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return errorf(TypeMismatch, n.Loc, "duplicate parameter %q in function %q", name, fname)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func paramName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return ""
}
