// Package astio reads and writes the AST documents a frontend hands to
// ccgen. Hand-written units are YAML; frontends usually emit the compact
// msgpack form (.astpack). Both decode into the same Document, which Build
// turns into an ast.Tree.
package astio

// Document is one translation unit.
type Document struct {
	Module string    `yaml:"module" msgpack:"module"`
	File   string    `yaml:"file,omitempty" msgpack:"file,omitempty"`
	Decls  []NodeDoc `yaml:"decls" msgpack:"decls"`
}

// NodeDoc is a tagged union over node kinds; Kind selects which fields apply.
//
//	func:   name, type (a func TypeDoc), params, body (absent for prototypes)
//	block:  stmts
//	binary: op, lhs, rhs
//	return: value (absent for `return;`)
//	int:    int
//	float:  float, double
//	ident:  name
//	call:   callee, args
//	if:     cond, then, else
//	while:  cond, body
type NodeDoc struct {
	Kind string `yaml:"kind" msgpack:"kind"`
	Line uint32 `yaml:"line,omitempty" msgpack:"line,omitempty"`
	Col  uint32 `yaml:"col,omitempty" msgpack:"col,omitempty"`

	Name   string   `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Type   *TypeDoc `yaml:"type,omitempty" msgpack:"type,omitempty"`
	Params []string `yaml:"params,omitempty" msgpack:"params,omitempty"`
	Body   *NodeDoc `yaml:"body,omitempty" msgpack:"body,omitempty"`

	Stmts []NodeDoc `yaml:"stmts,omitempty" msgpack:"stmts,omitempty"`

	Op  string   `yaml:"op,omitempty" msgpack:"op,omitempty"`
	LHS *NodeDoc `yaml:"lhs,omitempty" msgpack:"lhs,omitempty"`
	RHS *NodeDoc `yaml:"rhs,omitempty" msgpack:"rhs,omitempty"`

	Value *NodeDoc `yaml:"value,omitempty" msgpack:"value,omitempty"`

	Int    int64   `yaml:"int,omitempty" msgpack:"int,omitempty"`
	Float  float64 `yaml:"float,omitempty" msgpack:"float,omitempty"`
	Double bool    `yaml:"double,omitempty" msgpack:"double,omitempty"`

	Callee string    `yaml:"callee,omitempty" msgpack:"callee,omitempty"`
	Args   []NodeDoc `yaml:"args,omitempty" msgpack:"args,omitempty"`

	Cond *NodeDoc `yaml:"cond,omitempty" msgpack:"cond,omitempty"`
	Then *NodeDoc `yaml:"then,omitempty" msgpack:"then,omitempty"`
	Else *NodeDoc `yaml:"else,omitempty" msgpack:"else,omitempty"`
}

// TypeDoc describes a source type. Kinds: void, char, short, int, long,
// llong, float, double, ptr (elem), array (elem, size), func (ret, params, vararg).
type TypeDoc struct {
	Kind     string    `yaml:"kind" msgpack:"kind"`
	Unsigned bool      `yaml:"unsigned,omitempty" msgpack:"unsigned,omitempty"`
	Elem     *TypeDoc  `yaml:"elem,omitempty" msgpack:"elem,omitempty"`
	Size     uint64    `yaml:"size,omitempty" msgpack:"size,omitempty"`
	Ret      *TypeDoc  `yaml:"ret,omitempty" msgpack:"ret,omitempty"`
	Params   []TypeDoc `yaml:"params,omitempty" msgpack:"params,omitempty"`
	Vararg   bool      `yaml:"vararg,omitempty" msgpack:"vararg,omitempty"`
}
