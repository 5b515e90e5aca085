package astio

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"gopkg.in/yaml.v3"
)

// UnmarshalYAML records the position of the mapping unless the document
// spells line/col out, so hand-written units get real locations.
func (n *NodeDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain NodeDoc
	if err := node.Decode((*plain)(n)); err != nil {
		return err
	}
	if n.Line == 0 {
		if line, err := safecast.Conv[uint32](node.Line); err == nil {
			n.Line = line
		}
		if col, err := safecast.Conv[uint32](node.Column); err == nil {
			n.Col = col
		}
	}
	return nil
}

// UnmarshalYAML accepts the mapping form or a scalar shorthand in C
// spelling: int, unsigned char, char*, double, void*, long long.
func (t *TypeDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := ParseTypeShorthand(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*t = *parsed
		return nil
	}
	type plain TypeDoc
	return node.Decode((*plain)(t))
}

var shorthandKinds = map[string]string{
	"void":      "void",
	"char":      "char",
	"short":     "short",
	"int":       "int",
	"long":      "long",
	"long long": "llong",
	"llong":     "llong",
	"float":     "float",
	"double":    "double",
}

// ParseTypeShorthand parses "[unsigned|signed] base[*...]".
func ParseTypeShorthand(s string) (*TypeDoc, error) {
	spec := strings.TrimSpace(s)
	stars := 0
	for strings.HasSuffix(spec, "*") {
		spec = strings.TrimSpace(strings.TrimSuffix(spec, "*"))
		stars++
	}
	fields := strings.Fields(spec)
	unsigned := false
	if len(fields) > 0 && (fields[0] == "unsigned" || fields[0] == "signed") {
		unsigned = fields[0] == "unsigned"
		fields = fields[1:]
		if len(fields) == 0 {
			fields = []string{"int"}
		}
	}
	kind, ok := shorthandKinds[strings.Join(fields, " ")]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", s)
	}
	if unsigned && (kind == "void" || kind == "float" || kind == "double") {
		return nil, fmt.Errorf("type %q cannot be unsigned", s)
	}
	t := &TypeDoc{Kind: kind, Unsigned: unsigned}
	for i := 0; i < stars; i++ {
		t = &TypeDoc{Kind: "ptr", Elem: t}
	}
	return t, nil
}

// DecodeYAML parses a YAML document.
func DecodeYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeYAML renders doc as YAML.
func EncodeYAML(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}
