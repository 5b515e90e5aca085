package astio

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ccgen/internal/ast"
	"ccgen/internal/source"
)

// Unit is a decoded translation unit ready for lowering.
type Unit struct {
	Module string
	Path   string
	File   source.FileID
	Tree   *ast.Tree
	// Sum is the sha256 of the raw file contents.
	Sum [sha256.Size]byte
}

// Supported reports whether path has an extension DecodeFile understands.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".astpack":
		return true
	}
	return false
}

// DecodeFile reads path, registers it in fs and builds its tree. The module
// name falls back to the file name without its extension.
func DecodeFile(path string, fs *source.FileSet) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, data, fs)
}

// Decode is DecodeFile for contents already in memory.
func Decode(path string, data []byte, fs *source.FileSet) (*Unit, error) {
	file := fs.Add(path)
	var (
		doc *Document
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		doc, err = DecodeYAML(data)
	case ".astpack":
		doc, err = DecodeMsgpack(bytes.NewReader(data))
	default:
		return nil, &DecodeError{Loc: source.Loc{File: file}, Msg: fmt.Sprintf("unsupported input extension %q", ext)}
	}
	if err != nil {
		return nil, &DecodeError{Loc: source.Loc{File: file}, Msg: err.Error()}
	}
	tree, err := Build(doc, file)
	if err != nil {
		return nil, err
	}
	name := doc.Module
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &Unit{
		Module: name,
		Path:   path,
		File:   file,
		Tree:   tree,
		Sum:    sha256.Sum256(data),
	}, nil
}
