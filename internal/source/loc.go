package source

import "fmt"

// FileID identifies a source file within a FileSet.
type FileID uint32

// NoFileID marks a location that is not attached to any file.
const NoFileID FileID = 0

// Loc is the position of a node as reported by the frontend.
type Loc struct {
	File FileID
	Line uint32 // 1-based, 0 when unknown
	Col  uint32 // 1-based, 0 when unknown
}

// Known reports whether the location carries a line number.
func (l Loc) Known() bool {
	return l.Line != 0
}

func (l Loc) String() string {
	if !l.Known() {
		return fmt.Sprintf("%d:?", l.File)
	}
	return fmt.Sprintf("%d:%d:%d", l.File, l.Line, l.Col)
}
