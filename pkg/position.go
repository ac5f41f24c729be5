package pkg

import (
	"strconv"
	"unicode/utf8"
)

// Position identifies a location in source text.
// Offset is a byte offset; Line and Column are 1-based, with Column counted
// in runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "line L, column C".
func (p Position) String() string {
	return "line " + strconv.Itoa(p.Line) + ", column " + strconv.Itoa(p.Column)
}

// PositionOf computes the line and column of byte offset in source.
// Offsets beyond the end of source are clamped.
func PositionOf(source string, offset int) Position {
	offset = max(0, min(offset, len(source)))

	pos := Position{Offset: offset, Line: 1, Column: 1}

	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(source[i:])
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}

		i += size
	}

	return pos
}
