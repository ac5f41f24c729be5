package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// isBoundary reports whether r ends a path while completing. It covers
// whitespace and the punctuation of both syntax presets.
func isBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '{', '}', '%', '#', '/', '>', '!', '"', '(', ')', ',', '[', ']':
		return true
	}

	return false
}

// wordBounds returns the byte range of the path segment at cursor.
// Segments are delimited by boundary runes and by sep.
func wordBounds(input string, cursor int, sep string) (start, end int) {
	cursor = max(0, min(cursor, len(input)))

	start = cursor
	for start > 0 {
		if sep != "" && strings.HasSuffix(input[:start], sep) {
			break
		}

		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		if sep != "" && strings.HasPrefix(input[end:], sep) {
			break
		}

		r, size := utf8.DecodeRuneInString(input[end:])
		if isBoundary(r) {
			break
		}

		end += size
	}

	return start, end
}

// parentPath returns the path preceding the segment starting at start, such
// as "user.address" for the segment "ci" in "{%user.address.ci".
func parentPath(input string, start int, sep string) string {
	if sep == "" || !strings.HasSuffix(input[:start], sep) {
		return ""
	}

	prefix := strings.TrimSuffix(input[:start], sep)

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if isBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// completion is the segment at the cursor and the member names matching it.
type completion struct {
	matches fuzzy.Matches
	start   int
	end     int
}

// complete computes the completions of the path segment at cursor.
func (s *Session) complete(input string, cursor int) completion {
	sep := s.Syntax.NestingSeparator
	start, end := wordBounds(input, cursor, sep)

	c := completion{start: start, end: end}

	word := input[start:end]
	if word == "" {
		return c
	}

	names, _ := s.members(parentPath(input, start, sep))
	c.matches = fuzzy.Find(word, names)

	return c
}
