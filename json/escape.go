package json

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/ardnew/stencil/pkg"
)

// ErrEscape is returned by [Unquote] for a malformed escape sequence.
var ErrEscape = pkg.NewError("invalid escape sequence")

const hexDigits = "0123456789abcdef"

// Quote escapes s so that it can appear between the quotes of a JSON string.
// Quotes, backslashes, and control characters are escaped; all other text,
// including non-ASCII, is kept as is.
func Quote(s string) string {
	i := strings.IndexFunc(s, needsEscape)
	if i < 0 {
		return s
	}

	var sb strings.Builder

	sb.Grow(len(s) + 8)
	sb.WriteString(s[:i])

	for _, r := range s[i:] {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[r>>4])
				sb.WriteByte(hexDigits[r&0xf])
			} else {
				sb.WriteRune(r)
			}
		}
	}

	return sb.String()
}

func needsEscape(r rune) bool { return r == '"' || r == '\\' || r < 0x20 }

// Unquote decodes the escape sequences in the raw contents of a JSON string.
func Unquote(raw string) (string, error) {
	i := strings.IndexByte(raw, '\\')
	if i < 0 {
		return raw, nil
	}

	var sb strings.Builder

	sb.Grow(len(raw))
	sb.WriteString(raw[:i])

	for i < len(raw) {
		c := raw[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++

			continue
		}

		if i+1 >= len(raw) {
			return "", ErrEscape.WithPosition(pkg.PositionOf(raw, i))
		}

		switch raw[i+1] {
		case '"', '\\', '/':
			sb.WriteByte(raw[i+1])
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			r, n, ok := decodeUnicode(raw[i:])
			if !ok {
				return "", ErrEscape.WithPosition(pkg.PositionOf(raw, i))
			}

			sb.WriteRune(r)
			i += n

			continue
		default:
			return "", ErrEscape.WithPosition(pkg.PositionOf(raw, i))
		}

		i += 2
	}

	return sb.String(), nil
}

// decodeUnicode decodes a \uXXXX escape at the start of s, combining a
// following low surrogate escape if present. It returns the rune and the
// number of bytes consumed.
func decodeUnicode(s string) (rune, int, bool) {
	r1, ok := hex4(s)
	if !ok {
		return 0, 0, false
	}

	if !utf16.IsSurrogate(r1) {
		return r1, 6, true
	}

	if r2, ok := hex4(s[6:]); ok {
		if r := utf16.DecodeRune(r1, r2); r != utf8.RuneError {
			return r, 12, true
		}
	}

	return utf8.RuneError, 6, true
}

// hex4 parses "\uXXXX" at the start of s.
func hex4(s string) (rune, bool) {
	if len(s) < 6 || s[0] != '\\' || s[1] != 'u' {
		return 0, false
	}

	var r rune

	for _, c := range []byte(s[2:6]) {
		var d byte

		switch {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'a' <= c && c <= 'f':
			d = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, false
		}

		r = r<<4 | rune(d)
	}

	return r, true
}
