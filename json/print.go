package json

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Print returns the compact JSON text of v.
func Print(v *Value) string { return string(Append(nil, v)) }

// String implements fmt.Stringer using [Print].
func (v *Value) String() string { return Print(v) }

// Write writes the compact JSON text of v to w.
func Write(w io.Writer, v *Value) error {
	_, err := w.Write(Append(nil, v))

	return err
}

// Append appends the compact JSON text of v to dst.
// Strings and keys are written exactly as stored.
func Append(dst []byte, v *Value) []byte {
	switch v.Kind() {
	case KindBool:
		return strconv.AppendBool(dst, v.truth)

	case KindNumber:
		return appendNumber(dst, v.num)

	case KindString:
		dst = append(dst, '"')
		dst = append(dst, v.str...)

		return append(dst, '"')

	case KindArray:
		dst = append(dst, '[')

		for i, item := range v.items {
			if i > 0 {
				dst = append(dst, ',')
			}

			dst = Append(dst, item)
		}

		return append(dst, ']')

	case KindObject:
		dst = append(dst, '{')

		for i, m := range v.members {
			if i > 0 {
				dst = append(dst, ',')
			}

			dst = append(dst, '"')
			dst = append(dst, m.Key...)
			dst = append(dst, '"', ':')
			dst = Append(dst, m.Value)
		}

		return append(dst, '}')

	default:
		return append(dst, "null"...)
	}
}

// Indent returns the JSON text of v with nested values placed on their own
// lines, each level indented by indent.
func Indent(v *Value, indent string) string {
	var sb strings.Builder

	writeIndent(&sb, v, indent, 0)

	return sb.String()
}

func writeIndent(sb *strings.Builder, v *Value, indent string, depth int) {
	newline := func(d int) {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(indent, d))
	}

	switch {
	case v.Kind() == KindArray && len(v.items) > 0:
		sb.WriteByte('[')

		for i, item := range v.items {
			if i > 0 {
				sb.WriteByte(',')
			}

			newline(depth + 1)
			writeIndent(sb, item, indent, depth+1)
		}

		newline(depth)
		sb.WriteByte(']')

	case v.Kind() == KindObject && len(v.members) > 0:
		sb.WriteByte('{')

		for i, m := range v.members {
			if i > 0 {
				sb.WriteByte(',')
			}

			newline(depth + 1)
			sb.WriteByte('"')
			sb.WriteString(m.Key)
			sb.WriteString(`": `)
			writeIndent(sb, m.Value, indent, depth+1)
		}

		newline(depth)
		sb.WriteByte('}')

	default:
		sb.Write(Append(nil, v))
	}
}

// Text returns the text substituted for v in rendered output:
// strings are written raw, numbers in general format, booleans as true or
// false, arrays and objects as compact JSON, and null (or an absent value)
// as the empty string.
func (v *Value) Text() string {
	switch v.Kind() {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	default:
		return Print(v)
	}
}

// FormatNumber formats f the way numbers are printed: the shortest decimal
// that parses back to f, using exponent notation only below 1e-6 or at or
// above 1e21 in magnitude.
func FormatNumber(f float64) string { return string(appendNumber(nil, f)) }

func appendNumber(dst []byte, f float64) []byte {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return append(dst, "null"...)
	case f == math.Trunc(f) && math.Abs(f) < 1e21,
		math.Abs(f) >= 1e-6 && math.Abs(f) < 1e21:
		return strconv.AppendFloat(dst, f, 'f', -1, 64)
	default:
		return strconv.AppendFloat(dst, f, 'g', -1, 64)
	}
}
