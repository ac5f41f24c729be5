package json

import (
	"slices"
	"unsafe"
)

// Kind identifies the type of a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lowercase JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON value.
//
// A nil *Value is treated as an absent value: it reports [KindNull], has no
// fields or items, and prints as null.
type Value struct {
	str     string
	items   []*Value
	members []Member
	num     float64
	kind    Kind
	truth   bool
}

// Member is a key/value pair of a JSON object.
// Key holds the raw (undecoded) key text.
type Member struct {
	Key   string
	Value *Value
}

// Memory charged against an arena for each node of a parsed tree.
var (
	valueSize  = int(unsafe.Sizeof(Value{}))
	memberSize = int(unsafe.Sizeof(Member{}))
)

// Null returns a JSON null.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) *Value { return &Value{kind: KindBool, truth: b} }

// Number returns a JSON number.
func Number(f float64) *Value { return &Value{kind: KindNumber, num: f} }

// String returns a JSON string whose raw contents are s.
// s must already be escaped as it would appear between quotes; use [Text] to
// construct a string from arbitrary text.
func String(s string) *Value { return &Value{kind: KindString, str: s} }

// Text returns a JSON string holding s, escaping it as needed.
func Text(s string) *Value { return String(Quote(s)) }

// Array returns a JSON array of items.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, items: items}
}

// Object returns a JSON object with the given members in order.
func Object(members ...Member) *Value {
	return &Value{kind: KindObject, members: members}
}

// Pair returns an object member with a key escaped from the given text.
func Pair(key string, v *Value) Member {
	return Member{Key: Quote(key), Value: v}
}

// Kind returns the kind of v.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}

	return v.kind
}

// IsNull reports whether v is absent or a JSON null.
func (v *Value) IsNull() bool { return v.Kind() == KindNull }

// Bool returns the boolean value of v, or false if v is not a boolean.
func (v *Value) Bool() bool { return v != nil && v.kind == KindBool && v.truth }

// Number returns the numeric value of v, or 0 if v is not a number.
func (v *Value) Number() float64 {
	if v == nil || v.kind != KindNumber {
		return 0
	}

	return v.num
}

// Str returns the raw contents of a string value, or "" otherwise.
func (v *Value) Str() string {
	if v == nil || v.kind != KindString {
		return ""
	}

	return v.str
}

// Decoded returns the contents of a string value with escape sequences
// decoded. Malformed escapes are kept verbatim.
func (v *Value) Decoded() string {
	s := v.Str()

	u, err := Unquote(s)
	if err != nil {
		return s
	}

	return u
}

// Items returns the elements of an array value.
func (v *Value) Items() []*Value {
	if v == nil || v.kind != KindArray {
		return nil
	}

	return v.items
}

// Members returns the members of an object value in source order.
func (v *Value) Members() []Member {
	if v == nil || v.kind != KindObject {
		return nil
	}

	return v.members
}

// Len returns the number of items of an array, members of an object, or
// bytes of a raw string. It is 0 for all other kinds.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	case KindString:
		return len(v.str)
	default:
		return 0
	}
}

// Field returns the value of the first member of an object whose raw key
// equals key. It reports false if v is not an object or has no such member.
func (v *Value) Field(key string) (*Value, bool) {
	for _, m := range v.Members() {
		if m.Key == key {
			return m.Value, true
		}
	}

	return nil, false
}

// Index returns the i'th element of an array value.
func (v *Value) Index(i int) (*Value, bool) {
	items := v.Items()
	if i < 0 || i >= len(items) {
		return nil, false
	}

	return items[i], true
}

// Keys returns the raw keys of an object value in source order.
func (v *Value) Keys() []string {
	members := v.Members()
	if len(members) == 0 {
		return nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = m.Key
	}

	return keys
}

// Equal reports whether a and b are structurally equal.
// Object members are compared in order; an absent value equals null.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.truth == b.truth
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	case KindArray:
		return slices.EqualFunc(a.items, b.items, Equal)
	case KindObject:
		return slices.EqualFunc(a.members, b.members, func(x, y Member) bool {
			return x.Key == y.Key && Equal(x.Value, y.Value)
		})
	default:
		return false
	}
}
