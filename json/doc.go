// Package json implements the JSON document model used as template data.
//
// Unlike encoding/json, documents are parsed into an explicit [Value] tree
// that preserves object member order and duplicate keys, and that keeps
// string contents exactly as written in the source (escape sequences are not
// decoded). Printing a parsed value therefore reproduces its strings byte for
// byte. [Value.Decoded] converts a string to its decoded Go form on demand.
//
//	v, err := json.Parse(`{"name": "John", "tags": ["a", "b"]}`)
//	name, _ := v.Field("name")
//	fmt.Println(name.Text()) // John
//	fmt.Println(v)          // {"name":"John","tags":["a","b"]}
//
// Parsing can be bounded by an [arena.Arena] passed with [WithArena]: every
// value, member, and string is charged against the arena's capacity and the
// parse fails with [arena.ErrOutOfMemory] once it is exhausted.
package json
