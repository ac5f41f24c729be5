package json

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/stencil/pkg"
)

// ErrUnsupportedType is returned by [FromNative] for Go values that have no
// JSON representation.
var ErrUnsupportedType = pkg.NewError("unsupported type")

// Native converts v to plain Go values: nil, bool, float64, string (decoded),
// []any, and map[string]any. Duplicate object keys keep their first value.
func (v *Value) Native() any {
	switch v.Kind() {
	case KindBool:
		return v.truth
	case KindNumber:
		return v.num
	case KindString:
		return v.Decoded()
	case KindArray:
		items := make([]any, len(v.items))
		for i, item := range v.items {
			items[i] = item.Native()
		}

		return items
	case KindObject:
		m := make(map[string]any, len(v.members))
		for _, mem := range v.members {
			key := String(mem.Key).Decoded()
			if _, dup := m[key]; !dup {
				m[key] = mem.Value.Native()
			}
		}

		return m
	default:
		return nil
	}
}

// FromNative converts a Go value into a Value.
//
// Supported inputs are nil, *Value, booleans, integer and floating point
// numbers, strings, slices and arrays, maps with string keys (members sorted
// by key), and ordered [yaml.MapSlice] mappings.
func FromNative(x any) (*Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case *Value:
		if t == nil {
			return Null(), nil
		}

		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return Text(t), nil
	case float64:
		return Number(t), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case []any:
		return fromSlice(len(t), func(i int) any { return t[i] })
	case map[string]any:
		return fromMap(t)
	case yaml.MapSlice:
		return fromMapSlice(t)
	case fmt.Stringer:
		return Text(t.String()), nil
	}

	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) (*Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}

		return FromNative(rv.Elem().Interface())

	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.String:
		return Text(rv.String()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint())), nil

	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil

	case reflect.Slice, reflect.Array:
		return fromSlice(rv.Len(), func(i int) any { return rv.Index(i).Interface() })

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}

		m := make(map[string]any, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			m[it.Key().String()] = it.Value().Interface()
		}

		return fromMap(m)
	}

	return nil, ErrUnsupportedType.With(slog.String("type", rv.Type().String()))
}

func fromSlice(n int, at func(int) any) (*Value, error) {
	items := make([]*Value, n)

	for i := range n {
		item, err := FromNative(at(i))
		if err != nil {
			return nil, err
		}

		items[i] = item
	}

	return Array(items...), nil
}

func fromMap(m map[string]any) (*Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	members := make([]Member, len(keys))

	for i, k := range keys {
		v, err := FromNative(m[k])
		if err != nil {
			return nil, err
		}

		members[i] = Pair(k, v)
	}

	return Object(members...), nil
}

func fromMapSlice(ms yaml.MapSlice) (*Value, error) {
	members := make([]Member, len(ms))

	for i, item := range ms {
		v, err := FromNative(item.Value)
		if err != nil {
			return nil, err
		}

		members[i] = Pair(fmt.Sprint(item.Key), v)
	}

	return Object(members...), nil
}

// ordered converts v to Go values that keep object member order when
// marshaled: objects become [yaml.MapSlice] and integral numbers int64.
func (v *Value) ordered() any {
	switch v.Kind() {
	case KindBool:
		return v.truth
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1<<53 {
			return int64(v.num)
		}

		return v.num
	case KindString:
		return v.Decoded()
	case KindArray:
		items := make([]any, len(v.items))
		for i, item := range v.items {
			items[i] = item.ordered()
		}

		return items
	case KindObject:
		ms := make(yaml.MapSlice, len(v.members))
		for i, m := range v.members {
			ms[i] = yaml.MapItem{Key: String(m.Key).Decoded(), Value: m.Value.ordered()}
		}

		return ms
	default:
		return nil
	}
}
