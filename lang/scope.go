package lang

import "github.com/ardnew/stencil/json"

// binding associates an iterator name with the current element.
type binding struct {
	name  string
	value *json.Value
}

// scope is the render context: a stack of iterator bindings over a base
// document. Lookups search the bindings innermost first, then the
// document's members.
type scope struct {
	base     *json.Value
	bindings []binding
}

func (s *scope) push(name string, v *json.Value) {
	s.bindings = append(s.bindings, binding{name: name, value: v})
}

func (s *scope) pop() {
	s.bindings[len(s.bindings)-1] = binding{}
	s.bindings = s.bindings[:len(s.bindings)-1]
}

// lookup resolves the root name of a path. The empty name is the base
// document.
func (s *scope) lookup(name string) (*json.Value, bool) {
	if name == "" {
		return s.base, true
	}

	for i := len(s.bindings) - 1; i >= 0; i-- {
		if s.bindings[i].name == name {
			return s.bindings[i].value, true
		}
	}

	return s.base.Field(name)
}

// flatten returns the scope as one object: the base document's members
// followed by the bindings, each replacing any earlier member of the same
// name in place.
func (s *scope) flatten() *json.Value {
	var members []json.Member

	if s.base.Kind() == json.KindObject {
		members = make([]json.Member, 0, s.base.Len()+len(s.bindings))
		members = append(members, s.base.Members()...)
	}

	for _, b := range s.bindings {
		replaced := false

		for i := range members {
			if members[i].Key == b.name {
				members[i].Value = b.value
				replaced = true
			}
		}

		if !replaced {
			members = append(members, json.Pair(b.name, b.value))
		}
	}

	return json.Object(members...)
}

// names returns the names visible to lookups.
func (s *scope) names() []string {
	names := s.base.Keys()

	for _, b := range s.bindings {
		names = append(names, b.name)
	}

	return names
}
