package json

import (
	"context"

	"github.com/goccy/go-yaml"
)

// ParseYAML parses a YAML document into a Value.
// Mapping order is preserved; non-string mapping keys are formatted as text.
func ParseYAML(data []byte) (*Value, error) {
	var doc any

	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, ErrParse.Wrap(err)
	}

	return FromNative(doc)
}

// MarshalYAML encodes v as a YAML document, preserving member order and
// decoding string escapes.
func MarshalYAML(ctx context.Context, v *Value, opts ...yaml.EncodeOption) ([]byte, error) {
	return yaml.MarshalContext(ctx, v.ordered(), opts...)
}
