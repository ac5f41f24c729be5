package cmd

import (
	"path/filepath"
	"strings"

	"github.com/ardnew/stencil/arena"
	"github.com/ardnew/stencil/json"
)

// readData reads the document at path. Files named *.yaml or *.yml are
// decoded as YAML; all others, including stdin, as JSON. An empty path
// yields an empty object.
func readData(path string, a *arena.Arena) (*json.Value, error) {
	if path == "" {
		return json.Object(), nil
	}

	data, err := readInput(path)
	if err != nil {
		return nil, err
	}

	if isYAML(path) {
		return json.ParseYAML(data)
	}

	var opts []json.Option
	if a != nil {
		opts = append(opts, json.WithArena(a))
	}

	return json.Parse(string(data), opts...)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
