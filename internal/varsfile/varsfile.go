// Package varsfile reads template variables from JSON, JSONC or YAML files and
// from key=value pairs given on the command line.
package varsfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Load reads path and decodes it into a variable map. The format follows the
// extension (.json, .jsonc, .yaml, .yml); other extensions are tried as JSON
// first and YAML second.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("varsfile: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data, using source for the format hint and error messages.
func Parse(data []byte, source string) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]any{}, nil
	}

	vars := map[string]any{}
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &vars); err != nil {
			return nil, fmt.Errorf("varsfile: parse %s: %w", source, err)
		}
		return vars, nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &vars); err != nil {
			return nil, fmt.Errorf("varsfile: parse %s: %w", source, err)
		}
		return vars, nil
	}

	if err := json.Unmarshal(jsonc.ToJSON(data), &vars); err == nil {
		return vars, nil
	}
	vars = map[string]any{}
	if err := yaml.Unmarshal(data, &vars); err == nil {
		return vars, nil
	}
	return nil, fmt.Errorf("varsfile: parse %s: invalid JSON or YAML", source)
}

// ParsePairs turns key=value strings into a variable map. Values stay strings.
func ParsePairs(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("varsfile: invalid pair %q, expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}

// Merge copies every map into a new one, later maps winning.
func Merge(maps ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, m := range maps {
		for key, value := range m {
			out[key] = value
		}
	}
	return out
}
