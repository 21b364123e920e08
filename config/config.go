// Package config reads JSON5 configuration files and exposes them to kong as
// a flag resolver.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/alecthomas/kong"
	"github.com/titanous/json5"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "OLXGPU_CONFIG"

// DefaultFile is the config file used when EnvVar is unset.
const DefaultFile = "olxgpu.json5"

// Path returns the config file path from the environment or DefaultFile.
func Path() string {
	if p := os.Getenv(EnvVar); p != "" {
		return p
	}
	return DefaultFile
}

// LocalPath returns the override file that sits next to name:
// olxgpu.json5 becomes olxgpu.local.json5.
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

// Read decodes name and its local override, the override taking precedence
// for every field it sets. Returns os.ErrNotExist if neither file exists.
func Read[T any](name string) (T, error) {
	var out T
	found := false

	data, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(data) > 0 {
		if err := json5.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("%s: %w", name, err)
		}
		found = true
	}

	local := LocalPath(name)
	data, err = os.ReadFile(local)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(data) > 0 {
		var override T
		if err := json5.Unmarshal(data, &override); err != nil {
			return out, fmt.Errorf("%s: %w", local, err)
		}
		if !found {
			return override, nil
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// Resolver returns a kong resolver that looks flags up in values. Keys may
// use the flag name with dashes or underscores.
func Resolver(values map[string]any) kong.Resolver {
	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, key := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
			if v, ok := values[key]; ok {
				return flagValue(v)
			}
		}
		return nil, nil
	})
}

// Load reads the config at name into a kong resolver. Missing files yield a
// resolver that resolves nothing.
func Load(name string) (kong.Resolver, error) {
	values, err := Read[map[string]any](name)
	if os.IsNotExist(err) {
		return Resolver(nil), nil
	} else if err != nil {
		return nil, err
	}
	return Resolver(values), nil
}

// flagValue converts a decoded JSON value to the string form kong parses.
func flagValue(v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return nil, fmt.Errorf("unsupported config value %v (%T)", v, v)
	}
}
