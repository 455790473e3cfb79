package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"disasterresponse/internal/platform/config/raw"

	"gopkg.in/yaml.v3"
)

// EnvFile is the variable naming the YAML overlay the binaries load at startup
const EnvFile = "CONFIG_FILE"

// LoadEnvFile installs the overlay named by CONFIG_FILE; unset means no overlay
func LoadEnvFile() error {
	return LoadFile(raw.New().Get(EnvFile, ""))
}

// LoadFile reads a YAML document and installs it as the fallback layer for every Conf.
// Nested maps flatten into upper-case keys joined by "_", so
//
//	web:
//	  addr: 0.0.0.0:3001
//
// answers WEB_ADDR. Scalars and lists are stringified; lists join with ",".
// An empty path clears the overlay.
func LoadFile(path string) error {
	if strings.TrimSpace(path) == "" {
		overlay.Store(nil)
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	flat := make(map[string]string, 16)
	flatten("", doc, flat)
	overlay.Store(&flat)
	return nil
}

// Keys lists the overlay keys in sorted order
func Keys() []string {
	m := overlay.Load()
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(*m))
	for k := range *m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func flatten(prefix string, v any, out map[string]string) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			flatten(join(prefix, k), child, out)
		}
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, fmt.Sprint(e))
		}
		out[prefix] = strings.Join(parts, ",")
	case nil:
		out[prefix] = ""
	default:
		out[prefix] = fmt.Sprint(t)
	}
}

func join(prefix, k string) string {
	k = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(k), "-", "_"))
	if prefix == "" {
		return k
	}
	return prefix + "_" + k
}
