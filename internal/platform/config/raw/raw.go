// Package raw is a logger-free environment reader used while the logger itself is being configured
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a namespaced view over environment variables (e.g., "LOG_")
type Conf struct{ prefix string }

// New returns a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix returns a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) value(k string) (string, bool) {
	v, ok := os.LookupEnv(c.prefix + k)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Get returns the trimmed env var or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v, ok := c.value(key); ok {
		return v
	}
	return def
}

// GetBool accepts 1|true|yes|on as true and anything else as false; def when unset
func (c Conf) GetBool(key string, def bool) bool {
	v, ok := c.value(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// GetInt parses a non-negative integer; def when unset or not a plain number
func (c Conf) GetInt(key string, def int) int {
	v, ok := c.value(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || strings.HasPrefix(v, "+") {
		return def
	}
	return n
}
