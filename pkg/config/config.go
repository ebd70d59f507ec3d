package config

import (
	"sort"
	"strings"
)

// Config is the validated, immutable set of selection variables. It is
// safe for concurrent readers; there is no way to mutate it after
// construction.
type Config struct {
	values map[string]Value
}

// NewConfig builds a Config from already-typed values. Callers outside
// tests normally go through Validate instead.
func NewConfig(values map[string]Value) Config {
	copied := make(map[string]Value, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Config{values: copied}
}

// Get returns the value for a variable and whether it exists
func (c Config) Get(name string) (Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Has reports whether the variable is set
func (c Config) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Names returns all variable names in sorted order
func (c Config) Names() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of variables
func (c Config) Len() int {
	return len(c.values)
}

// Key returns a canonical identity string ("a=1 b=two ..."), used to key
// matrix reports and to make failures reproducible
func (c Config) Key() string {
	parts := make([]string, 0, len(c.values))
	for _, name := range c.Names() {
		parts = append(parts, name+"="+c.values[name].Text())
	}
	return strings.Join(parts, " ")
}

// String implements fmt.Stringer using the canonical key
func (c Config) String() string {
	return c.Key()
}
