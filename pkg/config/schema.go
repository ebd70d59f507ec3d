package config

import (
	"github.com/arthur-debert/strata/pkg/errors"
)

// Variable declares one selection variable: its kind, its domain for enums,
// whether the user must supply it, and an optional default applied during
// validation when the variable is absent.
type Variable struct {
	Name     string
	Kind     ValueKind
	Domain   []string // enum tags, only for KindEnum
	Required bool
	Default  string // parsed per Kind; empty means no default
}

// HasTag reports whether tag belongs to the variable's enum domain
func (v Variable) HasTag(tag string) bool {
	for _, t := range v.Domain {
		if t == tag {
			return true
		}
	}
	return false
}

// Schema is the ordered list of variable declarations for a layer set
type Schema struct {
	Variables []Variable
}

// Variable looks up a declaration by name
func (s Schema) Variable(name string) (Variable, bool) {
	for _, v := range s.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Check verifies internal consistency of the schema itself: unique names,
// non-empty domains for enums, defaults inside their domain
func (s Schema) Check() error {
	seen := make(map[string]bool, len(s.Variables))
	for _, v := range s.Variables {
		if v.Name == "" {
			return errors.New(errors.ErrSchemaInvalid, "schema variable with empty name")
		}
		if seen[v.Name] {
			return errors.Newf(errors.ErrSchemaInvalid, "duplicate schema variable %q", v.Name)
		}
		seen[v.Name] = true

		if v.Kind == KindEnum && len(v.Domain) == 0 {
			return errors.Newf(errors.ErrSchemaInvalid, "enum variable %q has empty domain", v.Name)
		}
		if v.Default != "" {
			if _, err := parseValue(v, v.Default); err != nil {
				return errors.Wrapf(err, errors.ErrSchemaInvalid, "invalid default for variable %q", v.Name)
			}
		}
	}
	return nil
}
