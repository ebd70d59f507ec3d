package config

import (
	"strconv"

	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/arthur-debert/strata/pkg/logging"
)

// parseValue converts a raw text value into a typed Value according to the
// variable declaration
func parseValue(v Variable, raw string) (Value, error) {
	switch v.Kind {
	case KindString:
		return StringValue(raw), nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, errors.Newf(errors.ErrInvalidValue,
				"variable %q: %q is not a boolean", v.Name, raw)
		}
		return BoolValue(b), nil
	case KindEnum:
		if !v.HasTag(raw) {
			return Value{}, errors.Newf(errors.ErrInvalidValue,
				"variable %q: %q is not one of %v", v.Name, raw, v.Domain)
		}
		return EnumValue(raw), nil
	default:
		return Value{}, errors.Newf(errors.ErrSchemaInvalid,
			"variable %q has unknown kind %d", v.Name, int(v.Kind))
	}
}

// Validate checks a candidate key/value set against the schema and the
// constraint rules and returns an immutable Config.
//
// Order of operations: parse supplied values, fill schema defaults, apply
// force rules to a fixpoint, then check required variables (minus hidden
// ones) and forbidden combinations. Force rules fill absent variables and
// reject contradictory ones; they never overwrite a user-supplied value
// silently.
func Validate(schema Schema, rules []Rule, candidate map[string]string) (Config, error) {
	logger := logging.GetLogger("config.validate")

	if err := schema.Check(); err != nil {
		return Config{}, err
	}

	values := make(map[string]Value, len(schema.Variables))

	for name, raw := range candidate {
		decl, ok := schema.Variable(name)
		if !ok {
			return Config{}, errors.Newf(errors.ErrInvalidValue,
				"variable %q is not declared in the schema", name)
		}
		v, err := parseValue(decl, raw)
		if err != nil {
			return Config{}, err
		}
		values[name] = v
	}

	// Schema defaults for absent variables
	for _, decl := range schema.Variables {
		if _, ok := values[decl.Name]; ok || decl.Default == "" {
			continue
		}
		v, err := parseValue(decl, decl.Default)
		if err != nil {
			return Config{}, err
		}
		values[decl.Name] = v
	}

	get := func(name string) (Value, bool) {
		v, ok := values[name]
		return v, ok
	}

	// Force rules may cascade (a forced value can satisfy another rule's
	// condition), so apply until nothing changes. The rule count bounds the
	// number of useful passes.
	for pass := 0; pass <= len(rules); pass++ {
		changed := false
		for _, rule := range rules {
			if rule.Force == nil || !rule.When.Matches(get) {
				continue
			}
			decl, ok := schema.Variable(rule.Force.Variable)
			if !ok {
				return Config{}, errors.Newf(errors.ErrSchemaInvalid,
					"rule forces undeclared variable %q", rule.Force.Variable)
			}
			forced, err := parseValue(decl, rule.Force.Value)
			if err != nil {
				return Config{}, err
			}
			current, present := values[rule.Force.Variable]
			if !present {
				logger.Debug().
					Str("variable", rule.Force.Variable).
					Str("value", rule.Force.Value).
					Str("when", rule.When.Variable+"="+rule.When.Equals).
					Msg("Applying forced value")
				values[rule.Force.Variable] = forced
				changed = true
				continue
			}
			if !current.Equal(forced) {
				return Config{}, errors.Newf(errors.ErrConstraintViolation,
					"%s=%s forces %s=%s, got %q",
					rule.When.Variable, rule.When.Equals,
					rule.Force.Variable, rule.Force.Value, current.Text())
			}
		}
		if !changed {
			break
		}
	}

	// Hidden variables stop being required once their condition holds
	hidden := make(map[string]bool)
	for _, rule := range rules {
		if rule.Hide != "" && rule.When.Matches(get) {
			hidden[rule.Hide] = true
		}
	}

	for _, decl := range schema.Variables {
		if !decl.Required || hidden[decl.Name] {
			continue
		}
		if _, ok := values[decl.Name]; !ok {
			return Config{}, errors.Newf(errors.ErrMissingVariable,
				"required variable %q is not set", decl.Name)
		}
	}

	for _, rule := range rules {
		if rule.Forbid == nil || !rule.When.Matches(get) {
			continue
		}
		if v, ok := values[rule.Forbid.Variable]; ok && v.Text() == rule.Forbid.Value {
			return Config{}, errors.Newf(errors.ErrConstraintViolation,
				"%s=%s forbids %s=%s",
				rule.When.Variable, rule.When.Equals,
				rule.Forbid.Variable, rule.Forbid.Value)
		}
	}

	return NewConfig(values), nil
}
