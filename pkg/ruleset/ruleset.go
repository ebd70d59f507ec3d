// Package ruleset loads the variable schema and constraint rules that
// define a layer set's configuration space. The built-in starter domain is
// embedded; a strata.toml next to the layers overrides it.
package ruleset

import (
	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/errors"
)

// RuleSet pairs a variable schema with its constraint rules
type RuleSet struct {
	Schema config.Schema
	Rules  []config.Rule
}

// raw mirror of the TOML document
type rawRuleSet struct {
	Variables []rawVariable `koanf:"variables"`
	Rules     []rawRule     `koanf:"rules"`
}

type rawVariable struct {
	Name     string   `koanf:"name"`
	Kind     string   `koanf:"kind"`
	Domain   []string `koanf:"domain"`
	Required bool     `koanf:"required"`
	Default  string   `koanf:"default"`
}

type rawCondition struct {
	Variable string `koanf:"variable"`
	Equals   string `koanf:"equals"`
}

type rawAssignment struct {
	Variable string `koanf:"variable"`
	Value    string `koanf:"value"`
}

type rawRule struct {
	When   rawCondition   `koanf:"when"`
	Force  *rawAssignment `koanf:"force"`
	Forbid *rawAssignment `koanf:"forbid"`
	Hide   string         `koanf:"hide"`
}

func (r rawRuleSet) build() (RuleSet, error) {
	out := RuleSet{}

	for _, v := range r.Variables {
		kind, err := parseKind(v.Kind)
		if err != nil {
			return RuleSet{}, errors.Wrapf(err, errors.ErrRuleSetParse, "variable %q", v.Name)
		}
		out.Schema.Variables = append(out.Schema.Variables, config.Variable{
			Name:     v.Name,
			Kind:     kind,
			Domain:   v.Domain,
			Required: v.Required,
			Default:  v.Default,
		})
	}

	for i, r := range r.Rules {
		if r.When.Variable == "" {
			return RuleSet{}, errors.Newf(errors.ErrRuleSetParse, "rule %d has no when condition", i)
		}
		actions := 0
		rule := config.Rule{
			When: config.Condition{Variable: r.When.Variable, Equals: r.When.Equals},
			Hide: r.Hide,
		}
		if r.Force != nil {
			rule.Force = &config.Assignment{Variable: r.Force.Variable, Value: r.Force.Value}
			actions++
		}
		if r.Forbid != nil {
			rule.Forbid = &config.Assignment{Variable: r.Forbid.Variable, Value: r.Forbid.Value}
			actions++
		}
		if r.Hide != "" {
			actions++
		}
		if actions != 1 {
			return RuleSet{}, errors.Newf(errors.ErrRuleSetParse,
				"rule %d must have exactly one of force, forbid or hide", i)
		}
		out.Rules = append(out.Rules, rule)
	}

	if err := out.Schema.Check(); err != nil {
		return RuleSet{}, err
	}
	return out, nil
}

func parseKind(s string) (config.ValueKind, error) {
	switch s {
	case "string":
		return config.KindString, nil
	case "bool":
		return config.KindBool, nil
	case "enum":
		return config.KindEnum, nil
	default:
		return 0, errors.Newf(errors.ErrRuleSetParse, "unknown variable kind %q", s)
	}
}
