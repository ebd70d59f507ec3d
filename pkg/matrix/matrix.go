// Package matrix enumerates the compatibility matrix: every legal
// configuration a schema and rule set admit, and the batch validation that
// composes the layer set once per legal configuration.
package matrix

import (
	"sort"

	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/arthur-debert/strata/pkg/logging"
)

// Enumerate computes the Cartesian product of all variable domains and
// keeps the combinations that validate against the constraint rules. Each
// legal configuration appears exactly once, in deterministic (sorted key)
// order.
//
// Enum variables span their domain and booleans span {false, true}. String
// variables have no finite domain; they are pinned to their schema default
// (or the empty string) for enumeration purposes.
func Enumerate(schema config.Schema, rules []config.Rule) ([]config.Config, error) {
	logger := logging.GetLogger("matrix.enumerate")

	if err := schema.Check(); err != nil {
		return nil, err
	}

	domains := make([][]string, len(schema.Variables))
	for i, v := range schema.Variables {
		switch v.Kind {
		case config.KindEnum:
			domains[i] = v.Domain
		case config.KindBool:
			domains[i] = []string{"false", "true"}
		case config.KindString:
			domains[i] = []string{v.Default}
		}
	}

	var (
		out  []config.Config
		seen = make(map[string]bool)
	)

	combination := make(map[string]string, len(schema.Variables))
	var walk func(i int)
	var walkErr error
	walk = func(i int) {
		if walkErr != nil {
			return
		}
		if i == len(schema.Variables) {
			cfg, err := config.Validate(schema, rules, cloneCombination(combination))
			if err != nil {
				// Constraint and domain rejections prune the combination;
				// anything else is a broken schema or rule set.
				switch errors.GetErrorCode(err) {
				case errors.ErrConstraintViolation, errors.ErrInvalidValue, errors.ErrMissingVariable:
					return
				default:
					walkErr = err
					return
				}
			}
			if key := cfg.Key(); !seen[key] {
				seen[key] = true
				out = append(out, cfg)
			}
			return
		}

		name := schema.Variables[i].Name
		for _, value := range domains[i] {
			combination[name] = value
			walk(i + 1)
		}
		delete(combination, name)
	}
	walk(0)
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })

	logger.Debug().
		Int("legal", len(out)).
		Int("variables", len(schema.Variables)).
		Msg("Matrix enumerated")

	return out, nil
}

func cloneCombination(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
