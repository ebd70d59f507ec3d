package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/strata/pkg/layer"
	"github.com/arthur-debert/strata/pkg/paths"
	"github.com/arthur-debert/strata/pkg/ruleset"
)

// environment bundles what every engine command needs: the resolved
// paths, the rule set and the loaded layer set
type environment struct {
	paths paths.Paths
	rules ruleset.RuleSet
	set   layer.Set
}

// loadEnvironment resolves the layers root, loads the rule set (the
// strata.toml next to the layers when present, the embedded defaults
// otherwise) and the requested layers
func loadEnvironment(opts *globalOptions) (*environment, error) {
	p, err := paths.New(opts.layersRoot)
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	if p.UsedFallback() {
		fmt.Fprintf(os.Stderr, "Warning: no layers directory found, using %s\n", p.LayersRoot())
	}

	var rules ruleset.RuleSet
	if _, statErr := os.Stat(p.RuleSetPath()); statErr == nil {
		rules, err = ruleset.Load(p.RuleSetPath())
	} else {
		rules, err = ruleset.Default()
	}
	if err != nil {
		return nil, err
	}

	set, err := layer.LoadRoot(p.LayersRoot(), opts.layerNames...)
	if err != nil {
		return nil, err
	}

	return &environment{paths: p, rules: rules, set: set}, nil
}

// parseSetFlags turns repeated name=value flags into a candidate map
func parseSetFlags(pairs []string) (map[string]string, error) {
	candidate := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf(MsgErrBadSet, pair)
		}
		candidate[name] = value
	}
	return candidate, nil
}
