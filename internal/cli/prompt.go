package cli

import (
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/arthur-debert/strata/pkg/config"
)

// fillMissing prompts for variables absent from the candidate map. Hidden
// variables never prompt, forced values fill in silently, and noInput
// skips prompting entirely so validation reports what is missing.
func fillMissing(schema config.Schema, rules []config.Rule, candidate map[string]string, noInput bool) error {
	applyForced(rules, candidate)
	hidden := hiddenVariables(rules, candidate)

	for _, decl := range schema.Variables {
		if _, ok := candidate[decl.Name]; ok {
			continue
		}
		if hidden[decl.Name] {
			continue
		}
		if noInput {
			// Validation fills defaults and reports missing required
			// variables.
			continue
		}

		answer, err := ask(decl)
		if err != nil {
			return err
		}
		candidate[decl.Name] = answer

		// A fresh answer can trigger force and hide rules for later
		// variables.
		applyForced(rules, candidate)
		hidden = hiddenVariables(rules, candidate)
	}
	return nil
}

func ask(decl config.Variable) (string, error) {
	switch decl.Kind {
	case config.KindEnum:
		var answer string
		prompt := &survey.Select{
			Message: decl.Name,
			Options: decl.Domain,
		}
		if decl.Default != "" {
			prompt.Default = decl.Default
		}
		if err := survey.AskOne(prompt, &answer); err != nil {
			return "", err
		}
		return answer, nil

	case config.KindBool:
		def, _ := strconv.ParseBool(decl.Default)
		var answer bool
		prompt := &survey.Confirm{Message: decl.Name, Default: def}
		if err := survey.AskOne(prompt, &answer); err != nil {
			return "", err
		}
		return strconv.FormatBool(answer), nil

	default:
		var answer string
		prompt := &survey.Input{Message: decl.Name, Default: decl.Default}
		if err := survey.AskOne(prompt, &answer); err != nil {
			return "", err
		}
		return answer, nil
	}
}

// conditionHolds evaluates a rule condition against raw candidate text.
// Boolean spellings normalize so "1" and "true" agree.
func conditionHolds(cond config.Condition, candidate map[string]string) bool {
	raw, ok := candidate[cond.Variable]
	if !ok {
		return false
	}
	if raw == cond.Equals {
		return true
	}
	a, errA := strconv.ParseBool(raw)
	b, errB := strconv.ParseBool(cond.Equals)
	return errA == nil && errB == nil && a == b
}

// applyForced fills absent variables from force rules to a fixpoint.
// Contradictions are validation's job, not prompting's.
func applyForced(rules []config.Rule, candidate map[string]string) {
	for pass := 0; pass <= len(rules); pass++ {
		changed := false
		for _, rule := range rules {
			if rule.Force == nil || !conditionHolds(rule.When, candidate) {
				continue
			}
			if _, present := candidate[rule.Force.Variable]; !present {
				candidate[rule.Force.Variable] = rule.Force.Value
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func hiddenVariables(rules []config.Rule, candidate map[string]string) map[string]bool {
	hidden := make(map[string]bool)
	for _, rule := range rules {
		if rule.Hide != "" && conditionHolds(rule.When, candidate) {
			hidden[rule.Hide] = true
		}
	}
	return hidden
}
