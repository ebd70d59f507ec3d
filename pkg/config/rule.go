package config

// Condition guards a constraint rule: the rule applies when the named
// variable has the given text value
type Condition struct {
	Variable string
	Equals   string
}

// Matches reports whether the condition holds for the given lookup
func (c Condition) Matches(get func(string) (Value, bool)) bool {
	v, ok := get(c.Variable)
	if !ok {
		return false
	}
	return v.Text() == c.Equals
}

// Assignment names a variable/value pair used by force and forbid rules
type Assignment struct {
	Variable string
	Value    string
}

// Rule is one cross-variable constraint. Exactly one of Force, Forbid or
// Hide is set:
//
//   - Force: when the condition holds, the named variable must carry the
//     given value; an absent variable is filled in, a different value is a
//     constraint violation.
//   - Forbid: when the condition holds, the named variable/value pair is
//     illegal.
//   - Hide: when the condition holds, the named variable is irrelevant; it
//     stops being required and prompts for it should be suppressed.
//
// Rules are consumed by validation and matrix enumeration only; the
// renderer never sees them.
type Rule struct {
	When   Condition
	Force  *Assignment
	Forbid *Assignment
	Hide   string
}
