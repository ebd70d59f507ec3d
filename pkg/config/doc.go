// Package config defines the typed configuration model that drives template
// composition: a closed Value union (string, bool, enum tag), the variable
// Schema with its domains, cross-variable constraint Rules, and the
// validation step that turns raw key/value input into an immutable Config.
//
// Validation is pure: all defaulting and constraint application happens
// here, never inside the renderer. A Config that left Validate successfully
// is guaranteed to satisfy the schema and every constraint rule.
package config
