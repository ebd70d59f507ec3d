package ruleset

import (
	_ "embed"
	stderrors "errors"
	"os"

	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/arthur-debert/strata/pkg/logging"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileName is the rule set file looked up next to a layer collection
const FileName = "strata.toml"

//go:embed embedded/starter.toml
var starterRuleSet []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Default returns the embedded starter rule set
func Default() (RuleSet, error) {
	return load("")
}

// Load reads a rule set file over the embedded defaults. A file that
// defines variables or rules replaces those sections wholly; there is no
// per-entry merging.
func Load(path string) (RuleSet, error) {
	if _, err := os.Stat(path); err != nil {
		return RuleSet{}, errors.Wrapf(err, errors.ErrRuleSetLoad, "rule set %q", path)
	}
	return load(path)
}

func load(path string) (RuleSet, error) {
	logger := logging.GetLogger("ruleset")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: starterRuleSet}, toml.Parser()); err != nil {
		return RuleSet{}, errors.Wrap(err, errors.ErrRuleSetLoad, "embedded starter rule set")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return RuleSet{}, errors.Wrapf(err, errors.ErrRuleSetLoad, "rule set %q", path)
		}
	}

	var raw rawRuleSet
	if err := k.Unmarshal("", &raw); err != nil {
		return RuleSet{}, errors.Wrap(err, errors.ErrRuleSetParse, "decoding rule set")
	}

	rs, err := raw.build()
	if err != nil {
		return RuleSet{}, err
	}

	logger.Debug().
		Str("path", path).
		Int("variables", len(rs.Schema.Variables)).
		Int("rules", len(rs.Rules)).
		Msg("Rule set loaded")

	return rs, nil
}
