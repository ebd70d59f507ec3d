package cli

import (
	"github.com/arthur-debert/strata/pkg/compose"
	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/logging"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var setFlags []string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: MsgValidateShort,
		Long: `Validate checks one configuration against the schema and constraint
rules, then composes the full tree in memory. Nothing is written; a clean
exit means this configuration would scaffold successfully.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.validate")

			env, err := loadEnvironment(opts)
			if err != nil {
				return err
			}

			candidate, err := parseSetFlags(setFlags)
			if err != nil {
				return err
			}

			cfg, err := config.Validate(env.rules.Schema, env.rules.Rules, candidate)
			if err != nil {
				return err
			}

			tree, err := compose.Compose(cfg, env.set)
			if err != nil {
				return err
			}

			logger.Info().
				Str("configuration", cfg.Key()).
				Int("files", len(tree.Files)).
				Msg("Configuration validated")

			r, err := opts.renderer()
			if err != nil {
				return err
			}
			return r.RenderTree(tree, "")
		},
	}

	cmd.Flags().StringArrayVar(&setFlags, "set", nil, MsgFlagSet)
	return cmd
}
