package cli

import (
	"github.com/arthur-debert/strata/pkg/matrix"
	"github.com/spf13/cobra"
)

func newEnumerateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "enumerate",
		Short: MsgEnumerateShort,
		Long: `Enumerate walks the cartesian product of every variable domain and
prints the configurations that survive the constraint rules. String
variables are pinned to their schema defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(opts)
			if err != nil {
				return err
			}

			configs, err := matrix.Enumerate(env.rules.Schema, env.rules.Rules)
			if err != nil {
				return err
			}

			r, err := opts.renderer()
			if err != nil {
				return err
			}
			return r.RenderConfigs(configs)
		},
	}
}
