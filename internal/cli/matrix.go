package cli

import (
	"fmt"

	"github.com/arthur-debert/strata/pkg/matrix"
	"github.com/spf13/cobra"
)

func newMatrixCmd(opts *globalOptions) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: MsgMatrixShort,
		Long: `Matrix composes the layer set once for every legal configuration and
reports each outcome. One configuration's failure never stops the rest;
the command exits non-zero when any configuration fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(opts)
			if err != nil {
				return err
			}

			report, err := matrix.ValidateAll(env.rules.Schema, env.rules.Rules, env.set, workers)
			if err != nil {
				return err
			}

			r, err := opts.renderer()
			if err != nil {
				return err
			}
			if err := r.RenderReport(report); err != nil {
				return err
			}

			if !report.OK() {
				return fmt.Errorf("%d configurations failed", len(report.Failures()))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, MsgFlagWorkers)
	return cmd
}
