package cli

import (
	"github.com/spf13/cobra"
)

func newLayersCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "layers",
		Short: MsgLayersShort,
		Long:  MsgLayersLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(opts)
			if err != nil {
				return err
			}

			r, err := opts.renderer()
			if err != nil {
				return err
			}
			return r.RenderLayers(env.set)
		},
	}
}
