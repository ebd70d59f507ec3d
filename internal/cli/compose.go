package cli

import (
	"fmt"

	"github.com/arthur-debert/strata/pkg/compose"
	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/logging"
	"github.com/arthur-debert/strata/pkg/writer"
	"github.com/spf13/cobra"
)

func newComposeCmd(opts *globalOptions) *cobra.Command {
	var (
		setFlags []string
		outDir   string
		zipPath  string
		noInput  bool
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: MsgComposeShort,
		Long: `Compose merges the layer set, validates the configuration, renders
every path and file body, and writes the resulting project tree.

Variables come from repeated --set flags; anything required and still
missing is prompted for interactively unless --no-input is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.compose")

			if outDir == "" && zipPath == "" && !opts.dryRun {
				return fmt.Errorf(MsgErrNoOutput)
			}

			env, err := loadEnvironment(opts)
			if err != nil {
				return err
			}

			candidate, err := parseSetFlags(setFlags)
			if err != nil {
				return err
			}
			if err := fillMissing(env.rules.Schema, env.rules.Rules, candidate, noInput); err != nil {
				return err
			}

			cfg, err := config.Validate(env.rules.Schema, env.rules.Rules, candidate)
			if err != nil {
				return err
			}

			logger.Info().
				Str("configuration", cfg.Key()).
				Int("layers", len(env.set)).
				Msg("Composing project")

			tree, err := compose.Compose(cfg, env.set)
			if err != nil {
				return err
			}

			w := writer.New(opts.dryRun)
			dest := outDir
			switch {
			case zipPath != "":
				if err := w.WriteArchive(tree, zipPath); err != nil {
					return err
				}
				dest = zipPath
			case outDir != "":
				if err := w.Write(tree, outDir); err != nil {
					return err
				}
			}

			r, err := opts.renderer()
			if err != nil {
				return err
			}
			return r.RenderTree(tree, dest)
		},
	}

	cmd.Flags().StringArrayVar(&setFlags, "set", nil, MsgFlagSet)
	cmd.Flags().StringVarP(&outDir, "output", "o", "", MsgFlagOutput)
	cmd.Flags().StringVar(&zipPath, "zip", "", MsgFlagZip)
	cmd.Flags().BoolVar(&noInput, "no-input", false, MsgFlagNoInput)

	return cmd
}
