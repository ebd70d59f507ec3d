// Package cli builds strata's command tree. Commands stay thin: they
// parse flags, load the rule set and layers, call into the engine
// packages and hand results to the output renderer.
package cli

import (
	"embed"
	"fmt"
	"os"

	"github.com/arthur-debert/strata/internal/version"
	"github.com/arthur-debert/strata/pkg/cobrax/topics"
	"github.com/arthur-debert/strata/pkg/logging"
	"github.com/arthur-debert/strata/pkg/output"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicsFS embed.FS

// globalOptions carries the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	dryRun     bool
	format     string
	layersRoot string
	layerNames []string
}

func (g *globalOptions) renderer() (*output.Renderer, error) {
	format, err := output.ParseFormat(g.format)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(os.Stdout, format), nil
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "strata",
		Short:   MsgRootShort,
		Long: `strata composes project scaffolds from layered template trees.
Layers merge by priority, file paths and bodies are rendered against a
validated configuration, and the compatibility matrix of a layer set can
be enumerated and checked in one pass.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&opts.layersRoot, "layers-root", "", MsgFlagLayersRoot)
	rootCmd.PersistentFlags().StringArrayVar(&opts.layerNames, "layer", nil, MsgFlagLayer)

	// Disable automatic help command (topics installs its own)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(newComposeCmd(opts))
	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newEnumerateCmd(opts))
	rootCmd.AddCommand(newMatrixCmd(opts))
	rootCmd.AddCommand(newLayersCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	topicOpts := topics.Options{
		Extensions: []string{".txt", ".md"},
		Renderer:   topics.NewGlamourRenderer(),
	}
	if err := topics.Initialize(rootCmd, topicsFS, "topics", topicOpts); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize help topics")
	}

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("strata version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
