package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gramgen.dev/pkg/gramgen/internal/domain"
	m "gramgen.dev/pkg/gramgen/internal/model"
)

// deriveCmd represents the derive command.
var deriveCmd = newDeriveCmd()

func newDeriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive <grammar file>",
		Short: "Derive one string and show every step",
		Long: `Run a single leftmost derivation from the start symbol and print the
production applied and the sentential form at every step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxDepth := viper.GetInt(maxDepthConfigKey)
			if cmd.Flags().Changed(maxDepthFlagName) {
				maxDepth, _ = cmd.Flags().GetInt(maxDepthFlagName)
			}

			seed := viper.GetUint64(seedConfigKey)
			if cmd.Flags().Changed(seedFlagName) {
				seed, _ = cmd.Flags().GetUint64(seedFlagName)
			}

			return workflow.Derive(cmd.Context(), domain.DeriveArgs{
				Path:     m.Path(args[0]),
				MaxDepth: maxDepth,
				Seed:     resolveSeed(seed),
			})
		},
	}

	// Shares config keys with generate, so the flags are read directly
	// instead of being bound a second time.
	cmd.Flags().IntP(maxDepthFlagName, "d", defaultMaxDepth, "maximum expansions")
	cmd.Flags().Uint64P(seedFlagName, "s", defaultSeed, "random seed (0 picks one from the clock)")

	return cmd
}

func init() {
	rootCmd.AddCommand(deriveCmd)
}
