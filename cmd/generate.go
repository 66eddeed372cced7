package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"fortio.org/safecast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gramgen.dev/pkg/gramgen/internal/adapter"
	"gramgen.dev/pkg/gramgen/internal/domain"
	m "gramgen.dev/pkg/gramgen/internal/model"
)

var (
	runParallelFlag int
	validFlag       int
	invalidFlag     int
	extremeFlag     bool
	maxDepthFlag    int
	seedFlag        uint64
	identifierFlag  string
	formatsFlag     []string
	diffFlag        bool
)

// generateCmd represents the generate command.
var generateCmd = newGenerateCmd()

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [grammar files...]",
		Short: "Generate valid, invalid and extreme test strings",
		Long:  generateLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(viper.GetStringSlice(formatsConfigKey))
			if err != nil {
				return err
			}

			seed := resolveSeed(viper.GetUint64(seedConfigKey))

			return workflow.Generate(cmd.Context(), domain.GenerateArgs{
				Paths:   parsePaths(args),
				Output:  m.Path(viper.GetString(outputConfigKey)),
				Formats: formats,
				Suite: domain.SuiteOptions{
					Valid:      viper.GetInt(validConfigKey),
					Invalid:    viper.GetInt(invalidConfigKey),
					Extreme:    viper.GetBool(extremeConfigKey),
					MaxDepth:   viper.GetInt(maxDepthConfigKey),
					Seed:       seed,
					Identifier: viper.GetString(identifierConfigKey),
				},
				Parallel: viper.GetInt(runParallelConfigKey),
				Diffs:    viper.GetBool(diffConfigKey),
			})
		},
	}

	configureGenerateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func configureGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of grammars processed in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().IntVarP(&validFlag, validFlagName, "n", viper.GetInt(validConfigKey), "number of valid strings to derive")
	bindFlagToConfig(cmd.Flags().Lookup(validFlagName), validConfigKey)

	cmd.Flags().IntVarP(&invalidFlag, invalidFlagName, "m", viper.GetInt(invalidConfigKey), "number of invalid strings to produce by mutation")
	bindFlagToConfig(cmd.Flags().Lookup(invalidFlagName), invalidConfigKey)

	cmd.Flags().BoolVar(&extremeFlag, extremeFlagName, viper.GetBool(extremeConfigKey), "generate the extreme cases")
	bindFlagToConfig(cmd.Flags().Lookup(extremeFlagName), extremeConfigKey)

	cmd.Flags().IntVarP(&maxDepthFlag, maxDepthFlagName, "d", viper.GetInt(maxDepthConfigKey), "maximum expansions per derivation")
	bindFlagToConfig(cmd.Flags().Lookup(maxDepthFlagName), maxDepthConfigKey)

	cmd.Flags().Uint64VarP(&seedFlag, seedFlagName, "s", viper.GetUint64(seedConfigKey), "random seed (0 picks one from the clock)")
	bindFlagToConfig(cmd.Flags().Lookup(seedFlagName), seedConfigKey)

	cmd.Flags().StringVar(&identifierFlag, identifierFlagName, viper.GetString(identifierConfigKey), "identifier terminal counted in case metadata")
	bindFlagToConfig(cmd.Flags().Lookup(identifierFlagName), identifierConfigKey)

	cmd.Flags().StringSliceVarP(&formatsFlag, formatsFlagName, "f", viper.GetStringSlice(formatsConfigKey), "export formats: json, yaml, msgpack (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(formatsFlagName), formatsConfigKey)

	cmd.Flags().BoolVar(&diffFlag, diffFlagName, viper.GetBool(diffConfigKey), "show an original-to-mutated diff for invalid cases")
	bindFlagToConfig(cmd.Flags().Lookup(diffFlagName), diffConfigKey)
}

func parseFormats(names []string) ([]adapter.Format, error) {
	formats := make([]adapter.Format, 0, len(names))
	seen := make(map[adapter.Format]struct{}, len(names))

	for _, name := range names {
		format, err := adapter.ParseFormat(name)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", formatsFlagName, err)
		}

		if _, ok := seen[format]; ok {
			continue
		}

		seen[format] = struct{}{}
		formats = append(formats, format)
	}

	return formats, nil
}

// resolveSeed keeps a configured seed and otherwise derives one from the clock.
func resolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}

	clock, err := safecast.Conv[uint64](time.Now().UnixNano())
	if err != nil {
		clock = 1
	}

	slog.Info("no seed configured, using clock", "seed", clock)

	return clock
}
