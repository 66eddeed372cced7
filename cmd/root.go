// Package cmd provides the root command and CLI setup for gramgen.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gramgen.dev/pkg/gramgen/internal/adapter"
	"gramgen.dev/pkg/gramgen/internal/controller"
	"gramgen.dev/pkg/gramgen/internal/domain"
	m "gramgen.dev/pkg/gramgen/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var grammarAdapter adapter.GrammarAdapter
var reportStore adapter.ReportStore
var suiteBuilder domain.SuiteBuilder
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that write suites.
var reportsOutputDirFlag string

// verboseFlag forces debug logging.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	grammarAdapter = adapter.NewLocalGrammarAdapter(fsAdapter)
	reportStore = adapter.NewReportStore(fsAdapter)
	suiteBuilder = domain.NewSuiteBuilder(nil)
	workflow = domain.NewWorkflow(
		fsAdapter,
		grammarAdapter,
		reportStore,
		ui,
		suiteBuilder,
	)
}

const grammarFormatHelp = `Grammar files hold one rule per line:
  E -> E + T | T
  T -> T * F | F
  F -> ( E ) | id
The first left side is the start symbol. Single uppercase letters and
PascalCase words are nonterminals; "ε", "epsilon" or "lambda" denote the
empty string; "#" starts a comment.

Paths may be files, directories (*.cfg, *.grammar, *.gram) or "dir/..."
to search recursively.`

const rootLongDescription = `Gramgen generates test strings from context-free grammars: valid strings
by leftmost derivation, invalid strings by mutating them, and extreme cases
at the structural limits of the language.

` + grammarFormatHelp

const generateLongDescription = `Build a labeled test suite for every grammar file given
(default: current directory) and export it to the output directory.

` + grammarFormatHelp

const inspectLongDescription = `Show the productions and symbol sets of each grammar, including
nonterminals without productions.

` + grammarFormatHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gramgen",
		Short: "Context-free grammar test string generator",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputConfigKey),
			"output directory for generated suites",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
