package cmd

import (
	"github.com/spf13/cobra"

	"gramgen.dev/pkg/gramgen/internal/domain"
)

// inspectCmd represents the inspect command.
var inspectCmd = newInspectCmd()

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [grammar files...]",
		Short: "Show grammars as parsed",
		Long:  inspectLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Inspect(cmd.Context(), domain.InspectArgs{Paths: parsePaths(args)})
		},
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
