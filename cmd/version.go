package cmd

import (
	"runtime/debug"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"gramgen.dev/pkg/gramgen/internal/adapter"
)

// buildVersion is set with -ldflags "-X gramgen.dev/pkg/gramgen/cmd.buildVersion=v1.2.3".
var buildVersion string

func resolveVersion() (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return lo.CoalesceOrEmpty(buildVersion, "unknown"), "unknown"
	}

	return lo.CoalesceOrEmpty(buildVersion, info.Main.Version, "unknown"), info.GoVersion
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version, the Go version and the supported file formats.",
		Run: func(cmd *cobra.Command, _ []string) {
			version, goVersion := resolveVersion()

			formats := lo.Map(adapter.AllFormats, func(f adapter.Format, _ int) string {
				return string(f)
			})

			cmd.Println("gramgen version\t", version)
			cmd.Println("go version\t", goVersion)
			cmd.Println("grammar files\t", strings.Join(adapter.GrammarExtensions, " "))
			cmd.Println("suite formats\t", strings.Join(formats, " "))
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
