package cmd

import (
	"runtime"
	"strings"

	"github.com/huangsam/greenscore/schema"
	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of greenscore.",
	Long: `Display version information including build details and the languages
and regions this build can analyze.

Useful for:
- Verifying correct binary installation
- Reporting bugs with version details`,
	Run: func(cmd *cobra.Command, _ []string) {
		languages := make([]string, len(schema.AllLanguages))
		for i, l := range schema.AllLanguages {
			languages[i] = string(l)
		}
		regions := make([]string, len(schema.AllRegions))
		for i, r := range schema.AllRegions {
			regions[i] = string(r)
		}

		cmd.Printf("greenscore CLI\n")
		cmd.Printf("  Version:   %s\n", version)
		cmd.Printf("  Commit:    %s\n", commit)
		cmd.Printf("  Built:     %s\n", date)
		cmd.Printf("  Runtime:   %s\n", runtime.Version())
		cmd.Printf("  Languages: %s\n", strings.Join(languages, ", "))
		cmd.Printf("  Regions:   %s\n", strings.Join(regions, ", "))
	},
}
