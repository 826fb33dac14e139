package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Bitlatte/docindex/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Regenerates every index artifact and the sidebar",
	Long: `The build command scans the articles directory, writes the full, recent
and by-date article artifacts and the plugin artifacts into the data
directory (default './public/data/'), and composes the sidebar of every
registered version. Unreadable content or failed writes are logged; they
never fail the build.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSite(prometheus.NewRegistry())
		if err != nil {
			return err
		}
		s.Regenerate(site.OnBuildStart)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
