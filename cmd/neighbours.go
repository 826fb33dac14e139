package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/docindex/internal/client"
)

var neighboursCmd = &cobra.Command{
	Use:   "neighbours <artifact> <route>",
	Short: "Prints the previous and next entries around a route",
	Long: `The neighbours command fetches an artifact (e.g. articles-metadata.json)
from a served site and prints the entries before and after the one whose
path matches route, as the article footer links them.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		items := fetchEntries(cmd, args[0])
		prev, next, ok := client.Neighbours(items, args[1], basePath(), func(e entry) string { return e.Path })

		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintf(out, "no entry for %s\n", args[1])
			return nil
		}
		if prev != nil {
			fmt.Fprintf(out, "prev\t%s\t%s\n", prev.Title, prev.Path)
		}
		if next != nil {
			fmt.Fprintf(out, "next\t%s\t%s\n", next.Title, next.Path)
		}
		return nil
	},
}

func init() {
	neighboursCmd.Flags().StringVar(&serverURL, "server", "http://localhost:1313", "URL of the served site")
	rootCmd.AddCommand(neighboursCmd)
}
