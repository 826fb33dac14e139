package cmd

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/docindex/internal/client"
)

// entry is the part of a content or plugin record the listings show.
type entry struct {
	Title string `json:"title"`
	Date  string `json:"date,omitempty"`
	Path  string `json:"path"`
}

var serverURL string
var listPage int
var listPageSize int

var listCmd = &cobra.Command{
	Use:   "list <artifact>",
	Short: "Prints one page of a published artifact from a running site",
	Long: `The list command fetches an artifact (e.g. recent-articles.json) from a
served site and prints the requested page the way the site's paginated
listing shows it. A missing or broken artifact prints an empty page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items := fetchEntries(cmd, args[0])

		p := client.NewPager(len(items), listPageSize, url.Values{client.PageParam: {strconv.Itoa(listPage)}})
		out := cmd.OutOrStdout()
		printEntries(out, client.Items(p, items))
		fmt.Fprintf(out, "page %d of %d", p.Page, p.TotalPages())
		if p.HasPrev() {
			fmt.Fprint(out, " | prev")
		}
		if p.HasNext() {
			fmt.Fprint(out, " | next")
		}
		fmt.Fprintln(out)
		return nil
	},
}

func fetchEntries(cmd *cobra.Command, artifact string) []entry {
	if !strings.HasSuffix(artifact, ".json") {
		artifact += ".json"
	}
	c := client.New(siteBase(), nil, logger)
	return client.Fetch[entry](cmd.Context(), c, appConfig.ArtifactPath(artifact))
}

// siteBase is the served site's root: the server URL plus the base path.
func siteBase() string {
	return client.ArtifactURL(serverURL, basePath())
}

// basePath is the path component of the configured base URL.
func basePath() string {
	u, err := url.Parse(appConfig.BaseURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

func printEntries(w io.Writer, items []entry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", it.Date, it.Title, it.Path)
	}
	tw.Flush()
}

func init() {
	listCmd.Flags().StringVar(&serverURL, "server", "http://localhost:1313", "URL of the served site")
	listCmd.Flags().IntVar(&listPage, "page", 1, "page to print")
	listCmd.Flags().IntVar(&listPageSize, "page-size", client.DefaultPageSize, "items per page")
	rootCmd.AddCommand(listCmd)
}
