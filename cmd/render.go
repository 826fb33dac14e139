package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var renderPath string
var renderParams bool

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Renders one markdown document to HTML on stdout",
	Long: `The render command resolves the version serving the document (from its
path below the content directory, or --path), replaces the version
placeholders and prints the rendered HTML. Front matter is stripped;
--params prints it as YAML instead of the HTML.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", file, err)
		}

		rel := renderPath
		if rel == "" {
			rel = contentRelPath(appConfig.ContentDir, file)
		}

		s, err := newSite(nil)
		if err != nil {
			return err
		}
		page, err := s.Renderer().Render(rel, src)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if renderParams {
			data, err := yaml.Marshal(page.Params)
			if err != nil {
				return fmt.Errorf("error encoding front matter: %w", err)
			}
			_, err = out.Write(data)
			return err
		}
		_, err = fmt.Fprint(out, page.Content)
		return err
	},
}

// contentRelPath is file relative to the content directory in slash form,
// without its extension. Files outside it keep their own path.
func contentRelPath(contentDir, file string) string {
	rel, err := filepath.Rel(contentDir, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = file
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.ToSlash(rel)
}

func init() {
	renderCmd.Flags().StringVar(&renderPath, "path", "", "site path used to resolve the version (default: file path below the content directory)")
	renderCmd.Flags().BoolVar(&renderParams, "params", false, "print the front matter instead of the HTML")
	rootCmd.AddCommand(renderCmd)
}
