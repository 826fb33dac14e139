package sidebar

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Bitlatte/docindex/internal/logging"
	"github.com/Bitlatte/docindex/internal/metrics"
	"github.com/Bitlatte/docindex/internal/model"
	"github.com/Bitlatte/docindex/internal/registry"
)

// Load reads one sidebar file.
func Load(filename string) (File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading sidebar file %s: %w", filename, err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error decoding sidebar file %s: %w", filename, err)
	}
	return f, nil
}

// Composer merges every registered version's sidebar into one map.
type Composer struct {
	reg     *registry.Registry
	dir     string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewComposer(reg *registry.Registry, dir string, logger *slog.Logger, m *metrics.Metrics) *Composer {
	return &Composer{reg: reg, dir: dir, logger: logging.OrDiscard(logger), metrics: m}
}

// FilePath is where the sidebar file of a version lives: directly in the
// sidebar directory for the default locale, in a locale subdirectory otherwise.
func (c *Composer) FilePath(locale string, v registry.VersionDescriptor) string {
	if locale == c.reg.DefaultLocale() {
		return filepath.Join(c.dir, v.SidebarFile)
	}
	return filepath.Join(c.dir, locale, v.SidebarFile)
}

// Compose returns publicPath -> tree. A version whose file is missing,
// malformed or lacks its source path entry is logged and left out. Later
// versions overwrite earlier ones that share a publicPath.
func (c *Composer) Compose() map[string]Tree {
	out := make(map[string]Tree)
	for _, locale := range c.reg.Locales() {
		for _, v := range c.reg.VersionsForLocale(locale) {
			tree, err := c.versionTree(locale, v)
			if err != nil {
				c.logger.Warn("sidebar skipped",
					slog.String("locale", locale),
					slog.String("version", v.Version),
					slog.Any("error", err),
				)
				c.metrics.SidebarSkipped(locale, v.Version)
				continue
			}
			if v.IsCurrentVersion && c.reg.RewriteLinks() {
				tree = RewriteLinks(tree, v.Path, v.PublicPath)
			}
			out[v.PublicPath] = tree
		}
	}
	return out
}

func (c *Composer) versionTree(locale string, v registry.VersionDescriptor) (Tree, error) {
	f, err := Load(c.FilePath(locale, v))
	if err != nil {
		return nil, err
	}
	tree, ok := f[v.Path]
	if !ok {
		return nil, fmt.Errorf("sidebar file %s has no entry for %q", v.SidebarFile, v.Path)
	}
	return tree, nil
}

// Listing builds a sidebar section linking every record, in record order.
func Listing(title string, records []model.ContentRecord) Tree {
	items := make(Tree, 0, len(records))
	for _, r := range records {
		items = append(items, Item{Text: r.Title, Link: r.Path})
	}
	return Tree{{Text: title, Items: items}}
}
