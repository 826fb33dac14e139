// Package index derives the listing views of a collection and writes them
// as JSON artifacts for the client-side consumers.
package index

import (
	"log/slog"

	"golang.org/x/text/language"

	"github.com/Bitlatte/docindex/internal/logging"
	"github.com/Bitlatte/docindex/internal/metrics"
	"github.com/Bitlatte/docindex/internal/model"
)

// Artifact file names.
const (
	ArticlesFull          = "articles-metadata.json"
	ArticlesRecent        = "recent-articles.json"
	ArticlesChronological = "articles-by-date.json"
	PluginsFull           = "plugins-metadata.json"
	PluginsRecent         = "recent-plugins.json"
	PluginsAlphabetical   = "plugins-alphabetical.json"
)

// Files names the artifact written for each view. An empty name means the
// view is computed but not written.
type Files struct {
	Full          string
	Recent        string
	Alphabetical  string
	Chronological string
}

// Collection describes how one record type is indexed.
type Collection[T any] struct {
	Name        string
	Files       Files
	RecentCount int
	Title       func(T) string
	Date        func(T) string // nil when records carry no date
}

// Articles is the scanned articles collection: full, recent and chronological.
func Articles(recent int) Collection[model.ContentRecord] {
	return Collection[model.ContentRecord]{
		Name: "articles",
		Files: Files{
			Full:          ArticlesFull,
			Recent:        ArticlesRecent,
			Chronological: ArticlesChronological,
		},
		RecentCount: recent,
		Title:       contentTitle,
		Date:        contentDate,
	}
}

// Plugins is the configured plugin table: full, recent and alphabetical.
func Plugins(recent int) Collection[model.PluginRecord] {
	return Collection[model.PluginRecord]{
		Name: "plugins",
		Files: Files{
			Full:         PluginsFull,
			Recent:       PluginsRecent,
			Alphabetical: PluginsAlphabetical,
		},
		RecentCount: recent,
		Title:       pluginTitle,
	}
}

// Views holds the in-memory result of a build.
type Views[T any] struct {
	Full          []T
	Recent        []T
	Alphabetical  []T
	Chronological []T // nil when the collection has no dates
	WriteErrors   int
}

// Builder writes collection artifacts through a Writer.
type Builder struct {
	writer  Writer
	logger  *slog.Logger
	metrics *metrics.Metrics
	lang    language.Tag
}

func NewBuilder(dir string, lang language.Tag, logger *slog.Logger, m *metrics.Metrics) *Builder {
	return &Builder{
		writer:  Writer{Dir: dir},
		logger:  logging.OrDiscard(logger),
		metrics: m,
		lang:    lang,
	}
}

// Dir is the artifact output directory.
func (b *Builder) Dir() string { return b.writer.Dir }

// Build computes every view of records and writes the ones c names. Write
// failures are logged and counted; the views are returned regardless.
func Build[T any](b *Builder, c Collection[T], records []T) Views[T] {
	full := clone(records)
	v := Views[T]{
		Full:         full,
		Recent:       Recent(full, c.RecentCount),
		Alphabetical: Alphabetical(full, c.Title, b.lang),
	}
	if c.Date != nil {
		v.Chronological = Chronological(full, c.Date)
	}

	write := func(name string, data []T) {
		if name == "" || data == nil {
			return
		}
		err := b.writer.WriteJSON(name, data)
		b.metrics.ArtifactWritten(name, err)
		if err != nil {
			v.WriteErrors++
			b.logger.Warn("artifact write failed",
				slog.String("collection", c.Name),
				slog.String("artifact", name),
				slog.Any("error", err),
			)
			return
		}
		b.logger.Debug("artifact written",
			slog.String("collection", c.Name),
			slog.String("artifact", name),
			slog.Int("records", len(data)),
		)
	}
	write(c.Files.Full, v.Full)
	write(c.Files.Recent, v.Recent)
	write(c.Files.Alphabetical, v.Alphabetical)
	write(c.Files.Chronological, v.Chronological)

	b.logger.Info("collection indexed",
		slog.String("collection", c.Name),
		slog.Int("records", len(full)),
		slog.Int("write_errors", v.WriteErrors),
	)
	return v
}
