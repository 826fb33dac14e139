// Package site owns one process's worth of state: the registry, the
// pipeline components built from config, and the last regeneration result.
package site

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Bitlatte/docindex/internal/config"
	"github.com/Bitlatte/docindex/internal/index"
	"github.com/Bitlatte/docindex/internal/logging"
	"github.com/Bitlatte/docindex/internal/metrics"
	"github.com/Bitlatte/docindex/internal/model"
	"github.com/Bitlatte/docindex/internal/registry"
	"github.com/Bitlatte/docindex/internal/render"
	"github.com/Bitlatte/docindex/internal/scanner"
	"github.com/Bitlatte/docindex/internal/sidebar"
)

// SidebarArtifact holds the composed sidebar map next to the collection artifacts.
const SidebarArtifact = "sidebar.json"

// Hook names the lifecycle event that triggered a regeneration.
type Hook string

const (
	OnBuildStart    Hook = "build-start"
	OnServerStart   Hook = "server-start"
	OnContentChange Hook = "content-change"
)

// Snapshot is the in-memory result of one regeneration.
type Snapshot struct {
	Articles    index.Views[model.ContentRecord]
	Plugins     index.Views[model.PluginRecord]
	Sidebar     map[string]sidebar.Tree
	Hook        Hook
	GeneratedAt time.Time
}

// Site wires the pipeline together. Regenerate is the single writer;
// Snapshot may be called concurrently from HTTP handlers.
type Site struct {
	cfg      config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	registry *registry.Registry
	scanner  *scanner.Scanner
	builder  *index.Builder
	composer *sidebar.Composer
	renderer *render.Renderer

	regen sync.Mutex // serializes Regenerate

	mu   sync.RWMutex
	snap Snapshot
}

// New builds every component from cfg. Only an invalid registry table fails.
func New(cfg config.Config, logger *slog.Logger, m *metrics.Metrics) (*Site, error) {
	logger = logging.OrDiscard(logger)

	table := registry.DefaultTable()
	if cfg.Registry != "" {
		t, err := registry.LoadTable(cfg.Registry)
		if err != nil {
			return nil, err
		}
		table = t
	}
	reg, err := registry.New(table)
	if err != nil {
		return nil, fmt.Errorf("invalid registry table: %w", err)
	}

	opts := []scanner.Option{scanner.WithMetrics(m)}
	if cfg.Extension != "" {
		opts = append(opts, scanner.WithExtension(cfg.Extension))
	}

	return &Site{
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		registry: reg,
		scanner:  scanner.New(logger.With(slog.String("component", "scanner")), opts...),
		builder:  index.NewBuilder(cfg.ArtifactDir(), cfg.Language(), logger.With(slog.String("component", "index")), m),
		composer: sidebar.NewComposer(reg, cfg.SidebarDir, logger.With(slog.String("component", "sidebar")), m),
		renderer: render.New(reg, render.Options{
			FenceLanguage:  cfg.Render.FenceLanguage,
			FenceClass:     cfg.Render.FenceClass,
			HighlightStyle: cfg.Render.HighlightStyle,
		}, logger.With(slog.String("component", "render"))),
	}, nil
}

func (s *Site) Registry() *registry.Registry { return s.registry }
func (s *Site) Renderer() *render.Renderer   { return s.renderer }
func (s *Site) Config() config.Config        { return s.cfg }

// Regenerate rescans all content, rewrites every artifact and recomposes the
// sidebar. Content and write problems are logged; it never fails.
func (s *Site) Regenerate(hook Hook) Snapshot {
	s.regen.Lock()
	defer s.regen.Unlock()

	start := time.Now()
	s.logger.Info("regeneration started", slog.String("hook", string(hook)))

	articles := index.Articles(s.cfg.Articles.RecentCount)
	records := s.scanner.Scan(s.cfg.ArticlesDir(), articles.Name)
	av := index.Build(s.builder, articles, records)
	pv := index.Build(s.builder, index.Plugins(s.cfg.Plugins.RecentCount), s.cfg.Plugins.Table)

	tree := s.composer.Compose()
	tree["/"+articles.Name+"/"] = sidebar.Listing(s.cfg.Articles.ListingTitle, av.Full)

	w := index.Writer{Dir: s.builder.Dir()}
	err := w.WriteJSON(SidebarArtifact, tree)
	s.metrics.ArtifactWritten(SidebarArtifact, err)
	if err != nil {
		s.logger.Warn("artifact write failed",
			slog.String("artifact", SidebarArtifact),
			slog.Any("error", err),
		)
	}

	snap := Snapshot{
		Articles:    av,
		Plugins:     pv,
		Sidebar:     tree,
		Hook:        hook,
		GeneratedAt: start,
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	elapsed := time.Since(start)
	s.metrics.Regenerated(elapsed)
	s.logger.Info("regeneration finished",
		slog.String("hook", string(hook)),
		slog.Int("articles", len(av.Full)),
		slog.Int("plugins", len(pv.Full)),
		slog.Int("sidebars", len(tree)),
		slog.Int("writeErrors", av.WriteErrors+pv.WriteErrors),
		slog.Duration("took", elapsed),
	)
	return snap
}

// Snapshot returns the result of the latest regeneration. The zero value is
// returned before the first one.
func (s *Site) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
