// Package render wraps goldmark with version placeholder substitution and a
// custom renderer for diagram fences.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/Bitlatte/docindex/internal/logging"
	"github.com/Bitlatte/docindex/internal/model"
	"github.com/Bitlatte/docindex/internal/registry"
)

// Placeholders replaced in the raw source before parsing.
const (
	VersionToken       = "|version|"
	PHPVersionToken    = "|phpversion|"
	MinPHPVersionToken = "|minphpversion|"
)

const (
	DefaultFenceLanguage = "mermaid"
	DefaultFenceClass    = "mermaid"
)

type Options struct {
	FenceLanguage  string // fence info language rendered raw
	FenceClass     string // class of the <pre> wrapping it
	HighlightStyle string // chroma style for other fences; empty disables highlighting
}

// Renderer renders documents for the version their path resolves to.
type Renderer struct {
	reg    *registry.Registry
	md     goldmark.Markdown
	logger *slog.Logger
}

func New(reg *registry.Registry, opts Options, logger *slog.Logger) *Renderer {
	if opts.FenceLanguage == "" {
		opts.FenceLanguage = DefaultFenceLanguage
	}
	if opts.FenceClass == "" {
		opts.FenceClass = DefaultFenceClass
	}

	var fallback renderer.NodeRenderer
	if opts.HighlightStyle != "" {
		fallback = highlighting.NewHTMLRenderer(highlighting.WithStyle(opts.HighlightStyle))
	} else {
		fallback = gmhtml.NewRenderer()
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, meta.Meta),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(newFenceRenderer(opts.FenceLanguage, opts.FenceClass, fallback), 100),
			),
		),
	)
	return &Renderer{reg: reg, md: md, logger: logging.OrDiscard(logger)}
}

// Substitute replaces the version placeholders in src. It is plain text
// replacement: tokens inside code spans are replaced as well.
func Substitute(src []byte, v registry.VersionDescriptor) []byte {
	r := strings.NewReplacer(
		VersionToken, v.Version,
		PHPVersionToken, v.PHPVersion,
		MinPHPVersionToken, v.MinPHPVersion,
	)
	return []byte(r.Replace(string(src)))
}

// Render substitutes placeholders for the version serving relPath and
// converts the document to HTML. Front matter is stripped from the output
// and returned as Params.
func (r *Renderer) Render(relPath string, src []byte) (model.PageData, error) {
	v := r.reg.VersionByPath("/" + strings.TrimPrefix(relPath, "/"))
	src = Substitute(src, v)

	ctx := parser.NewContext()
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf, parser.WithContext(ctx)); err != nil {
		return model.PageData{}, fmt.Errorf("failed to convert markdown to HTML for file '%s': %w", relPath, err)
	}
	r.logger.Debug("document rendered",
		slog.String("path", relPath),
		slog.String("version", v.Version),
	)
	return model.PageData{
		RelativePath: relPath,
		Version:      v.Version,
		Content:      template.HTML(buf.String()),
		Params:       meta.Get(ctx),
	}, nil
}
