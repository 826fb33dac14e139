package render

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// entities is the small set decoded inside diagram fences.
var entities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&amp;", "&",
)

// fenceRenderer takes over fenced code blocks. Blocks in its language are
// written raw inside a <pre class=...>; all others go to the fallback.
type fenceRenderer struct {
	language string
	class    string
	fallback renderer.NodeRendererFunc
}

// funcs captures what a NodeRenderer registers.
type funcs map[ast.NodeKind]renderer.NodeRendererFunc

func (f funcs) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) { f[kind] = fn }

func newFenceRenderer(language, class string, fallback renderer.NodeRenderer) *fenceRenderer {
	captured := funcs{}
	fallback.RegisterFuncs(captured)
	return &fenceRenderer{
		language: language,
		class:    class,
		fallback: captured[ast.KindFencedCodeBlock],
	}
}

func (r *fenceRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *fenceRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if string(n.Language(source)) != r.language {
		return r.fallback(w, source, node, entering)
	}
	if !entering {
		return ast.WalkContinue, nil
	}

	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	_, _ = w.WriteString(`<pre class="` + r.class + `">`)
	_, _ = w.WriteString(entities.Replace(b.String()))
	_, _ = w.WriteString("</pre>\n")
	return ast.WalkContinue, nil
}
