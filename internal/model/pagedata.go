package model

import "html/template"

// PageData is the result of rendering one document.
type PageData struct {
	RelativePath string
	Version      string
	Content      template.HTML
	Params       map[string]interface{} // front matter, as parsed by the renderer
}

// Title returns the front matter title, if any.
func (p PageData) Title() string {
	if t, ok := p.Params["title"].(string); ok {
		return t
	}
	return ""
}
