package model

// ContentRecord is the normalized metadata of one scanned markdown document.
type ContentRecord struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Slug        string   `json:"slug"`
	Path        string   `json:"path"`
	File        string   `json:"file"`
}

// PluginRecord is one entry of the hand-maintained plugin table.
type PluginRecord struct {
	Title       string `json:"title" mapstructure:"title"`
	Description string `json:"description" mapstructure:"description"`
	Slug        string `json:"slug" mapstructure:"slug"`
	Path        string `json:"path" mapstructure:"path"`
	Name        string `json:"name" mapstructure:"name"`
}
