// Package registry holds the static table of supported locales and content
// versions, and the pure lookups the composer and renderer resolve against.
package registry

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// VersionDescriptor describes one published version of the documentation.
type VersionDescriptor struct {
	Version          string `yaml:"version" json:"version"`
	Label            string `yaml:"label" json:"label"`
	DisplayName      string `yaml:"displayName" json:"displayName"`
	Path             string `yaml:"path" json:"path"`             // source path prefix
	PublicPath       string `yaml:"publicPath" json:"publicPath"` // served path prefix
	IsCurrentVersion bool   `yaml:"isCurrentVersion" json:"isCurrentVersion"`
	SidebarFile      string `yaml:"sidebarFile" json:"sidebarFile"`

	// Only read by render-time substitution.
	PHPVersion    string `yaml:"phpVersion" json:"phpVersion"`
	MinPHPVersion string `yaml:"minPhpVersion" json:"minPhpVersion"`
}

// Locale is a locale with its own version list.
type Locale struct {
	Code     string              `yaml:"code"`
	Label    string              `yaml:"label"`
	Versions []VersionDescriptor `yaml:"versions"`
}

// Table is the hand-authored registry configuration.
type Table struct {
	DefaultLocale string   `yaml:"defaultLocale"`
	Supported     []string `yaml:"supported"`
	Locales       []Locale `yaml:"locales"`
	RewriteLinks  bool     `yaml:"rewriteLinks"`
}

var (
	ErrNoDefaultLocale = errors.New("registry: default locale has no version list")
	ErrCurrentVersion  = errors.New("registry: locale must flag exactly one current version")
	ErrDuplicatePath   = errors.New("registry: duplicate publicPath within locale")
	ErrDuplicateLocale = errors.New("registry: locale listed twice")
	ErrEmptyLocaleCode = errors.New("registry: empty locale code")
)

// DefaultTable is the built-in table: one English locale with a single
// current version served from the site root.
func DefaultTable() Table {
	return Table{
		DefaultLocale: "en",
		Supported:     []string{"en"},
		RewriteLinks:  true,
		Locales: []Locale{
			{
				Code:  "en",
				Label: "English",
				Versions: []VersionDescriptor{
					{
						Version:          "1.x",
						Label:            "1.x",
						DisplayName:      "Plugins 1.x",
						Path:             "/1.x/",
						PublicPath:       "/",
						IsCurrentVersion: true,
						SidebarFile:      "1.x.json",
						PHPVersion:       "8.3",
						MinPHPVersion:    "8.1",
					},
				},
			},
		},
	}
}

// LoadTable reads a registry table from a YAML file.
func LoadTable(filename string) (Table, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Table{}, fmt.Errorf("error reading registry file %s: %w", filename, err)
	}
	var t Table
	if err := yaml.UnmarshalStrict(data, &t); err != nil {
		return Table{}, fmt.Errorf("error unmarshalling registry file %s: %w", filename, err)
	}
	return t, nil
}

// Registry answers lookups over a validated Table. It is immutable.
type Registry struct {
	table     Table
	byCode    map[string]int // index into table.Locales
	current   map[string]int // locale code -> index of its current version
	supported map[string]bool
}

// New validates t and returns a Registry. Every locale with a version list
// must flag exactly one current version and keep publicPath unique.
func New(t Table) (*Registry, error) {
	r := &Registry{
		table:     t,
		byCode:    make(map[string]int, len(t.Locales)),
		current:   make(map[string]int, len(t.Locales)),
		supported: make(map[string]bool, len(t.Supported)),
	}
	for i, loc := range t.Locales {
		if loc.Code == "" {
			return nil, ErrEmptyLocaleCode
		}
		if _, dup := r.byCode[loc.Code]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLocale, loc.Code)
		}
		r.byCode[loc.Code] = i

		current := -1
		paths := make(map[string]bool, len(loc.Versions))
		for j, v := range loc.Versions {
			if paths[v.PublicPath] {
				return nil, fmt.Errorf("%w: %s %q", ErrDuplicatePath, loc.Code, v.PublicPath)
			}
			paths[v.PublicPath] = true
			if v.IsCurrentVersion {
				if current >= 0 {
					return nil, fmt.Errorf("%w: %s flags %q and %q", ErrCurrentVersion, loc.Code, loc.Versions[current].Version, v.Version)
				}
				current = j
			}
		}
		if current < 0 {
			return nil, fmt.Errorf("%w: %s flags none", ErrCurrentVersion, loc.Code)
		}
		r.current[loc.Code] = current
	}
	if _, ok := r.byCode[t.DefaultLocale]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoDefaultLocale, t.DefaultLocale)
	}
	for _, code := range t.Supported {
		r.supported[code] = true
	}
	r.supported[t.DefaultLocale] = true
	return r, nil
}

// DefaultLocale returns the locale served without a path prefix.
func (r *Registry) DefaultLocale() string { return r.table.DefaultLocale }

// RewriteLinks reports whether sidebar links of the current version are rewritten.
func (r *Registry) RewriteLinks() bool { return r.table.RewriteLinks }

// Locales returns the codes of locales that have a dedicated version list, in table order.
func (r *Registry) Locales() []string {
	codes := make([]string, 0, len(r.table.Locales))
	for _, loc := range r.table.Locales {
		codes = append(codes, loc.Code)
	}
	return codes
}

// LocaleSupported reports whether locale is in the supported set.
func (r *Registry) LocaleSupported(locale string) bool {
	return r.supported[locale]
}

func (r *Registry) resolve(locale string) string {
	if _, ok := r.byCode[locale]; ok {
		return locale
	}
	return r.table.DefaultLocale
}

// VersionsForLocale returns the locale's versions, or the default locale's
// versions when the locale has no list of its own. The slice is a copy.
func (r *Registry) VersionsForLocale(locale string) []VersionDescriptor {
	src := r.table.Locales[r.byCode[r.resolve(locale)]].Versions
	out := make([]VersionDescriptor, len(src))
	copy(out, src)
	return out
}

// CurrentVersion returns the version flagged current for locale.
func (r *Registry) CurrentVersion(locale string) VersionDescriptor {
	code := r.resolve(locale)
	return r.table.Locales[r.byCode[code]].Versions[r.current[code]]
}

// DetectLocale returns the longest non-default locale whose prefix matches
// path. The default locale carries no prefix.
func (r *Registry) DetectLocale(path string) string {
	path = "/" + strings.TrimPrefix(path, "/")
	best := ""
	for _, code := range r.candidates() {
		if code == r.table.DefaultLocale || len(code) <= len(best) {
			continue
		}
		prefix := "/" + code
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			best = code
		}
	}
	if best == "" {
		return r.table.DefaultLocale
	}
	return best
}

// candidates is every locale code a path may start with.
func (r *Registry) candidates() []string {
	codes := r.Locales()
	for _, code := range r.table.Supported {
		if _, ok := r.byCode[code]; !ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// VersionByPath resolves the version serving path: the first version of the
// detected locale whose publicPath prefixes path, else the current one.
func (r *Registry) VersionByPath(path string) VersionDescriptor {
	path = "/" + strings.TrimPrefix(path, "/")
	locale := r.DetectLocale(path)
	for _, v := range r.VersionsForLocale(locale) {
		if v.PublicPath != "" && strings.HasPrefix(path, v.PublicPath) {
			return v
		}
	}
	return r.CurrentVersion(locale)
}
