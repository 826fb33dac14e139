// Package scanner reads a content directory into normalized ContentRecords.
package scanner

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Bitlatte/docindex/internal/logging"
	"github.com/Bitlatte/docindex/internal/metrics"
	"github.com/Bitlatte/docindex/internal/model"
)

const (
	DefaultExtension  = ".md"
	ReservedDocument  = "index" // the collection's listing page
	DescriptionLength = 200
	Ellipsis          = "..."

	dateLayout = "2006-01-02"
)

var (
	blankLine  = regexp.MustCompile(`\n[ \t]*\r?\n`)
	datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// frontMatter is the subset of front matter keys the index cares about.
type frontMatter struct {
	Title       string      `yaml:"title"`
	Date        interface{} `yaml:"date"`
	Description string      `yaml:"description"`
	Tags        []string    `yaml:"tags"`
}

// Scanner turns markdown documents into ContentRecords.
type Scanner struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	extension string
	now       func() time.Time
	caser     cases.Caser
}

type Option func(*Scanner)

// WithExtension overrides the document extension filter.
func WithExtension(ext string) Option {
	return func(s *Scanner) {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.extension = ext
	}
}

// WithClock sets the clock used for documents without a date.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scanner) { s.metrics = m }
}

func New(logger *slog.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		logger:    logging.OrDiscard(logger),
		extension: DefaultExtension,
		now:       time.Now,
		caser:     cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan reads every document of dir, in filename order. A missing directory
// yields an empty result. Any read or front matter error is logged and also
// yields an empty result; Scan never fails.
func (s *Scanner) Scan(dir, collection string) []model.ContentRecord {
	records, err := s.scan(dir, collection)
	if err != nil {
		s.logger.Warn("scan failed, using empty collection",
			slog.String("collection", collection),
			slog.String("dir", dir),
			slog.Any("error", err),
		)
		s.metrics.ScanFailed(collection)
		records = []model.ContentRecord{}
	}
	s.metrics.Scanned(collection, len(records))
	return records
}

func (s *Scanner) scan(dir, collection string) ([]model.ContentRecord, error) {
	records := []model.ContentRecord{}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		s.logger.Debug("content directory not found, skipping",
			slog.String("collection", collection),
			slog.String("dir", dir),
		)
		return records, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory '%s': %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), s.extension) {
			continue
		}
		slug := strings.TrimSuffix(name, filepath.Ext(name))
		if slug == ReservedDocument {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read file '%s': %w", name, err)
		}
		record, err := s.parse(data, name, slug, collection)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Scanner) parse(data []byte, file, slug, collection string) (model.ContentRecord, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return model.ContentRecord{}, fmt.Errorf("failed to parse front matter of '%s': %w", file, err)
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = TitleFromSlug(s.caser, slug)
	}

	description := strings.TrimSpace(fm.Description)
	if description == "" {
		description = Excerpt(string(body))
	}

	tags := fm.Tags
	if tags == nil {
		tags = []string{}
	}

	return model.ContentRecord{
		Title:       title,
		Date:        s.normalizeDate(fm.Date, file),
		Description: description,
		Tags:        tags,
		Slug:        slug,
		Path:        RecordPath(collection, slug),
		File:        file,
	}, nil
}

// normalizeDate renders a front matter date as YYYY-MM-DD. Missing or
// unparseable values become today.
func (s *Scanner) normalizeDate(v interface{}, file string) string {
	switch d := v.(type) {
	case nil:
	case time.Time:
		return d.Format(dateLayout)
	case string:
		d = strings.TrimSpace(d)
		if d == "" {
			break
		}
		if m := datePrefix.FindString(d); m != "" {
			return m
		}
		if t, err := dateparse.ParseAny(d); err == nil {
			return t.Format(dateLayout)
		}
		s.logger.Warn("unparseable date, using today", slog.String("file", file), slog.String("date", d))
	default:
		s.logger.Warn("unsupported date value, using today", slog.String("file", file), slog.Any("date", v))
	}
	return s.now().Format(dateLayout)
}

// TitleFromSlug turns "my-first_post" into "My First Post".
func TitleFromSlug(caser cases.Caser, slug string) string {
	return caser.String(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
}

// Excerpt returns the first non-blank paragraph of body, trimmed and cut to
// DescriptionLength runes with Ellipsis appended when cut.
func Excerpt(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	for _, block := range blankLine.Split(body, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		r := []rune(block)
		if len(r) > DescriptionLength {
			return string(r[:DescriptionLength]) + Ellipsis
		}
		return block
	}
	return ""
}

// RecordPath is /{collection}/{slug} with the slug component-encoded.
func RecordPath(collection, slug string) string {
	return "/" + collection + "/" + EncodeComponent(slug)
}

// EncodeComponent percent-encodes everything except A-Z a-z 0-9 and
// -_.!~*() . The apostrophe is encoded too.
func EncodeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*()", c) >= 0
}
