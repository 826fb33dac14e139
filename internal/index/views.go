package index

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Bitlatte/docindex/internal/model"
)

// Recent returns the first n records in their original order. It is a
// priority prefix, not a date sort.
func Recent[T any](records []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(records) {
		n = len(records)
	}
	out := make([]T, n)
	copy(out, records[:n])
	return out
}

// Alphabetical returns records sorted by title with locale-aware collation.
// Equal titles keep their original order.
func Alphabetical[T any](records []T, title func(T) string, tag language.Tag) []T {
	out := clone(records)
	c := collate.New(tag)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(title(out[i]), title(out[j])) < 0
	})
	return out
}

// Chronological returns records sorted by date, newest first. Equal dates
// keep their original order.
func Chronological[T any](records []T, date func(T) string) []T {
	out := clone(records)
	sort.SliceStable(out, func(i, j int) bool {
		return date(out[i]) > date(out[j])
	})
	return out
}

func clone[T any](records []T) []T {
	out := make([]T, len(records))
	copy(out, records)
	return out
}

func contentTitle(r model.ContentRecord) string { return r.Title }
func contentDate(r model.ContentRecord) string  { return r.Date }
func pluginTitle(r model.PluginRecord) string   { return r.Title }
