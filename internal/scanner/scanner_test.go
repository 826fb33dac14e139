package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Bitlatte/docindex/internal/model"
)

var fixedNow = func() time.Time { return time.Date(2026, 3, 4, 22, 15, 0, 0, time.UTC) }

func writeDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestScanMissingDirectory(t *testing.T) {
	s := New(nil)
	got := s.Scan(filepath.Join(t.TempDir(), "nope"), "articles")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScanFileInsteadOfDirectory(t *testing.T) {
	dir := writeDocs(t, map[string]string{"a.md": "x"})
	got := New(nil).Scan(filepath.Join(dir, "a.md"), "articles")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScanRecords(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"index.md": "---\ntitle: Articles\n---\nlisting page",
		"b-post.md": `---
title: Second Post
date: 2024-02-01T10:30:00Z
description: Explicit description.
tags: [cakephp, auth]
---
Body text.
`,
		"a_post.md": "No front matter here.\n\nSecond paragraph.",
		"notes.txt": "ignored",
		"it's-here.md": "---\ndate: 2023-12-31\n---\n\n\n  First para  \n\nsecond",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0o755))

	got := New(nil, WithClock(fixedNow)).Scan(dir, "articles")
	require.Len(t, got, 3)

	assert.Equal(t, model.ContentRecord{
		Title:       "A Post",
		Date:        "2026-03-04",
		Description: "No front matter here.",
		Tags:        []string{},
		Slug:        "a_post",
		Path:        "/articles/a_post",
		File:        "a_post.md",
	}, got[0])

	assert.Equal(t, model.ContentRecord{
		Title:       "Second Post",
		Date:        "2024-02-01",
		Description: "Explicit description.",
		Tags:        []string{"cakephp", "auth"},
		Slug:        "b-post",
		Path:        "/articles/b-post",
		File:        "b-post.md",
	}, got[1])

	assert.Equal(t, "It's Here", got[2].Title)
	assert.Equal(t, "2023-12-31", got[2].Date)
	assert.Equal(t, "First para", got[2].Description)
	assert.Equal(t, "/articles/it%27s-here", got[2].Path)
}

func TestScanIsDeterministic(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"one.md":   "---\ntitle: One\ndate: 2024-01-01\n---\nx",
		"two.md":   "---\ntitle: Two\n---\ny",
		"three.md": "z",
	})
	s := New(nil, WithClock(fixedNow))
	assert.Equal(t, s.Scan(dir, "articles"), s.Scan(dir, "articles"))
}

func TestScanBadFrontMatterEmptiesCollection(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"good.md": "---\ntitle: Good\n---\nbody",
		"bad.md":  "---\ntitle: [unterminated\n---\nbody",
	})
	got := New(nil).Scan(dir, "articles")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScanExtensionOption(t *testing.T) {
	dir := writeDocs(t, map[string]string{"a.markdown": "x", "b.md": "y"})
	got := New(nil, WithExtension("markdown")).Scan(dir, "docs")
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Slug)
}

func TestDescriptionFallbackTruncates(t *testing.T) {
	para := strings.Repeat("abcde", 50) // 250 characters
	dir := writeDocs(t, map[string]string{"long.md": "---\ntitle: Long\n---\n" + para + "\n\nnext"})
	got := New(nil).Scan(dir, "articles")
	require.Len(t, got, 1)

	d := got[0].Description
	assert.True(t, strings.HasSuffix(d, Ellipsis))
	assert.Equal(t, para[:DescriptionLength], strings.TrimSuffix(d, Ellipsis))
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"empty", "", ""},
		{"only blanks", "\n\n  \n\t\n", ""},
		{"first block", "one\ntwo\n\nthree", "one\ntwo"},
		{"leading blank lines", "\n\n\nfirst\n\nsecond", "first"},
		{"whitespace-only separator", "first\n   \nsecond", "first"},
		{"crlf", "first\r\n\r\nsecond", "first"},
		{"exactly limit", strings.Repeat("x", 200), strings.Repeat("x", 200)},
		{"multibyte", strings.Repeat("é", 201), strings.Repeat("é", 200) + Ellipsis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excerpt(tt.body))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	s := New(nil, WithClock(fixedNow))
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, "2026-03-04"},
		{"time value", time.Date(2022, 5, 6, 23, 59, 0, 0, time.UTC), "2022-05-06"},
		{"bare date", "2021-07-08", "2021-07-08"},
		{"iso with time", "2021-07-08T23:10:00+02:00", "2021-07-08"},
		{"date and space time", "2021-07-08 09:00:00", "2021-07-08"},
		{"other layout", "July 8, 2021", "2021-07-08"},
		{"garbage", "not a date", "2026-03-04"},
		{"empty string", "  ", "2026-03-04"},
		{"number", 42, "2026-03-04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.normalizeDate(tt.in, "f.md"))
		})
	}
}

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"simple-slug", "simple-slug"},
		{"it's", "it%27s"},
		{"a b", "a%20b"},
		{"a&b=c", "a%26b%3Dc"},
		{"keep_.!~*()", "keep_.!~*()"},
		{"über", "%C3%BCber"},
		{"a/b", "a%2Fb"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeComponent(tt.in))
		})
	}
}

func TestTitleFromSlug(t *testing.T) {
	c := cases.Title(language.English)
	assert.Equal(t, "My First Post", TitleFromSlug(c, "my-first_post"))
	assert.Equal(t, "Auth", TitleFromSlug(c, "auth"))
}
