package index

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Bitlatte/docindex/internal/model"
)

func articles() []model.ContentRecord {
	return []model.ContentRecord{
		{Title: "zeta", Date: "2024-01-02", Slug: "zeta", Path: "/articles/zeta", Tags: []string{}},
		{Title: "Alpha", Date: "2024-03-01", Slug: "alpha", Path: "/articles/alpha", Tags: []string{"a"}},
		{Title: "émile", Date: "2024-01-02", Slug: "emile", Path: "/articles/emile", Tags: []string{}},
		{Title: "beta", Date: "2023-12-31", Slug: "beta", Path: "/articles/beta", Tags: []string{}},
		{Title: "Gamma", Date: "2024-01-02", Slug: "gamma", Path: "/articles/gamma", Tags: []string{}},
	}
}

func slugs(rs []model.ContentRecord) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Slug
	}
	return out
}

func TestRecentIsPrefix(t *testing.T) {
	full := articles()
	for _, n := range []int{-1, 0, 1, 3, 5, 9} {
		got := Recent(full, n)
		want := n
		if want < 0 {
			want = 0
		}
		if want > len(full) {
			want = len(full)
		}
		require.Len(t, got, want, "n=%d", n)
		assert.Equal(t, full[:want], got)
	}
}

func TestAlphabeticalUsesCollation(t *testing.T) {
	full := articles()
	got := Alphabetical(full, contentTitle, language.English)
	assert.Equal(t, []string{"alpha", "beta", "emile", "gamma", "zeta"}, slugs(got))
	assert.ElementsMatch(t, full, got)

	c := collate.New(language.English)
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
		return c.CompareString(got[i].Title, got[j].Title) < 0
	}))
	assert.Equal(t, "zeta", full[0].Slug, "input untouched")
}

func TestChronologicalIsStable(t *testing.T) {
	full := articles()
	got := Chronological(full, contentDate)
	assert.Equal(t, []string{"alpha", "zeta", "emile", "gamma", "beta"}, slugs(got))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Date, got[i].Date)
	}
}

func TestBuildWritesArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public", "data")
	b := NewBuilder(dir, language.English, nil, nil)

	v := Build(b, Articles(2), articles())
	assert.Zero(t, v.WriteErrors)
	assert.Len(t, v.Recent, 2)
	assert.NotNil(t, v.Chronological)

	full, err := Read[model.ContentRecord](filepath.Join(dir, ArticlesFull))
	require.NoError(t, err)
	assert.Equal(t, v.Full, full)

	recent, err := Read[model.ContentRecord](filepath.Join(dir, ArticlesRecent))
	require.NoError(t, err)
	assert.Equal(t, v.Recent, recent)

	byDate, err := Read[model.ContentRecord](filepath.Join(dir, ArticlesChronological))
	require.NoError(t, err)
	assert.Equal(t, v.Chronological, byDate)

	_, err = os.Stat(filepath.Join(dir, PluginsAlphabetical))
	assert.True(t, os.IsNotExist(err), "articles do not write an alphabetical artifact")
}

func TestBuildPlugins(t *testing.T) {
	dir := t.TempDir()
	plugins := []model.PluginRecord{
		{Name: "cakedc/users", Title: "Users", Slug: "users", Path: "/plugins/users"},
		{Name: "cakedc/auth", Title: "Auth", Slug: "auth", Path: "/plugins/auth"},
	}
	v := Build(NewBuilder(dir, language.English, nil, nil), Plugins(1), plugins)
	assert.Nil(t, v.Chronological)
	assert.Equal(t, "Auth", v.Alphabetical[0].Title)

	alpha, err := Read[model.PluginRecord](filepath.Join(dir, PluginsAlphabetical))
	require.NoError(t, err)
	assert.Equal(t, v.Alphabetical, alpha)

	recent, err := Read[model.PluginRecord](filepath.Join(dir, PluginsRecent))
	require.NoError(t, err)
	assert.Equal(t, plugins[:1], recent)

	_, err = os.Stat(filepath.Join(dir, ArticlesChronological))
	assert.True(t, os.IsNotExist(err))
}

func TestBuildIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, language.English, nil, nil)

	Build(b, Articles(3), articles())
	first, err := os.ReadFile(filepath.Join(dir, ArticlesFull))
	require.NoError(t, err)

	Build(b, Articles(3), articles())
	second, err := os.ReadFile(filepath.Join(dir, ArticlesFull))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temp files left behind")
}

func TestBuildEmptyWritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	Build(NewBuilder(dir, language.English, nil, nil), Articles(5), nil)

	data, err := os.ReadFile(filepath.Join(dir, ArticlesFull))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestBuildReturnsViewsWhenWritesFail(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o644))

	v := Build(NewBuilder(blocker, language.English, nil, nil), Articles(2), articles())
	assert.Equal(t, 3, v.WriteErrors)
	assert.Len(t, v.Full, 5)
	assert.Len(t, v.Recent, 2)
}

func TestEncodeKeepsHTMLCharacters(t *testing.T) {
	data, err := Encode([]model.PluginRecord{{Title: "A & B <c>"}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "A & B <c>"`)
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Read[model.ContentRecord](filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Read[model.ContentRecord](bad)
	assert.Error(t, err)
}
