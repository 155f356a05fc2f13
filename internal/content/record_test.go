package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func recipe(id, slug string) Record {
	return Record{ID: id, ContentType: "recipe", Fields: map[string]any{"slug": slug, "title": "T " + id}}
}

func TestRecordAccessors(t *testing.T) {
	r := Record{Fields: map[string]any{
		"title":       "Pasta bake",
		"cookingTime": float64(34.6),
		"ingredients": []any{"pasta", 3.0, "cheese"},
		"featuredImage": map[string]any{
			"fields": map[string]any{"file": map[string]any{"url": "//images/x.jpg"}},
		},
	}}

	title, ok := r.String("title")
	require.True(t, ok)
	require.Equal(t, "Pasta bake", title)

	minutes, ok := r.Int("cookingTime")
	require.True(t, ok)
	require.Equal(t, 35, minutes)

	ings, ok := r.Strings("ingredients")
	require.True(t, ok)
	require.Equal(t, []string{"pasta", "cheese"}, ings)

	img, ok := r.Object("featuredImage")
	require.True(t, ok)
	url, ok := Lookup(img, "fields", "file", "url")
	require.True(t, ok)
	require.Equal(t, "//images/x.jpg", url)

	_, ok = Lookup(img, "fields", "missing", "url")
	require.False(t, ok)
	_, ok = r.String("cookingTime")
	require.False(t, ok)
}

func TestMemorySource_FiltersAndOrder(t *testing.T) {
	src := NewMemorySource(
		recipe("1", "pasta-bake"),
		Record{ID: "a", ContentType: "author", Fields: map[string]any{"slug": "pasta-bake"}},
		recipe("2", "lemon-cake"),
		recipe("3", "pasta-bake"),
	)
	ctx := context.Background()

	all, err := src.Query(ctx, Query{ContentType: "recipe"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"1", "2", "3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	matches, err := src.Query(ctx, Query{ContentType: "recipe", Fields: map[string]string{"slug": "pasta-bake"}})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "1", matches[0].ID)

	none, err := src.Query(ctx, Query{ContentType: "recipe", Fields: map[string]string{"slug": "missing"}})
	require.NoError(t, err)
	require.Empty(t, none)
	require.EqualValues(t, 3, src.Queries())
}

func TestMemorySource_Failure(t *testing.T) {
	src := NewMemorySource(recipe("1", "a"))
	boom := errors.New("service unavailable")
	src.FailWith(boom)

	_, err := src.Query(context.Background(), Query{ContentType: "recipe"})
	require.ErrorIs(t, err, boom)

	src.FailWith(nil)
	got, err := src.Query(context.Background(), Query{ContentType: "recipe"})
	require.NoError(t, err)
	require.Len(t, got, 1)
}
