package views

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/recipebook/internal/config"
	"git.home.luguber.info/inful/recipebook/internal/content"
	"git.home.luguber.info/inful/recipebook/internal/recipes"
	"git.home.luguber.info/inful/recipebook/internal/richtext"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(config.SiteConfig{Title: "Just Add Marmite", Tagline: "Spread the joy"})
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func parse(t *testing.T, page []byte) *html.Node {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(page))
	require.NoError(t, err)
	return doc
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// findAll collects element nodes matching pred in document order.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func cards(doc *html.Node) []*html.Node {
	return findAll(doc, func(n *html.Node) bool {
		_, ok := attr(n, "data-key")
		return ok
	})
}

func record(id, slug, title string) content.Record {
	return content.Record{
		ID:          id,
		ContentType: "recipe",
		Fields: map[string]any{
			recipes.FieldSlug:        slug,
			recipes.FieldTitle:       title,
			recipes.FieldCookingTime: float64(25),
			recipes.FieldThumbnail: map[string]any{
				"fields": map[string]any{
					"file": map[string]any{
						"url":     "//images.example/" + slug + "-thumb.jpg",
						"details": map[string]any{"image": map[string]any{"width": float64(300), "height": float64(200)}},
					},
				},
			},
		},
	}
}

func TestRenderListing(t *testing.T) {
	t.Run("one card per record in order", func(t *testing.T) {
		r := newTestRenderer(t)
		page, err := r.RenderListing([]content.Record{
			record("id-2", "stew", "Stew"),
			record("id-1", "pasta-bake", "Pasta Bake"),
		})
		require.NoError(t, err)

		found := cards(parse(t, page))
		require.Len(t, found, 2)
		k0, _ := attr(found[0], "data-key")
		k1, _ := attr(found[1], "data-key")
		require.Equal(t, "id-2", k0)
		require.Equal(t, "id-1", k1)

		links := findAll(found[1], func(n *html.Node) bool { return n.Data == "a" })
		require.Len(t, links, 1)
		href, _ := attr(links[0], "href")
		require.Equal(t, "/recipes/pasta-bake", href)
		require.Contains(t, textContent(found[1]), "Takes approx 25 mins to make")

		imgs := findAll(found[1], func(n *html.Node) bool { return n.Data == "img" })
		require.Len(t, imgs, 1)
		src, _ := attr(imgs[0], "src")
		require.Equal(t, "https://images.example/pasta-bake-thumb.jpg", src)
	})

	t.Run("empty listing has no cards", func(t *testing.T) {
		page, err := newTestRenderer(t).RenderListing(nil)
		require.NoError(t, err)
		doc := parse(t, page)
		require.Empty(t, cards(doc))
		require.Len(t, findAll(doc, func(n *html.Node) bool { return hasClass(n, "recipe-list") }), 1)
	})

	t.Run("layout carries grid styling and site header", func(t *testing.T) {
		page, err := newTestRenderer(t).RenderListing(nil)
		require.NoError(t, err)
		require.Contains(t, string(page), "grid-gap: 20px 60px")
		require.Contains(t, string(page), "Spread the joy")
		require.Contains(t, string(page), "Copyright 2021 Just Add Marmite")
	})

	t.Run("titles are escaped", func(t *testing.T) {
		page, err := newTestRenderer(t).RenderListing([]content.Record{record("1", "x", "<b>Bold</b>")})
		require.NoError(t, err)
		require.NotContains(t, string(page), "<b>Bold</b>")
		require.Contains(t, string(page), "&lt;b&gt;Bold&lt;/b&gt;")
	})
}

func TestRenderDetail(t *testing.T) {
	detail := &recipes.Detail{
		ID:          "1",
		Slug:        "pasta-bake",
		Title:       "Pasta Bake",
		CookingTime: 40,
		Ingredients: []string{"pasta", "cheese"},
		Method: &richtext.Node{Kind: richtext.KindDocument, Children: []*richtext.Node{
			{Kind: richtext.KindParagraph, Children: []*richtext.Node{{Kind: richtext.KindText, Value: "Bake it."}}},
		}},
		Image: recipes.Image{URL: "//images.example/pasta.jpg", Width: 1200, Height: 800},
	}

	t.Run("renders a ready recipe", func(t *testing.T) {
		page, err := newTestRenderer(t).RenderDetail(Ready(detail))
		require.NoError(t, err)
		doc := parse(t, page)

		ingredients := findAll(doc, func(n *html.Node) bool { return hasClass(n, "ingredients") })
		require.Len(t, ingredients, 1)
		require.Equal(t, "pasta, cheese.", textContent(ingredients[0]))
		spans := findAll(ingredients[0], func(n *html.Node) bool { return n.Data == "span" })
		require.Len(t, spans, 2)

		imgs := findAll(doc, func(n *html.Node) bool { return n.Data == "img" })
		require.Len(t, imgs, 1)
		src, _ := attr(imgs[0], "src")
		width, _ := attr(imgs[0], "width")
		height, _ := attr(imgs[0], "height")
		require.Equal(t, "https://images.example/pasta.jpg", src)
		require.Equal(t, "1200", width)
		require.Equal(t, "800", height)

		require.Contains(t, string(page), "<title>Pasta Bake | Just Add Marmite</title>")
		require.Contains(t, string(page), "Takes about 40 mins to cook.")
		require.Contains(t, string(page), "<p>Bake it.</p>")
		require.NotContains(t, string(page), "http-equiv")
	})

	t.Run("missing image and ingredients", func(t *testing.T) {
		page, err := newTestRenderer(t).RenderDetail(Ready(&recipes.Detail{Slug: "bare", Title: "Bare"}))
		require.NoError(t, err)
		doc := parse(t, page)
		require.Empty(t, findAll(doc, func(n *html.Node) bool { return n.Data == "img" }))
		ingredients := findAll(doc, func(n *html.Node) bool { return hasClass(n, "ingredients") })
		require.Len(t, ingredients, 1)
		require.Empty(t, textContent(ingredients[0]))
	})

	t.Run("pending renders placeholder", func(t *testing.T) {
		page, err := newTestRenderer(t).RenderDetail(Pending("pasta-bake"))
		require.NoError(t, err)

		doc := parse(t, page)
		require.Len(t, findAll(doc, func(n *html.Node) bool { return hasClass(n, "skeleton") }), 1)
		metas := findAll(doc, func(n *html.Node) bool {
			v, _ := attr(n, "http-equiv")
			return n.Data == "meta" && v == "refresh"
		})
		require.Len(t, metas, 1)
		require.Empty(t, findAll(doc, func(n *html.Node) bool { return hasClass(n, "ingredients") }))
	})
}

func TestRenderNotFound(t *testing.T) {
	page, err := newTestRenderer(t).RenderNotFound()
	require.NoError(t, err)
	require.Contains(t, string(page), "cannot be found")
}

func TestDetailInput(t *testing.T) {
	require.True(t, Pending("x").IsPending())
	require.False(t, Ready(&recipes.Detail{}).IsPending())
}
