package recipes

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/recipebook/internal/content"
	"git.home.luguber.info/inful/recipebook/internal/richtext"
)

// Field names of the recipe content type.
const (
	FieldSlug          = "slug"
	FieldTitle         = "title"
	FieldCookingTime   = "cookingTime"
	FieldIngredients   = "ingredients"
	FieldMethod        = "method"
	FieldFeaturedImage = "featuredImage"
	FieldThumbnail     = "thumbnail"
)

// Image references an asset file.
type Image struct {
	URL    string // as stored, usually protocol-relative
	Width  int
	Height int
}

// Source returns the URL to use in markup.
func (i Image) Source() string {
	return content.AssetURL(i.URL)
}

// Detail is one recipe shaped for rendering. It is built fresh per fetch and not
// modified afterwards.
type Detail struct {
	ID          string
	Slug        string
	Title       string
	CookingTime int
	Ingredients []string
	Method      *richtext.Node
	Image       Image
	UpdatedAt   time.Time
}

// IngredientText joins ingredients with ", " and ends with a period.
func (d *Detail) IngredientText() string {
	return IngredientText(d.Ingredients)
}

// IngredientText joins ingredients with ", " and ends with a period. An empty list
// yields an empty string.
func IngredientText(ingredients []string) string {
	if len(ingredients) == 0 {
		return ""
	}
	return strings.Join(ingredients, ", ") + "."
}

// ImageField reads an asset reference from a resolved link field.
func ImageField(r content.Record, field string) Image {
	asset, ok := r.Object(field)
	if !ok {
		return Image{}
	}
	var img Image
	if u, ok := content.Lookup(asset, "fields", "file", "url"); ok {
		img.URL, _ = u.(string)
	}
	if w, ok := content.Lookup(asset, "fields", "file", "details", "image", "width"); ok {
		img.Width = toInt(w)
	}
	if h, ok := content.Lookup(asset, "fields", "file", "details", "image", "height"); ok {
		img.Height = toInt(h)
	}
	return img
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// shape builds a Detail from a recipe record. Missing fields stay zero-valued; the
// field set belongs to the content model, not to this package.
func shape(r content.Record) (*Detail, error) {
	d := &Detail{ID: r.ID, UpdatedAt: r.UpdatedAt}
	d.Slug, _ = r.String(FieldSlug)
	d.Title, _ = r.String(FieldTitle)
	d.CookingTime, _ = r.Int(FieldCookingTime)
	if ings, ok := r.Strings(FieldIngredients); ok {
		d.Ingredients = ings
	} else {
		d.Ingredients = []string{}
	}
	method, err := richtext.Decode(r.Fields[FieldMethod])
	if err != nil {
		return nil, err
	}
	d.Method = method
	d.Image = ImageField(r, FieldFeaturedImage)
	return d, nil
}
