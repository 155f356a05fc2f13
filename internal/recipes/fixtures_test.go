package recipes

import (
	"git.home.luguber.info/inful/recipebook/internal/content"
)

func recipeRecord(id, slug, title string, ingredients ...string) content.Record {
	ings := make([]any, len(ingredients))
	for i, s := range ingredients {
		ings[i] = s
	}
	return content.Record{
		ID:          id,
		ContentType: "recipe",
		Fields: map[string]any{
			FieldSlug:        slug,
			FieldTitle:       title,
			FieldCookingTime: float64(30),
			FieldIngredients: ings,
			FieldFeaturedImage: map[string]any{
				"sys": map[string]any{"id": "img-" + id, "type": "Asset"},
				"fields": map[string]any{
					"file": map[string]any{
						"url": "//images.example/" + slug + ".jpg",
						"details": map[string]any{
							"image": map[string]any{"width": float64(1200), "height": float64(800)},
						},
					},
				},
			},
			FieldMethod: map[string]any{
				"nodeType": "document",
				"content": []any{
					map[string]any{
						"nodeType": "paragraph",
						"content": []any{
							map[string]any{"nodeType": "text", "value": "Bake it.", "marks": []any{}},
						},
					},
				},
			},
		},
	}
}
