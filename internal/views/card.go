package views

import (
	"net/url"

	"git.home.luguber.info/inful/recipebook/internal/content"
	"git.home.luguber.info/inful/recipebook/internal/recipes"
)

// Card is the listing summary of one recipe.
type Card struct {
	Key         string
	Title       string
	Slug        string
	CookingTime int
	Thumbnail   recipes.Image
}

// Href is the detail route of the card.
func (c Card) Href() string {
	return DetailPath(c.Slug)
}

// DetailPath returns the route of a recipe detail page.
func DetailPath(slug string) string {
	return "/recipes/" + url.PathEscape(slug)
}

// CardsFromRecords maps records to cards keyed by record id, keeping order.
func CardsFromRecords(records []content.Record) []Card {
	cards := make([]Card, 0, len(records))
	for _, r := range records {
		c := Card{Key: r.ID, Thumbnail: recipes.ImageField(r, recipes.FieldThumbnail)}
		c.Title, _ = r.String(recipes.FieldTitle)
		c.Slug, _ = r.String(recipes.FieldSlug)
		c.CookingTime, _ = r.Int(recipes.FieldCookingTime)
		cards = append(cards, c)
	}
	return cards
}
