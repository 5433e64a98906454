package models

import "strings"

// EnrichedCard is a card joined with its types, tags and decks.
// The list fields are comma-joined and sorted so they can be filtered by
// substring, the way the dashboard's card browser does.
type EnrichedCard struct {
	Name     string `json:"card_name"`
	CMC      int    `json:"cmc"`
	TypeLine string `json:"type_line"`
	ImageURL string `json:"image_url"`
	Types    string `json:"card_types"`
	Tags     string `json:"card_tags"`
	Decks    string `json:"decks"`
}

// TypeList splits Types into its elements.
func (c *EnrichedCard) TypeList() []string {
	return splitList(c.Types)
}

// TagList splits Tags into its elements.
func (c *EnrichedCard) TagList() []string {
	return splitList(c.Tags)
}

// DeckList splits Decks into its elements.
func (c *EnrichedCard) DeckList() []string {
	return splitList(c.Decks)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
