// Package models defines the rows stored in and read from the precon database.
package models

// Card is a single Magic card, keyed by its unique name.
// Cards are written once during ingestion and never mutated.
type Card struct {
	Name     string
	CMC      int
	TypeLine string
	ImageURL string // empty when Scryfall has no image
}

// DeckCard records that a card is part of a deck.
type DeckCard struct {
	CardName string
	DeckName string
}

// Card type vocabulary. Only these words are stored in card_types.
const (
	TypeCreature     = "creature"
	TypeInstant      = "instant"
	TypeSorcery      = "sorcery"
	TypeEnchantment  = "enchantment"
	TypeArtifact     = "artifact"
	TypePlaneswalker = "planeswalker"
	TypeLand         = "land"
	TypeBattle       = "battle"
)

// CardTypes lists the recognised type words in display order.
var CardTypes = []string{
	TypeCreature,
	TypeInstant,
	TypeSorcery,
	TypeEnchantment,
	TypeArtifact,
	TypePlaneswalker,
	TypeLand,
	TypeBattle,
}

// IsCardType reports whether word (lower case) is in the type vocabulary.
func IsCardType(word string) bool {
	for _, t := range CardTypes {
		if t == word {
			return true
		}
	}
	return false
}
