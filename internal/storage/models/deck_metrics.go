package models

// TagDeckCount is the number of cards in a deck carrying a tag.
type TagDeckCount struct {
	DeckName string `json:"deck_name"`
	TagName  string `json:"tag_name"`
	Count    int    `json:"tag_count"`
}

// DeckStats summarises a deck. Lands are excluded from TotalCards and AvgCMC.
type DeckStats struct {
	DeckName   string  `json:"deck_name"`
	TotalCards int     `json:"total_cards"`
	AvgCMC     float64 `json:"avg_cmc"`
	UniqueTags int     `json:"unique_tags"`
}

// CMCBucket is one bar of a deck's mana curve: the number of distinct
// non-land cards at a converted mana cost.
type CMCBucket struct {
	DeckName string `json:"deck_name"`
	CMC      int    `json:"cmc"`
	Count    int    `json:"total_cards"`
}

// Summary holds the headline counts shown on the dashboard.
type Summary struct {
	TotalCards  int `json:"total_cards"`
	TotalDecks  int `json:"total_decks"`
	TotalTags   int `json:"total_tags"`
	TaggedCards int `json:"unique_tagged_cards"`
}
