package ingest

import (
	"strings"

	"github.com/ramonehamilton/precon-stats/internal/storage/models"
)

// DeriveTypes returns the card types named in a type line, lower-cased and
// in order of first appearance. Supertypes, subtypes and separators are
// dropped.
func DeriveTypes(typeLine string) []string {
	var types []string
	seen := map[string]bool{}

	for _, word := range strings.Fields(typeLine) {
		word = strings.ToLower(word)
		if !models.IsCardType(word) || seen[word] {
			continue
		}
		seen[word] = true
		types = append(types, word)
	}

	return types
}
