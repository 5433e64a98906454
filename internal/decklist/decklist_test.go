package decklist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  Entry
		valid bool
	}{
		{
			name:  "full line",
			line:  "1x Sol Ring (cmm) 410",
			want:  Entry{Quantity: 1, Name: "Sol Ring", SetInfo: "cmm", CollectorNumber: "410"},
			valid: true,
		},
		{
			name:  "quantity without x",
			line:  "10 Forest (m21) 274",
			want:  Entry{Quantity: 10, Name: "Forest", SetInfo: "m21", CollectorNumber: "274"},
			valid: true,
		},
		{
			name:  "no set info",
			line:  "1x Command Tower",
			want:  Entry{Quantity: 1, Name: "Command Tower"},
			valid: true,
		},
		{
			name:  "no quantity",
			line:  "Arcane Signet (c21)",
			want:  Entry{Quantity: 1, Name: "Arcane Signet", SetInfo: "c21"},
			valid: true,
		},
		{
			name:  "name containing x and space",
			line:  "1x Phoenix Chick (dmu) 140",
			want:  Entry{Quantity: 1, Name: "Phoenix Chick", SetInfo: "dmu", CollectorNumber: "140"},
			valid: true,
		},
		{
			name:  "foil marker after collector number",
			line:  "1x Sol Ring (cmm) 410 *F*",
			want:  Entry{Quantity: 1, Name: "Sol Ring", SetInfo: "cmm", CollectorNumber: "410"},
			valid: true,
		},
		{
			name:  "category after collector number",
			line:  "1x Sol Ring (CMM) 410 [Ramp]",
			want:  Entry{Quantity: 1, Name: "Sol Ring", SetInfo: "CMM", CollectorNumber: "410"},
			valid: true,
		},
		{
			name:  "marker without collector number",
			line:  "2 Arcane Signet (c21) *F*",
			want:  Entry{Quantity: 2, Name: "Arcane Signet", SetInfo: "c21"},
			valid: true,
		},
		{
			name:  "split card",
			line:  "1x Fire // Ice (mh2) 290",
			want:  Entry{Quantity: 1, Name: "Fire // Ice", SetInfo: "mh2", CollectorNumber: "290"},
			valid: true,
		},
		{
			name:  "surrounding whitespace",
			line:  "  2x Swords to Plowshares (cmr) 51  \r",
			want:  Entry{Quantity: 2, Name: "Swords to Plowshares", SetInfo: "cmr", CollectorNumber: "51"},
			valid: true,
		},
		{name: "blank", line: "   ", valid: false},
		{name: "empty", line: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"1x Sol Ring (cmm) 410",
		"",
		"1x Command Tower (cmm) 1000",
		"1x Sol Ring (cmm) 410",
	}, "\n")

	entries, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	deck := &Deck{Entries: entries}
	assert.Equal(t, []string{"Sol Ring", "Command Tower"}, deck.Names())
}

func TestDeckName(t *testing.T) {
	assert.Equal(t, "Blame Game", DeckName("/decks/Blame Game.txt"))
	assert.Equal(t, "deck.v2", DeckName("deck.v2.txt"))
	assert.Equal(t, "plain", DeckName("plain"))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Grand Larceny.txt")
	require.NoError(t, os.WriteFile(path, []byte("1x Sol Ring (cmm) 410\n1x Island (one) 1\n"), 0o644))

	deck, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Grand Larceny", deck.Name)
	assert.Equal(t, path, deck.Path)
	assert.Equal(t, []string{"Sol Ring", "Island"}, deck.Names())
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", ".hidden.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	files, err := ListFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}, files)
}

func TestListFilesMissingDir(t *testing.T) {
	_, err := ListFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("decklists", "Deck.txt"), PathFor("decklists", "Deck"))
}
