// Package decklist reads plain-text precon decklists.
//
// A decklist holds one card per line in the form
//
//	1x Sol Ring (cmm) 410
//
// The quantity, set code and collector number are optional. The deck name is
// the file name without its final extension.
package decklist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Ext is the extension of decklist files.
const Ext = ".txt"

// Entry is one parsed decklist line.
type Entry struct {
	Quantity        int
	Name            string
	SetInfo         string // e.g. "cmm", without parentheses
	CollectorNumber string
}

// Deck is a parsed decklist file.
type Deck struct {
	Name    string
	Path    string
	Entries []Entry
}

// Names returns the card names of the deck in file order, de-duplicated.
func (d *Deck) Names() []string {
	seen := make(map[string]bool, len(d.Entries))
	names := make([]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		names = append(names, e.Name)
	}
	return names
}

// Group 1: quantity, group 2: card name, group 3: set info, group 4: collector number.
// The name ends at the first " (". Anything after the collector number, such
// as a foil marker or a category, is ignored.
var lineRegex = regexp.MustCompile(`^(?:(\d+)x?\s+)?(.+?)(?:\s+\(([^)]*)\)(?:\s+([^\s*\[]\S*))?.*)?$`)

// ParseLine parses a single decklist line. It returns false for blank lines
// and lines without a card name.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}

	m := lineRegex.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}

	entry := Entry{
		Quantity:        1,
		Name:            strings.TrimSpace(m[2]),
		SetInfo:         strings.TrimSpace(m[3]),
		CollectorNumber: m[4],
	}
	if m[1] != "" {
		if q, err := strconv.Atoi(m[1]); err == nil {
			entry.Quantity = q
		}
	}
	if entry.Name == "" {
		return Entry{}, false
	}

	return entry, true
}

// Parse reads decklist lines from r.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if entry, ok := ParseLine(scanner.Text()); ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read decklist: %w", err)
	}

	return entries, nil
}

// DeckName returns the deck name for a decklist path.
func DeckName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// ParseFile reads and parses a decklist file.
func ParseFile(path string) (*Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open decklist: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Deck{
		Name:    DeckName(path),
		Path:    path,
		Entries: entries,
	}, nil
}

// ListFiles returns the regular, non-hidden files in dir sorted by name.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read decklist directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	return files, nil
}

// PathFor returns the file a named deck is read from.
func PathFor(dir, deck string) string {
	return filepath.Join(dir, deck+Ext)
}
