package ingest

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// TagSpec maps a Scryfall search fragment to a tag name.
//
// A line of the form "<filter> -> <tag>" searches oracle text for filter and
// stores matches under tag. A bare line is treated as a Scryfall oracle tag.
type TagSpec struct {
	Filter string // oracle-text filter, empty for oracle tags
	Tag    string
}

// ParseTagSpec parses one tag list line.
func ParseTagSpec(line string) TagSpec {
	line = strings.TrimSpace(line)
	if filter, tag, ok := strings.Cut(line, "->"); ok {
		return TagSpec{
			Filter: strings.TrimSpace(filter),
			Tag:    strings.TrimSpace(tag),
		}
	}
	return TagSpec{Tag: line}
}

// Query returns the search query for the spec within a set.
func (s TagSpec) Query(set string) string {
	if s.Filter != "" {
		return fmt.Sprintf(`set:%s o:"%s"`, set, s.Filter)
	}
	return fmt.Sprintf(`set:%s otag:"%s"`, set, s.Tag)
}

// SetQuery returns the search query for every card in a set.
func SetQuery(set string) string {
	return "set:" + set
}

// LoadSetList reads a newline-delimited list of set codes.
func LoadSetList(path string) ([]string, error) {
	return readList(path)
}

// LoadTagList reads a newline-delimited list of tag specs.
func LoadTagList(path string) ([]TagSpec, error) {
	lines, err := readList(path)
	if err != nil {
		return nil, err
	}

	specs := make([]TagSpec, 0, len(lines))
	for _, line := range lines {
		spec := ParseTagSpec(line)
		if spec.Tag == "" {
			continue
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// readList returns the trimmed, non-blank lines of a file. Lines starting
// with '#' are comments.
func readList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open list %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read list %s: %w", path, err)
	}

	return lines, nil
}
