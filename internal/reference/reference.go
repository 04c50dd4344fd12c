// Package reference defines the core domain types for bibliography entries.
package reference

import "strings"

// RawLine is a single reference-list entry sliced out of page text.
// Index is the bibliography position when a numbered marker was found,
// otherwise the 1-based position in extraction order.
type RawLine struct {
	Index int
	Text  string
}

// StructuredReference is the parsed form of one bibliography entry.
// An empty Title signals that parsing failed; Raw always preserves the
// original text for diagnostics.
type StructuredReference struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Authors      string `json:"authors"`
	Venue        string `json:"venue"`
	Year         string `json:"year"`
	PageOrVolume string `json:"page_or_volume,omitempty"`
	Raw          string `json:"raw,omitempty"`
}

// Parsed reports whether the reference was successfully parsed.
func (r StructuredReference) Parsed() bool {
	return r.Title != ""
}

// ParentPaper describes the seed paper supplied by the caller.
type ParentPaper struct {
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Year    string `json:"year"`
	Venue   string `json:"venue"`
	PaperID string `json:"paper_id,omitempty"` // External id if known (DOI:..., raw S2 id)
}

// NormalizeTitle lowercases a title and collapses it to space-separated
// alphanumeric tokens. Used as part of the secondary natural key for papers
// and for title-similarity comparison.
func NormalizeTitle(title string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
