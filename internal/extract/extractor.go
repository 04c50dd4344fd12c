// Package extract slices raw page text into reference lines and parses
// them into structured references.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matsen/citegraph/internal/reference"
)

// Marker patterns checked against the start of each physical line, in
// priority order. A bracketed or numbered marker carries the bibliography
// index; bullets do not.
var (
	bracketedMarker = regexp.MustCompile(`^\s*\[(\d+)\]\s*`)
	numberedMarker  = regexp.MustCompile(`^\s*(\d{1,3})\.\s+`)
	bulletMarker    = regexp.MustCompile(`^\s*[•*‣-]\s+`)
)

// matchMarker returns the marker match for a line, its captured index
// (0 if the marker carries none), and whether a marker was found.
func matchMarker(line string) (rest string, index int, ok bool) {
	if m := bracketedMarker.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		return line[len(m[0]):], n, true
	}
	if m := numberedMarker.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		return line[len(m[0]):], n, true
	}
	if m := bulletMarker.FindString(line); m != "" {
		return line[len(m):], 0, true
	}
	return "", 0, false
}

// ExtractLines splits the given page texts into individual reference lines.
// Pages are concatenated in order. A reference starts at a marker and spans
// physical lines until the next marker. When no marker appears anywhere,
// every non-blank line is treated as one reference.
func ExtractLines(pages []string) []reference.RawLine {
	text := strings.Join(pages, "\n")
	lines := strings.Split(text, "\n")

	// First pass: does any line carry a marker?
	hasMarkers := false
	for _, line := range lines {
		if _, _, ok := matchMarker(line); ok {
			hasMarkers = true
			break
		}
	}

	if !hasMarkers {
		return extractNonBlank(lines)
	}

	var refs []reference.RawLine
	var current *reference.RawLine
	position := 0

	for _, line := range lines {
		rest, index, ok := matchMarker(line)
		if ok {
			if current != nil {
				current.Text = strings.TrimSpace(current.Text)
				refs = append(refs, *current)
			}
			position++
			if index == 0 {
				index = position
			}
			current = &reference.RawLine{Index: index, Text: rest}
			continue
		}
		// Continuation of the current reference. Text before the first
		// marker (section heading, page header) is dropped.
		if current != nil && strings.TrimSpace(line) != "" {
			current.Text += " " + strings.TrimSpace(line)
		}
	}
	if current != nil {
		current.Text = strings.TrimSpace(current.Text)
		refs = append(refs, *current)
	}

	return refs
}

// extractNonBlank implements the no-marker fallback: one reference per
// non-blank line, indexed by position.
func extractNonBlank(lines []string) []reference.RawLine {
	var refs []reference.RawLine
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		refs = append(refs, reference.RawLine{Index: len(refs) + 1, Text: line})
	}
	return refs
}
