// Package export renders stored papers in BibTeX format.
package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/matsen/citegraph/internal/graph"
)

// ToBibTeX converts a stored paper to a BibTeX entry.
func ToBibTeX(p graph.PaperRecord) string {
	entryType := determineEntryType(p)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, citeKey(p)))

	if len(p.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(p.Authors)))
	}

	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(p.Title)))

	if p.Venue != nil && p.Venue.Name != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(p.Venue.Name)))
	}

	if p.Year > 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", p.Year))
	}

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple papers to BibTeX format.
func ToBibTeXList(papers []graph.PaperRecord) string {
	var entries []string
	for _, p := range papers {
		entries = append(entries, ToBibTeX(p))
	}
	return strings.Join(entries, "\n")
}

// citeKey generates a citation key: first author's last name + year, or the
// paper id when no author is stored.
func citeKey(p graph.PaperRecord) string {
	if len(p.Authors) == 0 {
		return sanitizeKey(p.PaperID)
	}

	parts := strings.Fields(p.Authors[0].Name)
	last := parts[len(parts)-1]
	if p.Year > 0 {
		return fmt.Sprintf("%s%d", sanitizeKey(last), p.Year)
	}
	return sanitizeKey(last)
}

// sanitizeKey removes non-alphanumeric characters from a citation key.
func sanitizeKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// determineEntryType returns the BibTeX entry type for a paper.
func determineEntryType(p graph.PaperRecord) string {
	if p.Venue == nil {
		return "article"
	}
	venue := strings.ToLower(p.Venue.Name)

	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}

	return "article"
}

// formatAuthors formats authors in BibTeX style: "Name and Name".
func formatAuthors(authors []graph.AuthorRecord) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, a.Name)
	}
	return strings.Join(names, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
