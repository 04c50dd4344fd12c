package s2

import (
	"regexp"
	"strings"
)

// Identifier prefixes supported by Semantic Scholar.
var identifierPrefixes = []string{
	"DOI:",
	"ARXIV:",
	"PMID:",
	"PMCID:",
	"CorpusId:",
	"URL:",
}

// s2IDPattern matches a 40-character hex string (raw S2 paper id).
var s2IDPattern = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)

// ParsePaperID parses a paper identifier string into a PaperIdentifier.
// Supports prefixed forms (DOI:10.1038/nature12373, ARXIV:2106.15928,
// PMID:19872477, CorpusId:215416146), raw 40-character S2 ids, and falls
// back to LOCAL for anything else.
func ParsePaperID(id string) PaperIdentifier {
	id = strings.TrimSpace(id)

	for _, prefix := range identifierPrefixes {
		if strings.HasPrefix(strings.ToUpper(id), strings.ToUpper(prefix)) {
			return PaperIdentifier{
				Type:  strings.TrimSuffix(prefix, ":"),
				Value: id[len(prefix):],
			}
		}
	}

	if s2IDPattern.MatchString(id) {
		return PaperIdentifier{Type: "S2", Value: id}
	}

	return PaperIdentifier{Type: "LOCAL", Value: id}
}

// NormalizeDOI normalizes a DOI for comparison: strips URL and DOI:
// prefixes and lowercases.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	return strings.ToLower(doi)
}
