package extract

import (
	"regexp"
	"strings"

	"github.com/matsen/citegraph/internal/reference"
)

// parseRule pairs a matcher with a field mapping. Rules are evaluated in
// order and the first whose pattern matches wins, so structured patterns
// (quoted title, explicit year in parentheses) must come before the loose
// dot-split catch-all.
type parseRule struct {
	name    string
	pattern *regexp.Regexp
}

var parseRules = []parseRule{
	{
		// Authors (Year). "Title". Venue[, pages/volume].
		name:    "quoted-title",
		pattern: regexp.MustCompile(`^(?P<authors>.+?)\s*\((?P<year>[^)]+)\)[.:]?\s*[“"](?P<title>[^”"]+)[”"][.,]?\s*(?P<venue>[^,.]+)(?:[.,]+\s*(?P<rest>.*?))?[.\s]*$`),
	},
	{
		// Authors (Year). Title. Venue[, pages/volume].
		name:    "paren-year",
		pattern: regexp.MustCompile(`^(?P<authors>.+?)\s*\((?P<year>[^)]+)\)[.:]?\s*(?P<title>[^.]+)\.\s*(?P<venue>[^,.]+)(?:[.,]+\s*(?P<rest>.*?))?[.\s]*$`),
	},
	{
		// Authors. Year. Title. Venue[, pages/volume].
		name:    "dot-split",
		pattern: regexp.MustCompile(`^(?P<authors>.+?)[.,]\s*(?P<year>\d{4}(?:\s*[-–]\s*\d{4})?)\.\s*(?P<title>.+?)\.\s*(?P<venue>[^,.]+)(?:[.,]+\s*(?P<rest>.*?))?[.\s]*$`),
	},
}

// yearPattern extracts the first four-digit year from a year field, which
// may be a range ("2019-2020") or a non-numeric form ("n.d.", "in press").
var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// ParseLine parses one raw reference line into a StructuredReference.
// A line no rule matches yields a reference with an empty Title and the
// raw text preserved; parsing never fails hard.
func ParseLine(line reference.RawLine) reference.StructuredReference {
	text := strings.Join(strings.Fields(line.Text), " ")

	for _, rule := range parseRules {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		fields := captureMap(rule.pattern, m)
		return reference.StructuredReference{
			ID:           line.Index,
			Title:        strings.TrimSpace(fields["title"]),
			Authors:      strings.TrimSpace(fields["authors"]),
			Venue:        strings.TrimSpace(fields["venue"]),
			Year:         parseYear(fields["year"]),
			PageOrVolume: strings.TrimSpace(fields["rest"]),
			Raw:          line.Text,
		}
	}

	return reference.StructuredReference{
		ID:  line.Index,
		Raw: line.Text,
	}
}

// ParseAll parses every raw line, preserving order. Unparseable lines are
// kept (with empty titles) so callers can report them.
func ParseAll(lines []reference.RawLine) []reference.StructuredReference {
	refs := make([]reference.StructuredReference, 0, len(lines))
	for _, line := range lines {
		refs = append(refs, ParseLine(line))
	}
	return refs
}

// parseYear returns the first four-digit year in the field, or empty when
// the field is ambiguous or non-numeric ("n.d.", "forthcoming").
func parseYear(field string) string {
	if m := yearPattern.FindStringSubmatch(field); m != nil {
		return m[1]
	}
	return ""
}

// captureMap maps named capture groups to their submatches.
func captureMap(re *regexp.Regexp, match []string) map[string]string {
	fields := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(match) {
			fields[name] = match[i]
		}
	}
	return fields
}
