// Package s2 provides a client for the Semantic Scholar Academic Graph API.
package s2

// Paper is the canonical paper record returned by the API.
type Paper struct {
	PaperID       string   `json:"paperId"`
	Title         string   `json:"title"`
	Abstract      string   `json:"abstract,omitempty"`
	Authors       []Author `json:"authors,omitempty"`
	Year          int      `json:"year,omitempty"`
	Venue         string   `json:"venue,omitempty"`
	PubVenue      *Venue   `json:"publicationVenue,omitempty"`
	CitationCount int      `json:"citationCount,omitempty"`
	RefCount      int      `json:"referenceCount,omitempty"`
	MatchScore    float64  `json:"matchScore,omitempty"` // Only on /paper/search/match results
}

// Author is a paper author as returned by the API.
type Author struct {
	AuthorID string `json:"authorId,omitempty"`
	Name     string `json:"name"`
}

// Venue is a publication venue as returned by the API.
type Venue struct {
	VenueID string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
}

// CitationEntry is one item in a citations or references page. Exactly one
// of CitingPaper/CitedPaper is set depending on the endpoint.
type CitationEntry struct {
	CitingPaper *Paper `json:"citingPaper,omitempty"`
	CitedPaper  *Paper `json:"citedPaper,omitempty"`
}

// CitationsPage is one page of the citations or references endpoint.
// Next is the offset of the following page; the API omits it on the last
// page, so a nil Next means end of results.
type CitationsPage struct {
	Offset int             `json:"offset"`
	Next   *int            `json:"next,omitempty"`
	Data   []CitationEntry `json:"data"`
}

// SearchPage is one page of the paper search endpoint.
type SearchPage struct {
	Total  int     `json:"total"`
	Offset int     `json:"offset"`
	Data   []Paper `json:"data"`
}

// PaperIdentifier is a parsed paper identifier.
type PaperIdentifier struct {
	Type  string // DOI, ARXIV, PMID, PMCID, CorpusId, URL, S2, LOCAL
	Value string
}

// String returns the API format for the identifier.
func (p PaperIdentifier) String() string {
	if p.Type == "S2" {
		return p.Value // Raw S2 id needs no prefix
	}
	return p.Type + ":" + p.Value
}

// IsExternalID returns true if the identifier names a paper in the external
// API rather than a local record.
func (p PaperIdentifier) IsExternalID() bool {
	return p.Type != "LOCAL"
}
