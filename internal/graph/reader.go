package graph

import (
	"database/sql"
	"fmt"
)

// PaperRecord is a stored paper with its authors and venue attached.
type PaperRecord struct {
	PaperID       string         `json:"paper_id"`
	Title         string         `json:"title"`
	Year          int            `json:"year,omitempty"`
	CitationCount int            `json:"citation_count"`
	Abstract      string         `json:"abstract,omitempty"`
	Authors       []AuthorRecord `json:"authors,omitempty"`
	Venue         *VenueRecord   `json:"venue,omitempty"`
}

// AuthorRecord is a stored author.
type AuthorRecord struct {
	AuthorID string `json:"author_id"`
	Name     string `json:"name"`
}

// VenueRecord is a stored venue.
type VenueRecord struct {
	VenueID string `json:"venue_id"`
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
}

// CitesEdge is a stored CITES edge.
type CitesEdge struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// Coauthor is an author who shares papers with another author.
type Coauthor struct {
	AuthorID       string `json:"author_id"`
	Name           string `json:"name"`
	PapersTogether int    `json:"papers_together"`
}

// GetPaper returns a paper with its authors and venue, or nil if absent.
func (g *Graph) GetPaper(paperID string) (*PaperRecord, error) {
	row := g.db.QueryRow(`
		SELECT paper_id, title, year, citation_count, abstract
		FROM papers WHERE paper_id = ?
	`, paperID)

	p, err := scanPaper(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying paper %s: %w", paperID, err)
	}

	rows, err := g.db.Query(`
		SELECT a.author_id, a.name
		FROM authored_by ab JOIN authors a ON a.author_id = ab.author_id
		WHERE ab.paper_id = ?
		ORDER BY ab.author_order
	`, paperID)
	if err != nil {
		return nil, fmt.Errorf("querying authors of %s: %w", paperID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a AuthorRecord
		if err := rows.Scan(&a.AuthorID, &a.Name); err != nil {
			return nil, err
		}
		p.Authors = append(p.Authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var v VenueRecord
	var venueType sql.NullString
	err = g.db.QueryRow(`
		SELECT v.venue_id, v.name, v.venue_type
		FROM published_in pi JOIN venues v ON v.venue_id = pi.venue_id
		WHERE pi.paper_id = ?
	`, paperID).Scan(&v.VenueID, &v.Name, &venueType)
	if err == nil {
		v.Type = venueType.String
		p.Venue = &v
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("querying venue of %s: %w", paperID, err)
	}

	return p, nil
}

// AuthorPapers returns all papers by an author, newest first.
func (g *Graph) AuthorPapers(authorID string) ([]PaperRecord, error) {
	return g.queryPapers(`
		SELECT p.paper_id, p.title, p.year, p.citation_count, p.abstract
		FROM authored_by ab JOIN papers p ON p.paper_id = ab.paper_id
		WHERE ab.author_id = ?
		ORDER BY p.year DESC
	`, authorID)
}

// VenuePapers returns up to limit papers published in a venue, newest first.
func (g *Graph) VenuePapers(venueID string, limit int) ([]PaperRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	return g.queryPapers(`
		SELECT p.paper_id, p.title, p.year, p.citation_count, p.abstract
		FROM published_in pi JOIN papers p ON p.paper_id = pi.paper_id
		WHERE pi.venue_id = ?
		ORDER BY p.year DESC
		LIMIT ?
	`, venueID, limit)
}

// Coauthors returns authors who share papers with the given author,
// ordered by number of shared papers.
func (g *Graph) Coauthors(authorID string) ([]Coauthor, error) {
	rows, err := g.db.Query(`
		SELECT a2.author_id, a2.name, COUNT(DISTINCT ab1.paper_id) AS papers_together
		FROM authored_by ab1
		JOIN authored_by ab2 ON ab1.paper_id = ab2.paper_id AND ab1.author_id != ab2.author_id
		JOIN authors a2 ON a2.author_id = ab2.author_id
		WHERE ab1.author_id = ?
		GROUP BY a2.author_id, a2.name
		ORDER BY papers_together DESC
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("querying coauthors: %w", err)
	}
	defer rows.Close()

	var coauthors []Coauthor
	for rows.Next() {
		var c Coauthor
		if err := rows.Scan(&c.AuthorID, &c.Name, &c.PapersTogether); err != nil {
			return nil, err
		}
		coauthors = append(coauthors, c)
	}
	return coauthors, rows.Err()
}

// SearchByTitle returns papers whose title contains the term
// (case-insensitive), most-cited first.
func (g *Graph) SearchByTitle(term string, limit int) ([]PaperRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return g.queryPapers(`
		SELECT paper_id, title, year, citation_count, abstract
		FROM papers
		WHERE title LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY citation_count DESC
		LIMIT ?
	`, term, limit)
}

// AllPapers returns every stored paper, most-cited first.
func (g *Graph) AllPapers() ([]PaperRecord, error) {
	return g.queryPapers(`
		SELECT paper_id, title, year, citation_count, abstract
		FROM papers
		ORDER BY citation_count DESC
	`)
}

// AllCites returns every CITES edge.
func (g *Graph) AllCites() ([]CitesEdge, error) {
	rows, err := g.db.Query("SELECT source_id, target_id FROM cites ORDER BY source_id, target_id")
	if err != nil {
		return nil, fmt.Errorf("querying cites edges: %w", err)
	}
	defer rows.Close()

	var edges []CitesEdge
	for rows.Next() {
		var e CitesEdge
		if err := rows.Scan(&e.SourceID, &e.TargetID); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Counts returns the number of paper nodes and CITES edges.
func (g *Graph) Counts() (papers, cites int, err error) {
	if err = g.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&papers); err != nil {
		return 0, 0, fmt.Errorf("counting papers: %w", err)
	}
	if err = g.db.QueryRow("SELECT COUNT(*) FROM cites").Scan(&cites); err != nil {
		return 0, 0, fmt.Errorf("counting cites: %w", err)
	}
	return papers, cites, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (*PaperRecord, error) {
	var p PaperRecord
	var year sql.NullInt64
	var abstract sql.NullString
	if err := row.Scan(&p.PaperID, &p.Title, &year, &p.CitationCount, &abstract); err != nil {
		return nil, err
	}
	p.Year = int(year.Int64)
	p.Abstract = abstract.String
	return &p, nil
}

func (g *Graph) queryPapers(query string, args ...any) ([]PaperRecord, error) {
	rows, err := g.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []PaperRecord
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}
