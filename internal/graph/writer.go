package graph

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/matsen/citegraph/internal/reference"
	"github.com/matsen/citegraph/internal/s2"
)

// UpsertPaper writes a paper node. Repeat calls with the same paper_id
// update properties in place and report created=false.
//
// A paper carrying a real API id whose normalized title and year match an
// existing locally-keyed row promotes that row: the node and every edge
// endpoint referencing the local id are rewritten to the real id in one
// transaction, so CITES edges dedupe across the local-to-real transition.
func (g *Graph) UpsertPaper(p *s2.Paper) (bool, error) {
	if p.PaperID == "" {
		return false, fmt.Errorf("upserting paper: empty paper_id")
	}

	exists, err := g.rowExists("SELECT 1 FROM papers WHERE paper_id = ?", p.PaperID)
	if err != nil {
		return false, err
	}

	if !exists && !IsLocalID(p.PaperID) {
		localID, err := g.findLocalByNaturalKey(p)
		if err != nil {
			return false, err
		}
		if localID != "" {
			if err := g.promoteLocal(localID, p.PaperID); err != nil {
				return false, err
			}
			exists = true
		}
	}

	normTitle := reference.NormalizeTitle(p.Title)
	var year any
	if p.Year != 0 {
		year = p.Year
	}
	now := time.Now().UTC().Format(time.RFC3339)

	if exists {
		_, err = g.db.Exec(`
			UPDATE papers
			SET title = ?, norm_title = ?, year = ?, citation_count = ?, abstract = ?, updated_at = ?
			WHERE paper_id = ?
		`, p.Title, normTitle, year, p.CitationCount, p.Abstract, now, p.PaperID)
		if err != nil {
			return false, fmt.Errorf("updating paper %s: %w", p.PaperID, err)
		}
		return false, nil
	}

	_, err = g.db.Exec(`
		INSERT INTO papers (paper_id, title, norm_title, year, citation_count, abstract, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.PaperID, p.Title, normTitle, year, p.CitationCount, p.Abstract, now)
	if err != nil {
		return false, fmt.Errorf("inserting paper %s: %w", p.PaperID, err)
	}
	return true, nil
}

// findLocalByNaturalKey returns the id of a locally-keyed paper matching
// the incoming paper's normalized title and year, or empty.
func (g *Graph) findLocalByNaturalKey(p *s2.Paper) (string, error) {
	var year any
	if p.Year != 0 {
		year = p.Year
	}

	var id string
	err := g.db.QueryRow(`
		SELECT paper_id FROM papers
		WHERE norm_title = ? AND year IS ? AND paper_id LIKE ?
	`, reference.NormalizeTitle(p.Title), year, localIDPrefix+"%").Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up natural key: %w", err)
	}
	return id, nil
}

// promoteLocal rewrites a locally-keyed paper and its edges to a real id.
// Edge updates that would collide with an existing real-id edge are
// dropped instead, since the surviving edge is the same relationship.
func (g *Graph) promoteLocal(localID, realID string) error {
	tx, err := g.db.Begin()
	if err != nil {
		return fmt.Errorf("promoting %s: %w", localID, err)
	}
	defer tx.Rollback()

	stmts := []string{
		"UPDATE papers SET paper_id = ? WHERE paper_id = ?",
		"UPDATE OR IGNORE cites SET source_id = ? WHERE source_id = ?",
		"UPDATE OR IGNORE cites SET target_id = ? WHERE target_id = ?",
		"UPDATE OR IGNORE authored_by SET paper_id = ? WHERE paper_id = ?",
		"UPDATE OR IGNORE published_in SET paper_id = ? WHERE paper_id = ?",
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, realID, localID); err != nil {
			return fmt.Errorf("promoting %s to %s: %w", localID, realID, err)
		}
	}

	// Drop any edges still referencing the local id (update collisions).
	cleanup := []string{
		"DELETE FROM cites WHERE source_id = ? OR target_id = ?",
		"DELETE FROM authored_by WHERE paper_id = ? OR paper_id = ?",
		"DELETE FROM published_in WHERE paper_id = ? OR paper_id = ?",
	}
	for _, stmt := range cleanup {
		if _, err := tx.Exec(stmt, localID, localID); err != nil {
			return fmt.Errorf("cleaning up %s: %w", localID, err)
		}
	}

	return tx.Commit()
}

// UpsertAuthor writes an author node keyed by author_id.
func (g *Graph) UpsertAuthor(a s2.Author) (bool, error) {
	return g.upsertRow(
		"SELECT 1 FROM authors WHERE author_id = ?",
		"INSERT INTO authors (author_id, name) VALUES (?, ?)",
		"UPDATE authors SET name = ? WHERE author_id = ?",
		[]any{a.AuthorID},
		[]any{a.AuthorID, a.Name},
		[]any{a.Name, a.AuthorID},
	)
}

// UpsertVenue writes a venue node keyed by venue_id.
func (g *Graph) UpsertVenue(v s2.Venue) (bool, error) {
	return g.upsertRow(
		"SELECT 1 FROM venues WHERE venue_id = ?",
		"INSERT INTO venues (venue_id, name, venue_type) VALUES (?, ?, ?)",
		"UPDATE venues SET name = ?, venue_type = ? WHERE venue_id = ?",
		[]any{v.VenueID},
		[]any{v.VenueID, v.Name, v.Type},
		[]any{v.Name, v.Type, v.VenueID},
	)
}

// UpsertCites writes a directed CITES edge: source's bibliography
// references target. Cycles are legal; the edge set is a plain directed
// graph, not a tree.
func (g *Graph) UpsertCites(sourceID, targetID string) (bool, error) {
	exists, err := g.rowExists("SELECT 1 FROM cites WHERE source_id = ? AND target_id = ?", sourceID, targetID)
	if err != nil || exists {
		return false, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = g.db.Exec("INSERT INTO cites (source_id, target_id, created_at) VALUES (?, ?, ?)",
		sourceID, targetID, now)
	if err != nil {
		return false, fmt.Errorf("inserting cites %s -> %s: %w", sourceID, targetID, err)
	}
	return true, nil
}

// UpsertAuthored writes an AUTHORED_BY edge carrying the author's position
// in the byline.
func (g *Graph) UpsertAuthored(paperID, authorID string, order int) (bool, error) {
	return g.upsertRow(
		"SELECT 1 FROM authored_by WHERE paper_id = ? AND author_id = ?",
		"INSERT INTO authored_by (paper_id, author_id, author_order) VALUES (?, ?, ?)",
		"UPDATE authored_by SET author_order = ? WHERE paper_id = ? AND author_id = ?",
		[]any{paperID, authorID},
		[]any{paperID, authorID, order},
		[]any{order, paperID, authorID},
	)
}

// UpsertPublishedIn writes a PUBLISHED_IN edge.
func (g *Graph) UpsertPublishedIn(paperID, venueID string) (bool, error) {
	exists, err := g.rowExists("SELECT 1 FROM published_in WHERE paper_id = ? AND venue_id = ?", paperID, venueID)
	if err != nil || exists {
		return false, err
	}

	_, err = g.db.Exec("INSERT INTO published_in (paper_id, venue_id) VALUES (?, ?)", paperID, venueID)
	if err != nil {
		return false, fmt.Errorf("inserting published_in %s -> %s: %w", paperID, venueID, err)
	}
	return true, nil
}

// AddPaper upserts a paper together with its authors, venue, and the
// connecting edges. Authors missing an id or name are skipped, matching
// what the API returns for unregistered authors. Returns whether the
// paper node itself was created.
func (g *Graph) AddPaper(p *s2.Paper) (bool, error) {
	created, err := g.UpsertPaper(p)
	if err != nil {
		return false, err
	}

	order := 0
	for _, a := range p.Authors {
		if a.AuthorID == "" || a.Name == "" {
			continue
		}
		order++
		if _, err := g.UpsertAuthor(a); err != nil {
			return created, err
		}
		if _, err := g.UpsertAuthored(p.PaperID, a.AuthorID, order); err != nil {
			return created, err
		}
	}

	if p.PubVenue != nil && p.PubVenue.VenueID != "" {
		if _, err := g.UpsertVenue(*p.PubVenue); err != nil {
			return created, err
		}
		if _, err := g.UpsertPublishedIn(p.PaperID, p.PubVenue.VenueID); err != nil {
			return created, err
		}
	}

	return created, nil
}

// rowExists runs an existence query.
func (g *Graph) rowExists(query string, args ...any) (bool, error) {
	var one int
	err := g.db.QueryRow(query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking existence: %w", err)
	}
	return true, nil
}

// upsertRow implements the exists-then-insert-or-update pattern shared by
// the simple node and edge tables. Safe without locking: the store is
// opened with a single connection.
func (g *Graph) upsertRow(existsQ, insertQ, updateQ string, existsArgs, insertArgs, updateArgs []any) (bool, error) {
	exists, err := g.rowExists(existsQ, existsArgs...)
	if err != nil {
		return false, err
	}
	if exists {
		if _, err := g.db.Exec(updateQ, updateArgs...); err != nil {
			return false, fmt.Errorf("updating row: %w", err)
		}
		return false, nil
	}
	if _, err := g.db.Exec(insertQ, insertArgs...); err != nil {
		return false, fmt.Errorf("inserting row: %w", err)
	}
	return true, nil
}
