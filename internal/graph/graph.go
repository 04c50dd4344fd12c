// Package graph persists the citation graph in SQLite: paper, author, and
// venue nodes plus cites, authored_by, and published_in edges. Every write
// is an idempotent upsert keyed by natural key, so re-runs and citation
// cycles never duplicate nodes or edges.
package graph

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Graph is a handle to the citation graph database.
type Graph struct {
	db *sql.DB
}

// Open opens (creating if needed) the graph database at path.
func Open(path string) (*Graph, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening graph database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	g := &Graph{db: db}
	if err := g.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return g, nil
}

// Close closes the underlying database.
func (g *Graph) Close() error {
	return g.db.Close()
}

func (g *Graph) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			paper_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			norm_title TEXT NOT NULL,
			year INTEGER,
			citation_count INTEGER NOT NULL DEFAULT 0,
			abstract TEXT,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_papers_natural ON papers(norm_title, year);

		CREATE TABLE IF NOT EXISTS authors (
			author_id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS venues (
			venue_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			venue_type TEXT
		);

		CREATE TABLE IF NOT EXISTS cites (
			source_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (source_id, target_id)
		);

		CREATE INDEX IF NOT EXISTS idx_cites_target ON cites(target_id);

		CREATE TABLE IF NOT EXISTS authored_by (
			paper_id TEXT NOT NULL,
			author_id TEXT NOT NULL,
			author_order INTEGER NOT NULL,
			PRIMARY KEY (paper_id, author_id)
		);

		CREATE INDEX IF NOT EXISTS idx_authored_author ON authored_by(author_id);

		CREATE TABLE IF NOT EXISTS published_in (
			paper_id TEXT NOT NULL,
			venue_id TEXT NOT NULL,
			PRIMARY KEY (paper_id, venue_id)
		);

		CREATE INDEX IF NOT EXISTS idx_published_venue ON published_in(venue_id);
	`
	if _, err := g.db.Exec(schema); err != nil {
		return fmt.Errorf("creating graph schema: %w", err)
	}
	return nil
}
