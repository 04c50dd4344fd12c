// Package expand builds the citation network around a seed paper: it
// resolves the seed's parsed references, then optionally walks each
// resolved paper's citing and cited papers under per-paper fan-out caps
// and a global paper cap.
package expand

import (
	"context"
	"errors"

	"github.com/matsen/citegraph/internal/reference"
	"github.com/matsen/citegraph/internal/s2"
)

// Resolver is the bibliographic lookup boundary.
type Resolver interface {
	Resolve(ctx context.Context, ref reference.StructuredReference) (*s2.Paper, error)
	Citations(ctx context.Context, paperID string, limit, offset int) (*s2.CitationsPage, error)
	References(ctx context.Context, paperID string, limit, offset int) (*s2.CitationsPage, error)
}

// Store is the graph-write boundary. Both operations are idempotent
// upserts reporting whether they created the node or edge.
type Store interface {
	AddPaper(p *s2.Paper) (bool, error)
	UpsertCites(sourceID, targetID string) (bool, error)
}

// Options control how far a run expands.
type Options struct {
	// MaxPapers caps how many parsed references are resolved; 0 means all.
	MaxPapers int

	// IncludeCitations walks each resolved paper's citing papers.
	IncludeCitations bool

	// IncludeReferences walks each resolved paper's cited papers.
	IncludeReferences bool

	// Per-paper fan-out caps. These stay hard caps even when MaxPapers is
	// unbounded; without them the number of API calls and the graph size
	// grow multiplicatively with fan-out.
	MaxCitationsPerPaper  int
	MaxReferencesPerPaper int
}

// Stats accumulates the outcome of one expansion run. TotalRelationships
// counts CITES edges actually created, not edges attempted.
type Stats struct {
	ParentPapers       int `json:"parent_papers"`
	PDFReferences      int `json:"pdf_references"`
	CitationsAdded     int `json:"citations_added"`
	ReferencesAdded    int `json:"references_added"`
	TotalPapers        int `json:"total_papers"`
	TotalRelationships int `json:"total_relationships"`
}

// Expander orchestrates one breadth-limited expansion run. The visited set
// and stats are owned by a single Run invocation; an Expander may be
// reused sequentially but not concurrently.
type Expander struct {
	resolver Resolver
	store    Store
	opts     Options
}

// New creates an expander.
func New(resolver Resolver, store Store, opts Options) *Expander {
	return &Expander{resolver: resolver, store: store, opts: opts}
}

// run carries the per-invocation state.
type run struct {
	*Expander
	visited      map[string]bool
	stats        Stats
	unresolved   []reference.StructuredReference
	edgesCreated int
}

// Run seeds the graph with the parent paper, resolves its references, and
// expands citations/references per Options. It returns the run stats and
// the references that could not be resolved; per-reference and per-paper
// failures are recorded there and never abort the run. Store failures are
// fatal: once a write fails, subsequent writes cannot be trusted.
func (e *Expander) Run(ctx context.Context, parent *s2.Paper, refs []reference.StructuredReference) (Stats, []reference.StructuredReference, error) {
	r := &run{
		Expander: e,
		visited:  make(map[string]bool),
	}

	// Seed: the parent paper is the root of the visited set.
	if _, err := r.store.AddPaper(parent); err != nil {
		return r.stats, r.unresolved, err
	}
	r.visited[parent.PaperID] = true
	r.stats.ParentPapers = 1

	resolved, err := r.resolveReferences(ctx, parent, refs)
	if err != nil {
		return r.stats, r.unresolved, err
	}

	// The parent participates in expansion alongside its references.
	toExpand := append([]*s2.Paper{parent}, resolved...)

	if e.opts.IncludeCitations && e.opts.MaxCitationsPerPaper > 0 {
		if err := r.expand(ctx, toExpand, citationDirection); err != nil {
			return r.stats, r.unresolved, err
		}
	}
	if e.opts.IncludeReferences && e.opts.MaxReferencesPerPaper > 0 {
		if err := r.expand(ctx, toExpand, referenceDirection); err != nil {
			return r.stats, r.unresolved, err
		}
	}

	r.stats.TotalPapers = len(r.visited)
	r.stats.TotalRelationships = r.edgesCreated
	return r.stats, r.unresolved, nil
}

// resolveReferences resolves each structured reference and writes the
// resolved papers plus parent->paper CITES edges. Failures go to the
// unresolved list. Returns the distinct resolved papers for expansion.
func (r *run) resolveReferences(ctx context.Context, parent *s2.Paper, refs []reference.StructuredReference) ([]*s2.Paper, error) {
	var resolved []*s2.Paper

	for _, ref := range refs {
		if r.opts.MaxPapers > 0 && r.stats.PDFReferences >= r.opts.MaxPapers {
			break
		}
		if err := ctx.Err(); err != nil {
			return resolved, err
		}

		paper, err := r.resolver.Resolve(ctx, ref)
		if err != nil {
			if isFatal(err) {
				return resolved, err
			}
			r.unresolved = append(r.unresolved, ref)
			continue
		}

		if _, err := r.store.AddPaper(paper); err != nil {
			return resolved, err
		}
		if err := r.addCites(parent.PaperID, paper.PaperID); err != nil {
			return resolved, err
		}
		r.stats.PDFReferences++

		// A duplicate bibliography entry resolving to a visited paper is
		// counted but expanded only once.
		if !r.visited[paper.PaperID] {
			r.visited[paper.PaperID] = true
			resolved = append(resolved, paper)
		}
	}

	return resolved, nil
}

// direction abstracts over the two symmetric expansion phases.
type direction struct {
	fetch func(r *run, ctx context.Context, paperID string, limit, offset int) (*s2.CitationsPage, error)
	// edge returns (source, target) for an entry's paper relative to the
	// paper being expanded: citing paper cites it, or it cites the cited
	// paper.
	edge  func(expanding, other string) (source, target string)
	paper func(entry s2.CitationEntry) *s2.Paper
	cap   func(o Options) int
	added func(s *Stats)
}

var citationDirection = direction{
	fetch: func(r *run, ctx context.Context, paperID string, limit, offset int) (*s2.CitationsPage, error) {
		return r.resolver.Citations(ctx, paperID, limit, offset)
	},
	edge:  func(expanding, other string) (string, string) { return other, expanding },
	paper: func(entry s2.CitationEntry) *s2.Paper { return entry.CitingPaper },
	cap:   func(o Options) int { return o.MaxCitationsPerPaper },
	added: func(s *Stats) { s.CitationsAdded++ },
}

var referenceDirection = direction{
	fetch: func(r *run, ctx context.Context, paperID string, limit, offset int) (*s2.CitationsPage, error) {
		return r.resolver.References(ctx, paperID, limit, offset)
	},
	edge:  func(expanding, other string) (string, string) { return expanding, other },
	paper: func(entry s2.CitationEntry) *s2.Paper { return entry.CitedPaper },
	cap:   func(o Options) int { return o.MaxReferencesPerPaper },
	added: func(s *Stats) { s.ReferencesAdded++ },
}

// expand pages through one direction for every paper in the list. API
// failures for a single paper end that paper's expansion and the run
// continues; store failures and context cancellation are fatal.
func (r *run) expand(ctx context.Context, papers []*s2.Paper, dir direction) error {
	for _, paper := range papers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.expandOne(ctx, paper.PaperID, dir); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) expandOne(ctx context.Context, paperID string, dir direction) error {
	fanCap := dir.cap(r.opts)
	processed := 0
	offset := 0

	for processed < fanCap {
		limit := fanCap - processed
		page, err := dir.fetch(r, ctx, paperID, limit, offset)
		if err != nil {
			if isFatal(err) {
				return err
			}
			return nil // This paper's expansion failed; the run goes on.
		}

		for _, entry := range page.Data {
			if processed >= fanCap {
				break
			}
			other := dir.paper(entry)
			if other == nil || other.PaperID == "" {
				continue
			}
			processed++

			if !r.visited[other.PaperID] {
				if _, err := r.store.AddPaper(other); err != nil {
					return err
				}
				r.visited[other.PaperID] = true
				dir.added(&r.stats)
			}
			// Visited papers still get the edge: dedup prevents node
			// re-fetching, not edge creation across new relations.
			source, target := dir.edge(paperID, other.PaperID)
			if err := r.addCites(source, target); err != nil {
				return err
			}
		}

		if page.Next == nil || len(page.Data) == 0 {
			break
		}
		offset = *page.Next
	}

	return nil
}

func (r *run) addCites(sourceID, targetID string) error {
	created, err := r.store.UpsertCites(sourceID, targetID)
	if err != nil {
		return err
	}
	if created {
		r.edgesCreated++
	}
	return nil
}

// isFatal reports whether an error must abort the whole run rather than
// being recorded against a single paper.
func isFatal(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
