package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/matsen/citegraph/internal/expand"
	"github.com/matsen/citegraph/internal/graph"
	"github.com/matsen/citegraph/internal/reference"
	"github.com/matsen/citegraph/internal/s2"
)

// fakePages serves canned page text instead of reading a PDF.
type fakePages struct {
	texts []string
	doi   string
}

func (f *fakePages) PageTexts(path string, pages []int) ([]string, error) {
	return f.texts, nil
}

func (f *fakePages) DOI(path string) (string, error) {
	return f.doi, nil
}

// fakeResolver resolves titles and ids from canned maps.
type fakeResolver struct {
	byTitle map[string]*s2.Paper
	byID    map[string]*s2.Paper
	citers  map[string][]*s2.Paper
}

func (f *fakeResolver) Resolve(ctx context.Context, ref reference.StructuredReference) (*s2.Paper, error) {
	if !ref.Parsed() {
		return nil, s2.ErrNotFound
	}
	return f.ResolveTitle(ctx, ref.Title)
}

func (f *fakeResolver) ResolveTitle(ctx context.Context, title string) (*s2.Paper, error) {
	if p, ok := f.byTitle[title]; ok {
		return p, nil
	}
	return nil, s2.ErrNotFound
}

func (f *fakeResolver) Paper(ctx context.Context, paperID string) (*s2.Paper, error) {
	if p, ok := f.byID[paperID]; ok {
		return p, nil
	}
	return nil, s2.ErrNotFound
}

func (f *fakeResolver) Citations(ctx context.Context, paperID string, limit, offset int) (*s2.CitationsPage, error) {
	page := &s2.CitationsPage{Offset: offset}
	for _, p := range f.citers[paperID] {
		page.Data = append(page.Data, s2.CitationEntry{CitingPaper: p})
	}
	return page, nil
}

func (f *fakeResolver) References(ctx context.Context, paperID string, limit, offset int) (*s2.CitationsPage, error) {
	return &s2.CitationsPage{Offset: offset}, nil
}

func testPipeline(t *testing.T, pages *fakePages, resolver *fakeResolver) (*Pipeline, *graph.Graph) {
	t.Helper()
	g, err := graph.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening graph: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return New(pages, resolver, g), g
}

const bibliography = `References
[1] Smith, J. (2020). Alpha. Venue A.
[2] Jones, K. (2021). Beta. Venue B.
[3] Lee, M. (2019). Gamma. Venue C.
[4] Park, S. (2022). Delta. Venue D.
[5] Kim, H. (2018). Epsilon. Venue E.`

func TestProcessPDFToGraph_PartialResolution(t *testing.T) {
	pages := &fakePages{texts: []string{bibliography}}
	resolver := &fakeResolver{
		byTitle: map[string]*s2.Paper{
			"Alpha": {PaperID: "pa", Title: "Alpha"},
			"Gamma": {PaperID: "pg", Title: "Gamma"},
			"Delta": {PaperID: "pd", Title: "Delta"},
		},
	}
	p, g := testPipeline(t, pages, resolver)

	parent := reference.ParentPaper{Title: "The Seed Paper", Year: "2023"}
	successful, unsuccessful, err := p.ProcessPDFToGraph(context.Background(), "paper.pdf", parent, []int{32}, 0)
	if err != nil {
		t.Fatalf("ProcessPDFToGraph: %v", err)
	}

	if len(successful) != 3 {
		t.Errorf("expected 3 resolved references, got %d", len(successful))
	}
	if len(unsuccessful) != 2 {
		t.Fatalf("expected 2 unresolved references, got %d", len(unsuccessful))
	}
	if unsuccessful[0].Title != "Beta" || unsuccessful[1].Title != "Epsilon" {
		t.Errorf("unexpected unresolved set %+v", unsuccessful)
	}

	// Parent plus the three resolved papers, with parent edges.
	papers, cites, err := g.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if papers != 4 || cites != 3 {
		t.Errorf("expected 4 papers and 3 edges, got %d and %d", papers, cites)
	}
}

func TestProcessPDFToGraph_MaxPapersBound(t *testing.T) {
	pages := &fakePages{texts: []string{bibliography}}
	resolver := &fakeResolver{
		byTitle: map[string]*s2.Paper{
			"Alpha": {PaperID: "pa", Title: "Alpha"},
			"Beta":  {PaperID: "pb", Title: "Beta"},
			"Gamma": {PaperID: "pg", Title: "Gamma"},
		},
	}
	p, _ := testPipeline(t, pages, resolver)

	successful, _, err := p.ProcessPDFToGraph(context.Background(), "paper.pdf",
		reference.ParentPaper{Title: "Seed"}, []int{32}, 2)
	if err != nil {
		t.Fatalf("ProcessPDFToGraph: %v", err)
	}
	if len(successful) != 2 {
		t.Errorf("expected resolution capped at 2, got %d", len(successful))
	}
}

func TestResolveParent_ExplicitIDWins(t *testing.T) {
	pages := &fakePages{texts: []string{bibliography}, doi: "10.9/pdf-doi"}
	canonical := &s2.Paper{PaperID: "canonical", Title: "The Real One"}
	resolver := &fakeResolver{
		byID: map[string]*s2.Paper{
			"DOI:10.1/explicit": canonical,
			"DOI:10.9/pdf-doi":  {PaperID: "from-pdf", Title: "From the PDF"},
		},
	}
	p, _ := testPipeline(t, pages, resolver)

	got := p.resolveParent(context.Background(), "paper.pdf",
		reference.ParentPaper{Title: "Whatever", PaperID: "DOI:10.1/explicit"})
	if got.PaperID != "canonical" {
		t.Errorf("expected the explicit id to win, got %s", got.PaperID)
	}
}

func TestResolveParent_FallsBackToPDFDOI(t *testing.T) {
	pages := &fakePages{doi: "10.9/pdf-doi"}
	resolver := &fakeResolver{
		byID: map[string]*s2.Paper{
			"DOI:10.9/pdf-doi": {PaperID: "from-pdf", Title: "From the PDF"},
		},
	}
	p, _ := testPipeline(t, pages, resolver)

	got := p.resolveParent(context.Background(), "paper.pdf",
		reference.ParentPaper{Title: "Unknown Title"})
	if got.PaperID != "from-pdf" {
		t.Errorf("expected the PDF DOI fallback, got %s", got.PaperID)
	}
}

func TestResolveParent_FallsBackToTitleMatch(t *testing.T) {
	pages := &fakePages{}
	resolver := &fakeResolver{
		byTitle: map[string]*s2.Paper{
			"A Survey of Things": {PaperID: "matched", Title: "A Survey of Things"},
		},
	}
	p, _ := testPipeline(t, pages, resolver)

	got := p.resolveParent(context.Background(), "paper.pdf",
		reference.ParentPaper{Title: "A Survey of Things"})
	if got.PaperID != "matched" {
		t.Errorf("expected the title match, got %s", got.PaperID)
	}
}

func TestResolveParent_SyntheticWhenUnresolvable(t *testing.T) {
	p, _ := testPipeline(t, &fakePages{}, &fakeResolver{})

	got := p.resolveParent(context.Background(), "paper.pdf",
		reference.ParentPaper{Title: "Nowhere To Be Found", Year: "2021"})
	if !graph.IsLocalID(got.PaperID) {
		t.Errorf("expected a synthetic local id, got %s", got.PaperID)
	}
	if got.Title != "Nowhere To Be Found" || got.Year != 2021 {
		t.Errorf("expected caller metadata preserved, got %+v", got)
	}
}

func TestProcessPDFToGraphWithNetwork(t *testing.T) {
	pages := &fakePages{texts: []string{"[1] Smith, J. (2020). Alpha. Venue A."}}
	resolver := &fakeResolver{
		byTitle: map[string]*s2.Paper{
			"The Seed Paper": {PaperID: "seed", Title: "The Seed Paper"},
			"Alpha":          {PaperID: "pa", Title: "Alpha"},
		},
		citers: map[string][]*s2.Paper{
			"pa": {{PaperID: "c1", Title: "Citer"}},
		},
	}
	p, g := testPipeline(t, pages, resolver)

	opts := expand.Options{IncludeCitations: true, MaxCitationsPerPaper: 5}
	stats, unresolved, err := p.ProcessPDFToGraphWithNetwork(context.Background(), "paper.pdf",
		reference.ParentPaper{Title: "The Seed Paper"}, []int{32}, opts)
	if err != nil {
		t.Fatalf("ProcessPDFToGraphWithNetwork: %v", err)
	}
	if len(unresolved) != 0 {
		t.Errorf("expected no unresolved, got %v", unresolved)
	}

	// seed, pa, c1.
	if stats.TotalPapers != 3 || stats.CitationsAdded != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	_, cites, err := g.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	// seed->pa and c1->pa.
	if cites != 2 {
		t.Errorf("expected 2 edges, got %d", cites)
	}
}

func TestProcessPDFToGraph_ContextCancelled(t *testing.T) {
	pages := &fakePages{texts: []string{bibliography}}
	p, _ := testPipeline(t, pages, &fakeResolver{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := p.ProcessPDFToGraph(ctx, "paper.pdf", reference.ParentPaper{Title: "Seed"}, []int{32}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
