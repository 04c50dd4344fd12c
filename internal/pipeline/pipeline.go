// Package pipeline wires PDF extraction, reference parsing, bibliographic
// resolution, and graph writes into the two public entry points.
package pipeline

import (
	"context"
	"strconv"

	"github.com/matsen/citegraph/internal/expand"
	"github.com/matsen/citegraph/internal/extract"
	"github.com/matsen/citegraph/internal/graph"
	"github.com/matsen/citegraph/internal/reference"
	"github.com/matsen/citegraph/internal/s2"
)

// PageSource is the PDF text boundary.
type PageSource interface {
	// PageTexts returns the text of the requested pages, in order.
	PageTexts(path string, pages []int) ([]string, error)
	// DOI returns a DOI found in the document, or empty.
	DOI(path string) (string, error)
}

// Resolver is the bibliographic API boundary, extending the expansion
// resolver with the lookups needed to resolve the parent paper.
type Resolver interface {
	expand.Resolver
	ResolveTitle(ctx context.Context, title string) (*s2.Paper, error)
	Paper(ctx context.Context, paperID string) (*s2.Paper, error)
}

// Pipeline composes the collaborators. Logf, when set, receives progress
// messages (the CLI points it at stderr in human mode).
type Pipeline struct {
	pages    PageSource
	resolver Resolver
	graph    *graph.Graph
	Logf     func(format string, args ...any)
}

// New creates a pipeline.
func New(pages PageSource, resolver Resolver, g *graph.Graph) *Pipeline {
	return &Pipeline{
		pages:    pages,
		resolver: resolver,
		graph:    g,
		Logf:     func(string, ...any) {},
	}
}

// ProcessPDFToGraph extracts references from the given pages, resolves
// them, and writes the parent paper plus parent->reference CITES edges.
// No network expansion. Resolution failures land in unsuccessful and never
// abort the batch; only store and setup failures return an error.
func (p *Pipeline) ProcessPDFToGraph(ctx context.Context, pdfPath string, parent reference.ParentPaper, pages []int, maxPapers int) (successful, unsuccessful []reference.StructuredReference, err error) {
	refs, err := p.extractReferences(pdfPath, pages)
	if err != nil {
		return nil, nil, err
	}

	parentPaper := p.resolveParent(ctx, pdfPath, parent)
	if _, err := p.graph.AddPaper(parentPaper); err != nil {
		return nil, nil, err
	}

	for _, ref := range refs {
		if maxPapers > 0 && len(successful) >= maxPapers {
			break
		}
		if err := ctx.Err(); err != nil {
			return successful, unsuccessful, err
		}

		paper, err := p.resolver.Resolve(ctx, ref)
		if err != nil {
			p.Logf("not resolved: %s", ref.Raw)
			unsuccessful = append(unsuccessful, ref)
			continue
		}

		if _, err := p.graph.AddPaper(paper); err != nil {
			return successful, unsuccessful, err
		}
		if _, err := p.graph.UpsertCites(parentPaper.PaperID, paper.PaperID); err != nil {
			return successful, unsuccessful, err
		}
		successful = append(successful, ref)
	}

	return successful, unsuccessful, nil
}

// ProcessPDFToGraphWithNetwork is ProcessPDFToGraph plus network
// expansion through each resolved paper's citing and cited papers.
func (p *Pipeline) ProcessPDFToGraphWithNetwork(ctx context.Context, pdfPath string, parent reference.ParentPaper, pages []int, opts expand.Options) (expand.Stats, []reference.StructuredReference, error) {
	refs, err := p.extractReferences(pdfPath, pages)
	if err != nil {
		return expand.Stats{}, nil, err
	}

	parentPaper := p.resolveParent(ctx, pdfPath, parent)
	p.Logf("expanding network for: %s", parentPaper.Title)

	expander := expand.New(p.resolver, p.graph, opts)
	return expander.Run(ctx, parentPaper, refs)
}

// extractReferences pulls the reference pages' text and parses it.
func (p *Pipeline) extractReferences(pdfPath string, pages []int) ([]reference.StructuredReference, error) {
	texts, err := p.pages.PageTexts(pdfPath, pages)
	if err != nil {
		return nil, err
	}

	lines := extract.ExtractLines(texts)
	refs := extract.ParseAll(lines)
	p.Logf("extracted %d reference lines from %d pages", len(refs), len(texts))
	return refs, nil
}

// resolveParent finds the canonical record for the seed paper: explicit
// external id first, then a DOI scanned from the PDF, then title match.
// When everything misses, the parent is written under a synthetic local id
// so the run can still proceed; a later run that resolves the same paper
// promotes the node (see graph.UpsertPaper).
func (p *Pipeline) resolveParent(ctx context.Context, pdfPath string, parent reference.ParentPaper) *s2.Paper {
	if parent.PaperID != "" {
		if id := s2.ParsePaperID(parent.PaperID); id.IsExternalID() {
			if paper, err := p.resolver.Paper(ctx, id.String()); err == nil {
				return paper
			}
			p.Logf("parent id %s not found, falling back", parent.PaperID)
		}
	}

	if doi, err := p.pages.DOI(pdfPath); err == nil && doi != "" {
		if paper, err := p.resolver.Paper(ctx, "DOI:"+doi); err == nil {
			return paper
		}
		p.Logf("DOI %s not found, falling back to title match", doi)
	}

	if parent.Title != "" {
		if paper, err := p.resolver.ResolveTitle(ctx, parent.Title); err == nil {
			return paper
		}
		p.Logf("parent title not matched: %s", parent.Title)
	}

	return syntheticParent(parent)
}

// syntheticParent builds a locally-keyed paper from the caller-supplied
// descriptor.
func syntheticParent(parent reference.ParentPaper) *s2.Paper {
	year, _ := strconv.Atoi(parent.Year)
	return &s2.Paper{
		PaperID: graph.NewLocalID(),
		Title:   parent.Title,
		Year:    year,
		Venue:   parent.Venue,
	}
}
