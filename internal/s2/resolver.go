package s2

import (
	"context"
	"strings"

	"github.com/matsen/citegraph/internal/reference"
)

// MinTitleSimilarity is the acceptance threshold for candidate matches.
// Below it a lookup is treated as not found rather than risking a wrong
// merge into the graph.
const MinTitleSimilarity = 0.8

// searchFallbackLimit bounds the candidate list when the match endpoint
// comes up empty.
const searchFallbackLimit = 10

// Resolver maps structured references to canonical paper records.
type Resolver struct {
	client *Client
}

// NewResolver creates a resolver backed by the given client.
func NewResolver(client *Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve looks up the canonical paper for a structured reference.
// Unparsed references (empty title) and candidates below the similarity
// threshold return ErrNotFound; transient API failures surface after the
// client's retries are exhausted.
func (r *Resolver) Resolve(ctx context.Context, ref reference.StructuredReference) (*Paper, error) {
	if !ref.Parsed() {
		return nil, ErrNotFound
	}
	return r.ResolveTitle(ctx, ref.Title)
}

// ResolveTitle looks up the canonical paper for a title. The match
// endpoint is tried first; on miss, candidates from keyword search are
// scored by title similarity and the best one above the threshold wins.
func (r *Resolver) ResolveTitle(ctx context.Context, title string) (*Paper, error) {
	paper, err := r.client.MatchPaper(ctx, title)
	if err == nil {
		if TitleSimilarity(title, paper.Title) >= MinTitleSimilarity {
			return paper, nil
		}
	} else if !IsNotFound(err) {
		return nil, err
	}

	page, err := r.client.SearchPapers(ctx, title, searchFallbackLimit)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var best *Paper
	bestScore := 0.0
	for i := range page.Data {
		score := TitleSimilarity(title, page.Data[i].Title)
		if score > bestScore {
			best = &page.Data[i]
			bestScore = score
		}
	}
	if best == nil || bestScore < MinTitleSimilarity {
		return nil, ErrNotFound
	}
	return best, nil
}

// TitleSimilarity computes the Dice coefficient over normalized title
// tokens: 2*|A∩B| / (|A|+|B|), in [0,1].
func TitleSimilarity(a, b string) float64 {
	ta := strings.Fields(reference.NormalizeTitle(a))
	tb := strings.Fields(reference.NormalizeTitle(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	counts := make(map[string]int, len(ta))
	for _, tok := range ta {
		counts[tok]++
	}

	common := 0
	for _, tok := range tb {
		if counts[tok] > 0 {
			counts[tok]--
			common++
		}
	}

	return 2 * float64(common) / float64(len(ta)+len(tb))
}
