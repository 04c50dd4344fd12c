package pipeline

import (
	"context"

	"github.com/matsen/citegraph/internal/reference"
	"github.com/matsen/citegraph/internal/s2"
)

// apiResolver adapts the Semantic Scholar client and resolver to the
// pipeline's Resolver boundary.
type apiResolver struct {
	client   *s2.Client
	resolver *s2.Resolver
}

// NewAPIResolver builds the production Resolver from an API client.
func NewAPIResolver(client *s2.Client) Resolver {
	return &apiResolver{
		client:   client,
		resolver: s2.NewResolver(client),
	}
}

func (a *apiResolver) Resolve(ctx context.Context, ref reference.StructuredReference) (*s2.Paper, error) {
	return a.resolver.Resolve(ctx, ref)
}

func (a *apiResolver) ResolveTitle(ctx context.Context, title string) (*s2.Paper, error) {
	return a.resolver.ResolveTitle(ctx, title)
}

func (a *apiResolver) Paper(ctx context.Context, paperID string) (*s2.Paper, error) {
	return a.client.GetPaper(ctx, paperID)
}

func (a *apiResolver) Citations(ctx context.Context, paperID string, limit, offset int) (*s2.CitationsPage, error) {
	return a.client.GetCitations(ctx, paperID, limit, offset)
}

func (a *apiResolver) References(ctx context.Context, paperID string, limit, offset int) (*s2.CitationsPage, error) {
	return a.client.GetReferences(ctx, paperID, limit, offset)
}
