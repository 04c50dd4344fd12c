package s2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Semantic Scholar Academic Graph API base URL.
	BaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultRateDelay is the minimum delay between API requests.
	DefaultRateDelay = time.Second

	// MaxPageLimit is the largest page size the citations and references
	// endpoints accept.
	MaxPageLimit = 1000

	// DefaultPaperFields are the fields requested for paper lookups.
	DefaultPaperFields = "paperId,title,abstract,venue,publicationVenue,year,citationCount,referenceCount,authors"

	// maxAttempts bounds retries for transient failures (429, 5xx, network).
	maxAttempts = 3
)

// Client is a rate-limited HTTP client for the Semantic Scholar API.
// The limiter guarantees consecutive requests are separated by the
// configured delay; it is owned by the client instance.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	backoff    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithRateDelay sets the minimum delay between requests.
func WithRateDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithRetryBackoff sets the initial retry backoff (for testing).
func WithRetryBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		c.backoff = d
	}
}

// NewClient creates a new Semantic Scholar API client. The API key is read
// from the SS_API_KEY environment variable unless set via WithAPIKey.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(DefaultRateDelay), 1),
		baseURL:    BaseURL,
		backoff:    2 * time.Second,
	}

	if key := os.Getenv("SS_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a rate-limited GET with bounded retries on transient
// failures. The body of a successful response is returned in full.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.backoff<<(attempt-1)); err != nil {
				return nil, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		body, err := c.doRequest(ctx, path, query)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

// doRequest issues a single GET request and maps HTTP errors.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	return body, nil
}

// checkHTTPErrors returns an error if the response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == 404:
		return ErrNotFound
	case resp.StatusCode == 429:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// sleepCtx sleeps for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// MatchPaper looks up the single best title match via the search/match
// endpoint. Returns ErrNotFound when the API has no candidate.
func (c *Client) MatchPaper(ctx context.Context, title string) (*Paper, error) {
	query := url.Values{}
	query.Set("query", title)
	query.Set("fields", DefaultPaperFields)

	body, err := c.get(ctx, "/paper/search/match", query)
	if err != nil {
		return nil, err
	}

	var page SearchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: parsing match result: %v", ErrInvalidResponse, err)
	}
	if len(page.Data) == 0 {
		return nil, ErrNotFound
	}
	return &page.Data[0], nil
}

// SearchPapers searches papers by keyword relevance.
func (c *Client) SearchPapers(ctx context.Context, keyword string, limit int) (*SearchPage, error) {
	if limit <= 0 {
		limit = 10
	}

	query := url.Values{}
	query.Set("query", keyword)
	query.Set("fields", DefaultPaperFields)
	query.Set("limit", fmt.Sprint(limit))

	body, err := c.get(ctx, "/paper/search", query)
	if err != nil {
		return nil, err
	}

	var page SearchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: parsing search results: %v", ErrInvalidResponse, err)
	}
	return &page, nil
}

// GetPaper fetches a paper by identifier (DOI:..., ARXIV:..., raw S2 id).
func (c *Client) GetPaper(ctx context.Context, paperID string) (*Paper, error) {
	query := url.Values{}
	query.Set("fields", DefaultPaperFields)

	body, err := c.get(ctx, "/paper/"+url.PathEscape(paperID), query)
	if err != nil {
		return nil, err
	}

	var paper Paper
	if err := json.Unmarshal(body, &paper); err != nil {
		return nil, fmt.Errorf("%w: parsing paper: %v", ErrInvalidResponse, err)
	}
	if paper.PaperID == "" {
		return nil, ErrNotFound
	}
	return &paper, nil
}

// GetCitations fetches one page of papers citing the given paper.
func (c *Client) GetCitations(ctx context.Context, paperID string, limit, offset int) (*CitationsPage, error) {
	return c.citationPage(ctx, paperID, "citations", limit, offset)
}

// GetReferences fetches one page of papers cited by the given paper.
func (c *Client) GetReferences(ctx context.Context, paperID string, limit, offset int) (*CitationsPage, error) {
	return c.citationPage(ctx, paperID, "references", limit, offset)
}

func (c *Client) citationPage(ctx context.Context, paperID, kind string, limit, offset int) (*CitationsPage, error) {
	if limit <= 0 || limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	query := url.Values{}
	query.Set("fields", DefaultPaperFields)
	query.Set("limit", fmt.Sprint(limit))
	query.Set("offset", fmt.Sprint(offset))

	body, err := c.get(ctx, "/paper/"+url.PathEscape(paperID)+"/"+kind, query)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w (paper %s)", ErrNotFound, paperID)
		}
		return nil, err
	}

	var page CitationsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidResponse, kind, err)
	}
	return &page, nil
}
