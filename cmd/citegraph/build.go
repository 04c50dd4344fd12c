package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matsen/citegraph/internal/config"
	"github.com/matsen/citegraph/internal/expand"
	"github.com/matsen/citegraph/internal/graph"
	"github.com/matsen/citegraph/internal/pdf"
	"github.com/matsen/citegraph/internal/pipeline"
	"github.com/matsen/citegraph/internal/reference"
	"github.com/matsen/citegraph/internal/s2"
	"github.com/spf13/cobra"
)

var (
	buildTitle     string
	buildAuthors   string
	buildYear      string
	buildVenue     string
	buildPaperID   string
	buildPages     string
	buildMaxPapers int
	buildDB        string

	buildNetwork    bool
	buildCitations  bool
	buildReferences bool
	buildMaxCites   int
	buildMaxRefs    int
	buildRateLimit  float64
)

var buildCmd = &cobra.Command{
	Use:   "build <pdf-path>",
	Short: "Build a citation graph from a paper's bibliography",
	Long: `Build a citation graph from the bibliography pages of a PDF.

References are extracted from the given pages, parsed, and resolved
against Semantic Scholar; resolved papers and their citation edges are
written to the graph database. References that cannot be resolved are
reported but never fail the build.

With --network, each resolved paper's citing papers (--citations) and/or
cited papers (--references) are fetched too, bounded by the per-paper caps.

Examples:
  citegraph build paper.pdf --title "A Survey" --authors "Cao" --year 2022 \
      --venue "ACM Computing Surveys" --pages 32-42
  citegraph build paper.pdf --title "A Survey" --pages 32,33,34 \
      --network --citations --max-citations-per-paper 50`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildTitle, "title", "", "Title of the parent paper (required)")
	buildCmd.Flags().StringVar(&buildAuthors, "authors", "", "Authors of the parent paper")
	buildCmd.Flags().StringVar(&buildYear, "year", "", "Publication year of the parent paper")
	buildCmd.Flags().StringVar(&buildVenue, "venue", "", "Publication venue of the parent paper")
	buildCmd.Flags().StringVar(&buildPaperID, "paper-id", "", "External id of the parent paper (DOI:..., ARXIV:..., raw S2 id)")
	buildCmd.Flags().StringVar(&buildPages, "pages", "", "Bibliography pages, e.g. '32-42' or '32,33,34' (required)")
	buildCmd.Flags().IntVar(&buildMaxPapers, "max-papers", 0, "Maximum references to resolve (0 = all)")
	buildCmd.Flags().StringVar(&buildDB, "db", "", "Graph database path (default from config)")
	buildCmd.Flags().BoolVar(&buildNetwork, "network", false, "Expand the citation network around resolved papers")
	buildCmd.Flags().BoolVar(&buildCitations, "citations", true, "With --network, fetch citing papers")
	buildCmd.Flags().BoolVar(&buildReferences, "references", false, "With --network, fetch cited papers")
	buildCmd.Flags().IntVar(&buildMaxCites, "max-citations-per-paper", 100, "Citing papers fetched per paper")
	buildCmd.Flags().IntVar(&buildMaxRefs, "max-references-per-paper", 100, "Cited papers fetched per paper")
	buildCmd.Flags().Float64Var(&buildRateLimit, "rate-limit", 0, "Seconds between API calls (default from config)")

	buildCmd.MarkFlagRequired("title")
	buildCmd.MarkFlagRequired("pages")
}

// BuildResult is the JSON output of a plain build.
type BuildResult struct {
	Successful   int                             `json:"successful"`
	Unsuccessful int                             `json:"unsuccessful"`
	Unresolved   []reference.StructuredReference `json:"unresolved,omitempty"`
}

// NetworkBuildResult is the JSON output of a network build.
type NetworkBuildResult struct {
	Stats      expand.Stats                    `json:"stats"`
	Unresolved []reference.StructuredReference `json:"unresolved,omitempty"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(pdfPath); err != nil {
		exitWithError(ExitConfigError, "PDF not found: %s", pdfPath)
	}

	pages, err := config.ParsePages(buildPages)
	if err != nil {
		exitWithError(ExitConfigError, "invalid --pages: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	dbPath := cfg.DBPath
	if buildDB != "" {
		dbPath = buildDB
	}
	delay := cfg.RateLimitDelay
	if buildRateLimit > 0 {
		delay = buildRateLimit
	}

	g, err := graph.Open(dbPath)
	if err != nil {
		exitWithError(ExitStoreError, "opening graph database: %v", err)
	}
	defer g.Close()

	client := s2.NewClient(
		s2.WithAPIKey(cfg.S2APIKey),
		s2.WithRateDelay(time.Duration(delay*float64(time.Second))),
	)

	p := pipeline.New(pdf.NewReader(), pipeline.NewAPIResolver(client), g)
	p.Logf = logf

	parent := reference.ParentPaper{
		Title:   buildTitle,
		Authors: buildAuthors,
		Year:    buildYear,
		Venue:   buildVenue,
		PaperID: buildPaperID,
	}

	if buildNetwork {
		return runNetworkBuild(ctx, p, pdfPath, parent, pages)
	}

	successful, unsuccessful, err := p.ProcessPDFToGraph(ctx, pdfPath, parent, pages, buildMaxPapers)
	if err != nil {
		exitWithError(ExitStoreError, "building graph: %v", err)
	}

	if humanOutput {
		fmt.Printf("Added %d papers, %d unresolved\n", len(successful), len(unsuccessful))
		for _, ref := range unsuccessful {
			fmt.Printf("  not resolved: %s\n", truncateString(ref.Raw, 70))
		}
		return nil
	}
	return outputJSON(BuildResult{
		Successful:   len(successful),
		Unsuccessful: len(unsuccessful),
		Unresolved:   unsuccessful,
	})
}

func runNetworkBuild(ctx context.Context, p *pipeline.Pipeline, pdfPath string, parent reference.ParentPaper, pages []int) error {
	opts := expand.Options{
		MaxPapers:             buildMaxPapers,
		IncludeCitations:      buildCitations,
		IncludeReferences:     buildReferences,
		MaxCitationsPerPaper:  buildMaxCites,
		MaxReferencesPerPaper: buildMaxRefs,
	}

	stats, unresolved, err := p.ProcessPDFToGraphWithNetwork(ctx, pdfPath, parent, pages, opts)
	if err != nil {
		if s2.IsAuthError(err) {
			exitWithError(ExitAPIError, "Semantic Scholar authentication: %v", err)
		}
		exitWithError(ExitStoreError, "building network: %v", err)
	}

	if humanOutput {
		fmt.Printf("Papers: %d  Relationships: %d\n", stats.TotalPapers, stats.TotalRelationships)
		fmt.Printf("  references from PDF: %d\n", stats.PDFReferences)
		fmt.Printf("  citing papers added: %d\n", stats.CitationsAdded)
		fmt.Printf("  cited papers added:  %d\n", stats.ReferencesAdded)
		fmt.Printf("  unresolved: %d\n", len(unresolved))
		return nil
	}
	return outputJSON(NetworkBuildResult{Stats: stats, Unresolved: unresolved})
}
