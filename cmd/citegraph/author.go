package main

import (
	"fmt"

	"github.com/matsen/citegraph/internal/graph"
	"github.com/spf13/cobra"
)

var authorDB string

var authorCmd = &cobra.Command{
	Use:   "author <author-id>",
	Short: "Show an author's stored papers and coauthors",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthor,
}

func init() {
	rootCmd.AddCommand(authorCmd)
	authorCmd.Flags().StringVar(&authorDB, "db", "", "Graph database path (default from config)")
}

// AuthorResult is the JSON output of the author command.
type AuthorResult struct {
	AuthorID  string              `json:"author_id"`
	Papers    []graph.PaperRecord `json:"papers"`
	Coauthors []graph.Coauthor    `json:"coauthors,omitempty"`
}

func runAuthor(cmd *cobra.Command, args []string) error {
	g := openGraph(authorDB)
	defer g.Close()

	papers, err := g.AuthorPapers(args[0])
	if err != nil {
		exitWithError(ExitStoreError, "querying author papers: %v", err)
	}
	if len(papers) == 0 {
		exitWithError(ExitError, "no papers stored for author: %s", args[0])
	}
	coauthors, err := g.Coauthors(args[0])
	if err != nil {
		exitWithError(ExitStoreError, "querying coauthors: %v", err)
	}

	if humanOutput {
		for _, p := range papers {
			year := ""
			if p.Year > 0 {
				year = fmt.Sprintf(" (%d)", p.Year)
			}
			fmt.Printf("%s%s\n", truncateString(p.Title, 80), year)
		}
		for _, c := range coauthors {
			fmt.Printf("  with %s: %d paper(s)\n", c.Name, c.PapersTogether)
		}
		return nil
	}
	return outputJSON(AuthorResult{AuthorID: args[0], Papers: papers, Coauthors: coauthors})
}
