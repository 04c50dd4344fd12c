package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchDB    string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search stored papers by title",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchDB, "db", "", "Graph database path (default from config)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	g := openGraph(searchDB)
	defer g.Close()

	papers, err := g.SearchByTitle(args[0], searchLimit)
	if err != nil {
		exitWithError(ExitStoreError, "searching papers: %v", err)
	}

	if humanOutput {
		for _, p := range papers {
			year := ""
			if p.Year > 0 {
				year = fmt.Sprintf(" (%d)", p.Year)
			}
			fmt.Printf("%s%s [%d citations]\n  %s\n", truncateString(p.Title, 80), year, p.CitationCount, p.PaperID)
		}
		if len(papers) == 0 {
			fmt.Println("no matches")
		}
		return nil
	}
	return outputJSON(papers)
}
