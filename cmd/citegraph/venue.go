package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	venueDB    string
	venueLimit int
)

var venueCmd = &cobra.Command{
	Use:   "venue <venue-id>",
	Short: "List stored papers published in a venue",
	Args:  cobra.ExactArgs(1),
	RunE:  runVenue,
}

func init() {
	rootCmd.AddCommand(venueCmd)
	venueCmd.Flags().StringVar(&venueDB, "db", "", "Graph database path (default from config)")
	venueCmd.Flags().IntVar(&venueLimit, "limit", 50, "Maximum papers listed")
}

func runVenue(cmd *cobra.Command, args []string) error {
	g := openGraph(venueDB)
	defer g.Close()

	papers, err := g.VenuePapers(args[0], venueLimit)
	if err != nil {
		exitWithError(ExitStoreError, "querying venue papers: %v", err)
	}

	if humanOutput {
		for _, p := range papers {
			year := ""
			if p.Year > 0 {
				year = fmt.Sprintf(" (%d)", p.Year)
			}
			fmt.Printf("%s%s [%d citations]\n", truncateString(p.Title, 80), year, p.CitationCount)
		}
		if len(papers) == 0 {
			fmt.Println("no papers stored for this venue")
		}
		return nil
	}
	return outputJSON(papers)
}
