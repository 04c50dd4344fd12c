package main

import (
	"fmt"

	"github.com/matsen/citegraph/internal/config"
	"github.com/matsen/citegraph/internal/graph"
	"github.com/spf13/cobra"
)

var paperDB string

var paperCmd = &cobra.Command{
	Use:   "paper <paper-id>",
	Short: "Show a stored paper with its authors and venue",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaper,
}

func init() {
	rootCmd.AddCommand(paperCmd)
	paperCmd.Flags().StringVar(&paperDB, "db", "", "Graph database path (default from config)")
}

func openGraph(dbFlag string) *graph.Graph {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	path := cfg.DBPath
	if dbFlag != "" {
		path = dbFlag
	}
	g, err := graph.Open(path)
	if err != nil {
		exitWithError(ExitStoreError, "opening graph database: %v", err)
	}
	return g
}

func runPaper(cmd *cobra.Command, args []string) error {
	g := openGraph(paperDB)
	defer g.Close()

	p, err := g.GetPaper(args[0])
	if err != nil {
		exitWithError(ExitStoreError, "querying paper: %v", err)
	}
	if p == nil {
		exitWithError(ExitError, "paper not found: %s", args[0])
	}

	if humanOutput {
		fmt.Printf("%s\n", p.Title)
		if p.Year > 0 {
			fmt.Printf("  year: %d\n", p.Year)
		}
		fmt.Printf("  citations: %d\n", p.CitationCount)
		for _, a := range p.Authors {
			fmt.Printf("  author: %s\n", a.Name)
		}
		if p.Venue != nil {
			fmt.Printf("  venue: %s\n", p.Venue.Name)
		}
		if p.Abstract != "" {
			fmt.Printf("  %s\n", truncateString(p.Abstract, 200))
		}
		return nil
	}
	return outputJSON(p)
}
