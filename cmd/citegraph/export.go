package main

import (
	"fmt"
	"os"

	"github.com/matsen/citegraph/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportDB  string
	exportOut string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all stored papers as BibTeX",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDB, "db", "", "Graph database path (default from config)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	g := openGraph(exportDB)
	defer g.Close()

	papers, err := g.AllPapers()
	if err != nil {
		exitWithError(ExitStoreError, "reading papers: %v", err)
	}

	bib := export.ToBibTeXList(papers)
	if exportOut != "" {
		if err := os.WriteFile(exportOut, []byte(bib), 0o644); err != nil {
			exitWithError(ExitError, "writing %s: %v", exportOut, err)
		}
		logf("wrote %d entries to %s", len(papers), exportOut)
		return nil
	}
	fmt.Print(bib)
	return nil
}
