// Package main provides the citegraph CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	// Credentials may live in a .env next to the working directory.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citegraph",
	Short: "Build academic citation graphs from PDF bibliographies",
	Long: `citegraph turns a paper's PDF bibliography into a citation graph.

It extracts reference lines from the PDF's bibliography pages, resolves
each one against Semantic Scholar, and writes papers, authors, venues, and
citation edges into a local SQLite graph. With --network it also walks each
resolved paper's citing and cited papers under configurable fan-out caps.

All commands output JSON by default for easy scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
