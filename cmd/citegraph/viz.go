package main

import (
	"fmt"
	"os"

	"github.com/matsen/citegraph/internal/viz"
	"github.com/spf13/cobra"
)

var (
	vizDB  string
	vizOut string
)

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Emit the citation graph as Cytoscape.js elements JSON",
	RunE:  runViz,
}

func init() {
	rootCmd.AddCommand(vizCmd)
	vizCmd.Flags().StringVar(&vizDB, "db", "", "Graph database path (default from config)")
	vizCmd.Flags().StringVarP(&vizOut, "output", "o", "", "Write to file instead of stdout")
}

func runViz(cmd *cobra.Command, args []string) error {
	g := openGraph(vizDB)
	defer g.Close()

	data, err := viz.BuildGraph(g)
	if err != nil {
		exitWithError(ExitStoreError, "building graph data: %v", err)
	}
	if data.IsEmpty() {
		exitWithError(ExitError, "graph is empty, run 'citegraph build' first")
	}

	out, err := data.ToCytoscapeJSON()
	if err != nil {
		exitWithError(ExitError, "encoding graph: %v", err)
	}

	if vizOut != "" {
		if err := os.WriteFile(vizOut, []byte(out), 0o644); err != nil {
			exitWithError(ExitError, "writing %s: %v", vizOut, err)
		}
		logf("wrote %d nodes, %d edges to %s", len(data.Nodes), len(data.Edges), vizOut)
		return nil
	}
	fmt.Println(out)
	return nil
}
