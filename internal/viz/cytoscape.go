// Package viz renders the citation graph in Cytoscape.js element format.
package viz

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matsen/citegraph/internal/graph"
)

// GraphData contains the nodes and edges to render.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a paper in the visualization.
type Node struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Title         string `json:"title"`
	Authors       string `json:"authors,omitempty"`
	Year          int    `json:"year,omitempty"`
	CitationCount int    `json:"citationCount"`
}

// Edge is a CITES relationship in the visualization.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// BuildGraph reads every paper and CITES edge from the store into a
// GraphData for rendering.
func BuildGraph(g *graph.Graph) (*GraphData, error) {
	papers, err := g.AllPapers()
	if err != nil {
		return nil, err
	}
	cites, err := g.AllCites()
	if err != nil {
		return nil, err
	}

	data := &GraphData{
		Nodes: make([]Node, 0, len(papers)),
		Edges: make([]Edge, 0, len(cites)),
	}

	for _, p := range papers {
		full, err := g.GetPaper(p.PaperID)
		if err != nil {
			return nil, fmt.Errorf("retrieving paper %s: %w", p.PaperID, err)
		}
		data.Nodes = append(data.Nodes, newPaperNode(full))
	}

	for _, e := range cites {
		data.Edges = append(data.Edges, Edge{Source: e.SourceID, Target: e.TargetID})
	}

	return data, nil
}

// newPaperNode creates a visualization node from a stored paper, labeled
// by a truncated title.
func newPaperNode(p *graph.PaperRecord) Node {
	label := p.Title
	if len(label) > 40 {
		label = label[:37] + "..."
	}
	return Node{
		ID:            p.PaperID,
		Label:         label,
		Title:         p.Title,
		Authors:       authorsToString(p.Authors),
		Year:          p.Year,
		CitationCount: p.CitationCount,
	}
}

// authorsToString joins author names with commas.
func authorsToString(authors []graph.AuthorRecord) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// CytoscapeElements is the Cytoscape.js data format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode wraps a node in Cytoscape.js format.
type CytoscapeNode struct {
	Data Node `json:"data"`
}

// CytoscapeEdge wraps an edge in Cytoscape.js format.
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains the edge data fields.
type CytoscapeEdgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// ToCytoscapeJSON converts GraphData to Cytoscape.js JSON.
func (g *GraphData) ToCytoscapeJSON() (string, error) {
	elements := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(g.Nodes)),
		Edges: make([]CytoscapeEdge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		elements.Nodes = append(elements.Nodes, CytoscapeNode{Data: n})
	}
	for _, e := range g.Edges {
		elements.Edges = append(elements.Edges, CytoscapeEdge{
			Data: CytoscapeEdgeData{
				ID:     e.Source + "-" + e.Target,
				Source: e.Source,
				Target: e.Target,
			},
		})
	}

	jsonBytes, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("marshaling Cytoscape elements: %w", err)
	}
	return string(jsonBytes), nil
}
