package viz

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/citegraph/internal/graph"
	"github.com/matsen/citegraph/internal/s2"
)

func testStore(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening graph: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func TestBuildGraph(t *testing.T) {
	g := testStore(t)

	if _, err := g.AddPaper(&s2.Paper{
		PaperID: "p1", Title: "Seed", Year: 2022, CitationCount: 3,
		Authors: []s2.Author{{AuthorID: "a1", Name: "Alice"}, {AuthorID: "a2", Name: "Bob"}},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddPaper(&s2.Paper{PaperID: "p2", Title: "Cited"}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.UpsertCites("p1", "p2"); err != nil {
		t.Fatal(err)
	}

	data, err := BuildGraph(g)
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	if data.IsEmpty() {
		t.Fatal("expected a non-empty graph")
	}
	if len(data.Nodes) != 2 || len(data.Edges) != 1 {
		t.Fatalf("expected 2 nodes and 1 edge, got %d and %d", len(data.Nodes), len(data.Edges))
	}

	var seed *Node
	for i := range data.Nodes {
		if data.Nodes[i].ID == "p1" {
			seed = &data.Nodes[i]
		}
	}
	if seed == nil {
		t.Fatal("seed node missing")
	}
	if seed.Authors != "Alice, Bob" {
		t.Errorf("expected comma-joined authors, got %q", seed.Authors)
	}
	if seed.Year != 2022 || seed.CitationCount != 3 {
		t.Errorf("unexpected node %+v", seed)
	}
	if data.Edges[0].Source != "p1" || data.Edges[0].Target != "p2" {
		t.Errorf("unexpected edge %+v", data.Edges[0])
	}
}

func TestNewPaperNode_TruncatesLabel(t *testing.T) {
	long := strings.Repeat("x", 60)
	n := newPaperNode(&graph.PaperRecord{PaperID: "p1", Title: long})

	if len(n.Label) != 40 || !strings.HasSuffix(n.Label, "...") {
		t.Errorf("expected a 40-char truncated label, got %q (%d)", n.Label, len(n.Label))
	}
	if n.Title != long {
		t.Error("expected the full title preserved in the node data")
	}
}

func TestToCytoscapeJSON(t *testing.T) {
	data := &GraphData{
		Nodes: []Node{{ID: "p1", Label: "Seed", Title: "Seed"}},
		Edges: []Edge{{Source: "p1", Target: "p2"}},
	}

	out, err := data.ToCytoscapeJSON()
	if err != nil {
		t.Fatalf("ToCytoscapeJSON: %v", err)
	}

	var elements CytoscapeElements
	if err := json.Unmarshal([]byte(out), &elements); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(elements.Nodes) != 1 || elements.Nodes[0].Data.ID != "p1" {
		t.Errorf("unexpected nodes %+v", elements.Nodes)
	}
	if len(elements.Edges) != 1 || elements.Edges[0].Data.ID != "p1-p2" {
		t.Errorf("unexpected edges %+v", elements.Edges)
	}
}
