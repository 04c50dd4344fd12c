package s2

import "testing"

func TestParsePaperID(t *testing.T) {
	tests := []struct {
		in       string
		wantType string
		wantVal  string
	}{
		{"DOI:10.1038/nature12373", "DOI", "10.1038/nature12373"},
		{"doi:10.1038/nature12373", "DOI", "10.1038/nature12373"},
		{"ARXIV:2106.15928", "ARXIV", "2106.15928"},
		{"PMID:19872477", "PMID", "19872477"},
		{"PMCID:2323736", "PMCID", "2323736"},
		{"CorpusId:215416146", "CorpusId", "215416146"},
		{"649def34f8be52c8b66281af98ae884c09aef38b", "S2", "649def34f8be52c8b66281af98ae884c09aef38b"},
		{"local:0f1e2d3c", "LOCAL", "local:0f1e2d3c"},
		{"some random text", "LOCAL", "some random text"},
	}

	for _, tt := range tests {
		got := ParsePaperID(tt.in)
		if got.Type != tt.wantType || got.Value != tt.wantVal {
			t.Errorf("ParsePaperID(%q) = {%s %s}, want {%s %s}",
				tt.in, got.Type, got.Value, tt.wantType, tt.wantVal)
		}
	}
}

func TestPaperIdentifier_String(t *testing.T) {
	if s := (PaperIdentifier{Type: "DOI", Value: "10.1/x"}).String(); s != "DOI:10.1/x" {
		t.Errorf("unexpected string %q", s)
	}
	raw := "649def34f8be52c8b66281af98ae884c09aef38b"
	if s := (PaperIdentifier{Type: "S2", Value: raw}).String(); s != raw {
		t.Errorf("expected raw S2 id unprefixed, got %q", s)
	}
}

func TestPaperIdentifier_IsExternalID(t *testing.T) {
	if !(PaperIdentifier{Type: "DOI", Value: "10.1/x"}).IsExternalID() {
		t.Error("DOI should be external")
	}
	if (PaperIdentifier{Type: "LOCAL", Value: "anything"}).IsExternalID() {
		t.Error("LOCAL should not be external")
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://doi.org/10.1038/Nature12373", "10.1038/nature12373"},
		{"DOI:10.1038/nature12373", "10.1038/nature12373"},
		{"doi.org/10.1/X", "10.1/x"},
		{"  10.1/x  ", "10.1/x"},
	}
	for _, tt := range tests {
		if got := NormalizeDOI(tt.in); got != tt.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
