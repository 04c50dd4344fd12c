package pdf

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"plain",
			"This article: https://doi.org/10.1145/3502289 appeared in 2022.",
			"10.1145/3502289",
		},
		{
			"trailing punctuation trimmed",
			"See 10.1038/nature12373. for details",
			"10.1038/nature12373",
		},
		{
			"first of several",
			"DOI 10.1145/3502289 cites 10.1038/nature12373",
			"10.1145/3502289",
		},
		{
			"none",
			"no identifiers in this text",
			"",
		},
		{
			"too short rejected",
			"version 10.0001/x of the tool",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findDOI(tt.text); got != tt.want {
				t.Errorf("findDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsValidDOI(t *testing.T) {
	if !isValidDOI("10.1145/3502289") {
		t.Error("expected a normal DOI to validate")
	}
	if isValidDOI("10.1145/") {
		t.Error("expected a DOI with nothing after the slash to fail")
	}
	if isValidDOI("11.1145/3502289") {
		t.Error("expected a non-10 prefix to fail")
	}
}
