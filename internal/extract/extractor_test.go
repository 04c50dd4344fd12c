package extract

import (
	"testing"
)

func TestExtractLines_BracketedMarkers(t *testing.T) {
	pages := []string{
		"References\n" +
			"[1] Smith, J. (2020). First paper. Venue A.\n" +
			"[2] Jones, K. (2021). Second paper\n" +
			"spanning two lines. Venue B.\n" +
			"[3] Lee, M. (2019). Third paper. Venue C.",
	}

	refs := ExtractLines(pages)

	if len(refs) != 3 {
		t.Fatalf("expected 3 references, got %d", len(refs))
	}
	if refs[0].Index != 1 || refs[1].Index != 2 || refs[2].Index != 3 {
		t.Errorf("expected indices 1,2,3, got %d,%d,%d", refs[0].Index, refs[1].Index, refs[2].Index)
	}
	want := "Jones, K. (2021). Second paper spanning two lines. Venue B."
	if refs[1].Text != want {
		t.Errorf("expected merged continuation %q, got %q", want, refs[1].Text)
	}
}

func TestExtractLines_NumberedMarkers(t *testing.T) {
	pages := []string{
		"12. Smith, J. (2020). A paper. Venue.\n" +
			"13. Jones, K. (2021). Another paper. Venue.",
	}

	refs := ExtractLines(pages)

	if len(refs) != 2 {
		t.Fatalf("expected 2 references, got %d", len(refs))
	}
	if refs[0].Index != 12 {
		t.Errorf("expected index 12 from the marker, got %d", refs[0].Index)
	}
	if refs[0].Text != "Smith, J. (2020). A paper. Venue." {
		t.Errorf("unexpected text %q", refs[0].Text)
	}
}

func TestExtractLines_BulletMarkersGetPositionalIndex(t *testing.T) {
	pages := []string{
		"• Smith, J. (2020). A paper. Venue.\n" +
			"• Jones, K. (2021). Another paper. Venue.",
	}

	refs := ExtractLines(pages)

	if len(refs) != 2 {
		t.Fatalf("expected 2 references, got %d", len(refs))
	}
	if refs[0].Index != 1 || refs[1].Index != 2 {
		t.Errorf("expected positional indices 1,2, got %d,%d", refs[0].Index, refs[1].Index)
	}
}

func TestExtractLines_NoMarkersFallsBackToNonBlankLines(t *testing.T) {
	pages := []string{
		"Smith, J, 2020, First paper, Venue A\n" +
			"\n" +
			"Jones, K, 2021, Second paper, Venue B\n" +
			"Lee, M, 2019, Third paper, Venue C\n",
	}

	refs := ExtractLines(pages)

	if len(refs) != 3 {
		t.Fatalf("expected 3 references from 3 non-blank lines, got %d", len(refs))
	}
	for i, ref := range refs {
		if ref.Index != i+1 {
			t.Errorf("expected index %d, got %d", i+1, ref.Index)
		}
	}
	if refs[1].Text != "Jones, K, 2021, Second paper, Venue B" {
		t.Errorf("unexpected text %q", refs[1].Text)
	}
}

func TestExtractLines_TextBeforeFirstMarkerDropped(t *testing.T) {
	pages := []string{
		"REFERENCES\n" +
			"Page 32 of 48\n" +
			"[1] Smith, J. (2020). A paper. Venue.",
	}

	refs := ExtractLines(pages)

	if len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(refs))
	}
	if refs[0].Text != "Smith, J. (2020). A paper. Venue." {
		t.Errorf("expected heading to be dropped, got %q", refs[0].Text)
	}
}

func TestExtractLines_SpansPageBoundary(t *testing.T) {
	pages := []string{
		"[1] Smith, J. (2020). A paper that breaks",
		"across the page boundary. Venue.\n[2] Jones, K. (2021). Next. Venue.",
	}

	refs := ExtractLines(pages)

	if len(refs) != 2 {
		t.Fatalf("expected 2 references, got %d", len(refs))
	}
	want := "Smith, J. (2020). A paper that breaks across the page boundary. Venue."
	if refs[0].Text != want {
		t.Errorf("expected %q, got %q", want, refs[0].Text)
	}
}

func TestExtractLines_Empty(t *testing.T) {
	if refs := ExtractLines(nil); len(refs) != 0 {
		t.Errorf("expected no references from no pages, got %d", len(refs))
	}
	if refs := ExtractLines([]string{"", "\n\n"}); len(refs) != 0 {
		t.Errorf("expected no references from blank pages, got %d", len(refs))
	}
}
