// Package pdf extracts page text and DOIs from PDF files.
package pdf

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader extracts text from PDF files. It implements the pipeline's page
// source boundary.
type Reader struct{}

// NewReader creates a PDF reader.
func NewReader() *Reader {
	return &Reader{}
}

// PageTexts returns the plain text of the requested pages (1-based), in
// the given order. Pages outside the document are skipped; a page whose
// text cannot be extracted yields an empty string rather than an error, so
// a single bad page never sinks the run.
func (r *Reader) PageTexts(path string, pages []int) ([]string, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var texts []string
	for _, n := range pages {
		if n < 1 || n > doc.NumPage() {
			continue
		}
		page := doc.Page(n)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, text)
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf("no extractable pages in %s (requested %v)", path, pages)
	}
	return texts, nil
}

// DOI scans the first few pages for a DOI. Returns empty (not an error)
// when none is found.
func (r *Reader) DOI(path string) (string, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	// The DOI is almost always on the first page.
	maxPages := 3
	if doc.NumPage() < maxPages {
		maxPages = doc.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := findDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// NumPages returns the page count of a PDF.
func NumPages(path string) (int, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()
	return doc.NumPage(), nil
}

// trimDOI strips punctuation a DOI regex match tends to drag along.
func trimDOI(match string) string {
	return strings.TrimRight(match, ".,;:)")
}
