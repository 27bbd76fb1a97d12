// Package extractor turns page-based statement documents into plain text
// lines. It is the implementation of the page-text capability the ledger
// pipeline consumes; the pipeline itself only sees a PageSource and never
// touches PDF internals.
package extractor

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageSource yields, for one document path, an ordered sequence of pages,
// each an ordered sequence of text lines.
type PageSource func(path string) ([][]string, error)

// PageLines reads a PDF and returns the text lines of each page. Rows are
// reconstructed from the library's positional output, top to bottom.
func PageLines(path string) (pages [][]string, err error) {
	// the pdf library panics on malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		lines, err := pageText(page)
		if err != nil {
			// a single unreadable page should not sink the document
			continue
		}
		pages = append(pages, lines)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}
	return pages, nil
}

func pageText(page pdf.Page) ([]string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, row := range rows {
		var sb strings.Builder
		for _, word := range row.Content {
			sb.WriteString(word.S)
			sb.WriteByte(' ')
		}
		if line := strings.TrimSpace(sb.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
