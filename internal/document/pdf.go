package document

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// LoadPDF extracts plain text from every page of the PDF at path.
// Pages are returned in order with a 0-based "page" metadata field.
// Pages without a content stream produce a unit with empty content.
func LoadPDF(path string) (units []TextUnit, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	// The pdf package panics on some malformed streams.
	defer func() {
		if rec := recover(); rec != nil {
			units = nil
			err = fmt.Errorf("failed to extract pdf text: %v", rec)
		}
	}()

	total := r.NumPage()
	units = make([]TextUnit, 0, total)
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		text := ""
		if !page.V.IsNull() {
			for _, name := range page.Fonts() {
				if _, ok := fonts[name]; !ok {
					font := page.Font(name)
					fonts[name] = &font
				}
			}
			text, err = page.GetPlainText(fonts)
			if err != nil {
				return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
			}
		}
		units = append(units, TextUnit{
			Content: text,
			Metadata: map[string]any{
				"source":      path,
				"page":        i - 1,
				"total_pages": total,
			},
		})
	}

	return units, nil
}
