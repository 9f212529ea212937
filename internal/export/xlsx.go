package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/folio-cv/folio/internal/citation"
	"github.com/folio-cv/folio/internal/publication"
)

// XLSXSheet is the worksheet holding the publication rows.
const XLSXSheet = "Publications"

// XLSXHeaders returns the header row: fixed columns then one per style.
func XLSXHeaders() []string {
	headers := []string{"ID", "Type", "Year", "Title", "Authors", "BibTeX Key"}
	for _, s := range citation.Styles() {
		headers = append(headers, string(s))
	}
	return headers
}

// WriteXLSX writes one row per publication, with every citation style
// rendered, to a spreadsheet at path.
func WriteXLSX(path string, pubs []publication.Publication) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := writeRow(f, 1, toCells(XLSXHeaders())); err != nil {
		return err
	}
	for i, p := range pubs {
		row := []any{p.ID, p.Type.DisplayName(), p.Year.String(), p.Title, p.Authors, CitationKey(p)}
		for _, s := range citation.Styles() {
			row = append(row, citation.Generate(p, s))
		}
		if err := writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(XLSXSheet, cell, v); err != nil {
			return fmt.Errorf("setting %s: %w", cell, err)
		}
	}
	return nil
}

func toCells(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
