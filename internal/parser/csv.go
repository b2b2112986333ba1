package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/wikiplain/internal/wikitree"
)

// CSVParser handles CSV files.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*wikitree.Page, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	page := &wikitree.Page{Title: trimExt(filename, ".csv")}
	if len(records) == 0 {
		return page, nil
	}

	// First row is headers.
	headers := records[0]

	// Group rows into batches of 20, one section each.
	const batchSize = 20
	dataRows := records[1:]

	for i := 0; i < len(dataRows); i += batchSize {
		end := min(i+batchSize, len(dataRows))

		sec := &wikitree.Section{
			Level:   1,
			Heading: []wikitree.Node{wikitree.T(fmt.Sprintf("Rows %d-%d", i+2, end+1))}, // 1-indexed, skip header
			Body:    []wikitree.Node{textParagraph("Headers: " + strings.Join(headers, ", "))},
		}
		for _, row := range dataRows[i:end] {
			sec.Body = append(sec.Body, textParagraph(csvRow(headers, row)))
		}
		page.Children = append(page.Children, sec)
	}

	return page, nil
}

func csvRow(headers, row []string) string {
	var text strings.Builder
	for j, cell := range row {
		if j < len(headers) {
			text.WriteString(headers[j] + ": " + cell)
		} else {
			text.WriteString(cell)
		}
		if j < len(row)-1 {
			text.WriteString(", ")
		}
	}
	return text.String()
}
