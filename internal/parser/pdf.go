package parser

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/dgallion1/wikiplain/internal/wikitree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if available.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*wikitree.Page, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, _, release, err := spoolTemp(r, "wikiplain-pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer release()
	tmpPath := tmp.Name()

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	page := &wikitree.Page{Title: trimExt(filename, ".pdf")}

	// One level-1 section per non-empty page.
	for i, pageText := range splitPages(text) {
		paragraphs := splitParagraphs(pageText)
		if len(paragraphs) == 0 {
			continue
		}
		sec := &wikitree.Section{
			Level:   1,
			Heading: []wikitree.Node{wikitree.T(fmt.Sprintf("Page %d", i+1))},
		}
		for _, para := range paragraphs {
			sec.Body = append(sec.Body, textParagraph(para))
		}
		page.Children = append(page.Children, sec)
	}

	return page, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

func splitPages(text string) []string {
	return strings.Split(text, "\f")
}
