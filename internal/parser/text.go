package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/wikiplain/internal/wikitree"
)

// TextParser handles plain text files.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*wikitree.Page, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var text strings.Builder
	for scanner.Scan() {
		text.WriteString(scanner.Text())
		text.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	page := &wikitree.Page{Title: trimExt(filename, ".txt")}

	// Each paragraph becomes a child node.
	for _, para := range splitParagraphs(text.String()) {
		page.Children = append(page.Children, textParagraph(para))
	}

	return page, nil
}
