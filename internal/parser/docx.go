package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/wikiplain/internal/wikitree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*wikitree.Page, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, size, release, err := spoolTemp(r, "wikiplain-docx-*.docx")
	if err != nil {
		return nil, err
	}
	defer release()

	doc, err := docx.Parse(tmp, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	b := &sectionBuilder{}
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		// Check if paragraph has a heading style.
		level := docxHeadingLevel(para)
		inlines := docxParagraphNodes(doc, para)
		if !hasText(inlines) {
			continue
		}

		if level > 0 {
			b.heading(level, inlines)
		} else {
			b.add(&wikitree.Paragraph{Children: inlines})
		}
	}

	return b.page(trimExt(filename, ".docx")), nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if rest, ok := strings.CutPrefix(style, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	if style == "title" {
		return 1
	}
	return 0
}

// docxParagraphNodes maps runs to text, keeping bold and italic formatting
// and turning hyperlinks into links.
func docxParagraphNodes(doc *docx.Docx, para *docx.Paragraph) []wikitree.Node {
	var out []wikitree.Node
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			out = append(out, docxRun(c)...)
		case *docx.Hyperlink:
			title := docxRun(&c.Run)
			if len(title) == 0 && c.Run.InstrText != "" {
				title = []wikitree.Node{wikitree.T(c.Run.InstrText)}
			}
			if target, err := doc.ReferTarget(c.ID); err == nil && target != "" {
				out = append(out, linkNode(target, title))
			} else {
				out = append(out, title...)
			}
		}
	}
	return out
}

func docxRun(run *docx.Run) []wikitree.Node {
	var nodes []wikitree.Node
	for _, rc := range run.Children {
		switch c := rc.(type) {
		case *docx.Text:
			nodes = append(nodes, wikitree.T(c.Text))
		case *docx.BarterRabbet:
			nodes = append(nodes, &wikitree.Element{Name: "br"})
		case *docx.Tab:
			nodes = append(nodes, &wikitree.Whitespace{})
		}
	}
	if run.RunProperties == nil || len(nodes) == 0 {
		return nodes
	}
	if run.RunProperties.Italic != nil {
		nodes = []wikitree.Node{&wikitree.Italics{Children: nodes}}
	}
	if run.RunProperties.Bold != nil {
		nodes = []wikitree.Node{&wikitree.Bold{Children: nodes}}
	}
	return nodes
}
