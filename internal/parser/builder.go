package parser

import (
	"strings"

	"github.com/dgallion1/wikiplain/internal/wikitree"
)

// sectionBuilder nests content under headings by level: a heading closes
// every open section at the same or a deeper level.
type sectionBuilder struct {
	root  []wikitree.Node
	stack []*wikitree.Section
}

func (b *sectionBuilder) heading(level int, heading []wikitree.Node) {
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].Level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	sec := &wikitree.Section{Level: level, Heading: heading}
	b.add(sec)
	b.stack = append(b.stack, sec)
}

func (b *sectionBuilder) add(nodes ...wikitree.Node) {
	if len(nodes) == 0 {
		return
	}
	if len(b.stack) == 0 {
		b.root = append(b.root, nodes...)
		return
	}
	top := b.stack[len(b.stack)-1]
	top.Body = append(top.Body, nodes...)
}

func (b *sectionBuilder) page(title string) *wikitree.Page {
	return &wikitree.Page{Title: title, Children: b.root}
}

// splitParagraphs splits text on blank lines, keeping line breaks inside a
// paragraph.
func splitParagraphs(text string) []string {
	var paragraphs []string
	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(strings.TrimRight(line, "\r"))
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return paragraphs
}

// textParagraph wraps plain text in a paragraph node.
func textParagraph(s string) *wikitree.Paragraph {
	return &wikitree.Paragraph{Children: []wikitree.Node{wikitree.T(s)}}
}

// preformatted keeps source lines apart with explicit line breaks.
func preformatted(lines []string) *wikitree.Paragraph {
	pre := &wikitree.Element{Name: "pre"}
	for i, line := range lines {
		if i > 0 {
			pre.Body = append(pre.Body, &wikitree.Element{Name: "br"})
		}
		pre.Body = append(pre.Body, wikitree.T(line))
	}
	return &wikitree.Paragraph{Children: []wikitree.Node{pre}}
}

func trimExt(filename string, exts ...string) string {
	for _, ext := range exts {
		if strings.HasSuffix(strings.ToLower(filename), ext) {
			return filename[:len(filename)-len(ext)]
		}
	}
	return filename
}
