package parser

import (
	"io"
	"net/url"
	"strings"

	"github.com/dgallion1/wikiplain/internal/wikitree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*wikitree.Page, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	// Top-level headings open sections; everything else lands in the
	// innermost open one.
	b := &sectionBuilder{}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			b.heading(h.Level, mdInlines(h, src))
			continue
		}
		b.add(mdBlock(n, src)...)
	}

	return b.page(trimExt(filename, ".md", ".markdown")), nil
}

func mdBlocks(parent ast.Node, src []byte) []wikitree.Node {
	var out []wikitree.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, mdBlock(c, src)...)
	}
	return out
}

func mdBlock(n ast.Node, src []byte) []wikitree.Node {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
		// Headings nested in lists or quotes do not open sections.
		return []wikitree.Node{&wikitree.Paragraph{Children: mdInlines(node, src)}}
	case *ast.ThematicBreak:
		return []wikitree.Node{&wikitree.HorizontalRule{}}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return []wikitree.Node{preformatted(mdLines(node, src))}
	case *ast.List:
		var items []wikitree.Node
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			items = append(items, &wikitree.ListItem{Children: mdBlocks(c, src)})
		}
		return items
	case *ast.HTMLBlock:
		raw := strings.Join(mdLines(node, src), "\n")
		if node.HasClosure() {
			raw += string(node.ClosureLine.Value(src))
		}
		if strings.HasPrefix(strings.TrimSpace(raw), "<!--") {
			return []wikitree.Node{&wikitree.Comment{Content: raw}}
		}
		return []wikitree.Node{&wikitree.TagExtension{Name: "html", Body: raw}}
	default:
		return mdBlocks(node, src)
	}
}

func mdLines(n ast.Node, src []byte) []string {
	lines := n.Lines()
	out := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		out = append(out, strings.TrimRight(string(line.Value(src)), "\r\n"))
	}
	return out
}

func mdInlines(parent ast.Node, src []byte) []wikitree.Node {
	var out []wikitree.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			out = append(out, wikitree.T(string(node.Value(src))))
			if node.HardLineBreak() {
				out = append(out, &wikitree.Element{Name: "br"})
			} else if node.SoftLineBreak() {
				out = append(out, &wikitree.Whitespace{})
			}
		case *ast.String:
			out = append(out, wikitree.T(string(node.Value)))
		case *ast.Emphasis:
			if node.Level >= 2 {
				out = append(out, &wikitree.Bold{Children: mdInlines(node, src)})
			} else {
				out = append(out, &wikitree.Italics{Children: mdInlines(node, src)})
			}
		case *ast.Link:
			out = append(out, linkNode(string(node.Destination), mdInlines(node, src)))
		case *ast.AutoLink:
			u := wikitree.ParseURL(string(node.URL(src)))
			out = append(out, &u)
		case *ast.Image:
			out = append(out, &wikitree.ImageLink{
				Target: string(node.Destination),
				Title:  mdInlines(node, src),
			})
		case *ast.RawHTML:
			out = append(out, rawHTMLNode(node, src)...)
		default:
			out = append(out, mdInlines(node, src)...)
		}
	}
	return out
}

func rawHTMLNode(n *ast.RawHTML, src []byte) []wikitree.Node {
	var buf strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		buf.Write(seg.Value(src))
	}
	raw := strings.TrimSpace(buf.String())
	switch {
	case strings.HasPrefix(raw, "<!--"):
		return []wikitree.Node{&wikitree.Comment{Content: raw}}
	case isBreakTag(raw):
		return []wikitree.Node{&wikitree.Element{Name: "br"}}
	}
	return nil
}

func isBreakTag(raw string) bool {
	tag := strings.ToLower(strings.ReplaceAll(raw, " ", ""))
	return tag == "<br>" || tag == "<br/>"
}

// linkNode maps a link with a URL scheme to an external link and anything
// else to an internal one.
func linkNode(dest string, title []wikitree.Node) wikitree.Node {
	if u, err := url.Parse(dest); err == nil && u.Scheme != "" {
		return &wikitree.ExternalLink{Target: wikitree.ParseURL(dest), Title: title}
	}
	return &wikitree.InternalLink{Target: dest, Title: title}
}
