package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/wikiplain/internal/wikitree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*wikitree.Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := trimExt(filename, ".html", ".htm")
	// Extract title from <title> tag if present.
	if t := findTitle(doc); t != "" {
		title = t
	}

	w := &htmlWalker{b: &sectionBuilder{}}
	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		w.blocks(body)
	} else {
		w.blocks(doc)
	}
	w.flush()

	return w.b.page(title), nil
}

// htmlWalker walks block-level markup, gathering runs of inline content
// into paragraphs.
type htmlWalker struct {
	b       *sectionBuilder
	pending []wikitree.Node
}

func (w *htmlWalker) flush() {
	if hasText(w.pending) {
		w.b.add(&wikitree.Paragraph{Children: w.pending})
	}
	w.pending = nil
}

func (w *htmlWalker) blocks(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.block(c)
	}
}

func (w *htmlWalker) block(n *html.Node) {
	if n.Type != html.ElementNode || !blockTags[n.Data] {
		w.pending = append(w.pending, htmlInline(n)...)
		return
	}
	w.flush()

	if level := headingLevel(n.Data); level > 0 {
		w.b.heading(level, htmlInlines(n))
		return
	}

	switch n.Data {
	case "script", "style", "nav", "footer", "header", "noscript", "template":
		// Skip non-content elements.
	case "p", "td", "th", "dt", "dd", "caption", "figcaption":
		w.b.add(&wikitree.Paragraph{Children: htmlInlines(n)})
	case "li":
		w.b.add(&wikitree.ListItem{Children: []wikitree.Node{
			&wikitree.Paragraph{Children: htmlInlines(n)},
		}})
	case "hr":
		w.b.add(&wikitree.HorizontalRule{})
	case "pre":
		w.b.add(preformatted(strings.Split(strings.TrimRight(textContent(n), "\n"), "\n")))
	default:
		w.blocks(n)
		w.flush()
	}
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "caption": true, "dd": true, "div": true, "dl": true,
	"dt": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "html": true,
	"li": true, "main": true, "nav": true, "noscript": true, "ol": true,
	"p": true, "pre": true, "script": true, "section": true, "style": true,
	"table": true, "tbody": true, "td": true, "template": true,
	"tfoot": true, "th": true, "thead": true, "tr": true, "ul": true,
}

func htmlInlines(n *html.Node) []wikitree.Node {
	var out []wikitree.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, htmlInline(c)...)
	}
	return out
}

func htmlInline(n *html.Node) []wikitree.Node {
	switch n.Type {
	case html.TextNode:
		return []wikitree.Node{wikitree.T(n.Data)}
	case html.CommentNode:
		return []wikitree.Node{&wikitree.Comment{Content: n.Data}}
	case html.ElementNode:
	default:
		return nil
	}

	switch n.Data {
	case "script", "style":
		return nil
	case "br":
		return []wikitree.Node{&wikitree.Element{Name: "br"}}
	case "b", "strong":
		return []wikitree.Node{&wikitree.Bold{Children: htmlInlines(n)}}
	case "i", "em":
		return []wikitree.Node{&wikitree.Italics{Children: htmlInlines(n)}}
	case "a":
		href := attr(n, "href")
		if href == "" {
			return htmlInlines(n)
		}
		return []wikitree.Node{linkNode(href, htmlInlines(n))}
	case "img":
		img := &wikitree.ImageLink{Target: attr(n, "src")}
		if alt := attr(n, "alt"); alt != "" {
			img.Title = []wikitree.Node{wikitree.T(alt)}
		}
		return []wikitree.Node{img}
	}

	el := &wikitree.Element{Name: n.Data, Body: htmlInlines(n)}
	if len(n.Attr) > 0 {
		el.Attrs = make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			el.Attrs[a.Key] = a.Val
		}
	}
	return []wikitree.Node{el}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// hasText reports whether nodes carry anything beyond whitespace.
func hasText(nodes []wikitree.Node) bool {
	for _, n := range nodes {
		switch n := n.(type) {
		case *wikitree.Text:
			if strings.TrimSpace(n.Content) != "" {
				return true
			}
		case *wikitree.Comment:
		default:
			return true
		}
	}
	return false
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return strings.TrimSpace(textContent(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
