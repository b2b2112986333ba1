package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/wikiplain/internal/wikitree"
)

func TestHTMLParser_StructureAndInline(t *testing.T) {
	input := `<html><head><title>My Page</title></head><body>` +
		`<h1>Top</h1><p>Hello <b>bold</b> <a href="https://go.dev">Go</a></p>` +
		`<div>loose text</div><ul><li>one</li><li>two</li></ul><script>x()</script>` +
		`<h2>Sub</h2><p>deep</p></body></html>`

	p := &HTMLParser{}
	tree, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "My Page" {
		t.Errorf("expected title %q, got %q", "My Page", tree.Title)
	}

	top := sectionsOf(tree.Children)
	if len(tree.Children) != 1 || len(top) != 1 {
		t.Fatalf("expected a single h1 section, got %d children", len(tree.Children))
	}
	h1 := top[0]
	if textOf(h1.Heading) != "Top" {
		t.Errorf("expected heading %q, got %q", "Top", textOf(h1.Heading))
	}
	if len(h1.Body) != 5 {
		t.Fatalf("expected 2 paragraphs, 2 list items and a section, got %d nodes", len(h1.Body))
	}

	want := "Hello bold Go\nloose text\none\ntwo\nSub\ndeep\n"
	if got := textOf(h1.Body); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if strings.Contains(textOf(h1.Body), "x()") {
		t.Error("script content leaked into the tree")
	}

	para := h1.Body[0].(*wikitree.Paragraph)
	var link *wikitree.ExternalLink
	for _, n := range para.Children {
		if l, ok := n.(*wikitree.ExternalLink); ok {
			link = l
		}
	}
	if link == nil || link.Target.Protocol != "https" {
		t.Errorf("expected an https external link, got %#v", link)
	}
}

func TestHTMLParser_TitleFallsBackToFilename(t *testing.T) {
	p := &HTMLParser{}
	tree, err := p.Parse(strings.NewReader("<p>x</p>"), "index.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "index" {
		t.Errorf("expected title %q, got %q", "index", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Errorf("expected 1 paragraph, got %d", len(tree.Children))
	}
}

func TestHTMLParser_WhitespaceBetweenBlocks(t *testing.T) {
	input := "<body>\n  <p>one</p>\n  <p>two</p>\n</body>"
	p := &HTMLParser{}
	tree, err := p.Parse(strings.NewReader(input), "ws.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(tree.Children))
	}
}
