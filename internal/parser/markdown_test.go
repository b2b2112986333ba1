package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/wikiplain/internal/wikitree"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", tree.Title)
	}

	// Top-level: one h1 ("Title")
	top := sectionsOf(tree.Children)
	if len(tree.Children) != 1 || len(top) != 1 {
		t.Fatalf("expected 1 top-level section (h1), got %d children", len(tree.Children))
	}

	h1 := top[0]
	if h1.Level != 1 || textOf(h1.Heading) != "Title" {
		t.Errorf("expected h1 %q, got level %d %q", "Title", h1.Level, textOf(h1.Heading))
	}

	// h1 body starts with "Intro text."
	if para, ok := h1.Body[0].(*wikitree.Paragraph); !ok || textOf(para.Children) != "Intro text." {
		t.Errorf("expected h1 body to start with the intro paragraph, got %#v", h1.Body[0])
	}

	// h1 has two h2 children: "Section A" and "Section B"
	h2s := sectionsOf(h1.Body)
	if len(h2s) != 2 {
		t.Fatalf("expected 2 h2 children, got %d", len(h2s))
	}

	secA := h2s[0]
	if textOf(secA.Heading) != "Section A" {
		t.Errorf("expected %q, got %q", "Section A", textOf(secA.Heading))
	}
	if !strings.Contains(textOf(secA.Body), "Section A content.") {
		t.Errorf("expected section A text to contain %q, got %q", "Section A content.", textOf(secA.Body))
	}

	// Section A has one h3 child
	h3s := sectionsOf(secA.Body)
	if len(h3s) != 1 {
		t.Fatalf("expected 1 h3 child under Section A, got %d", len(h3s))
	}
	if h3s[0].Level != 3 || textOf(h3s[0].Heading) != "Subsection A1" {
		t.Errorf("expected %q, got %q", "Subsection A1", textOf(h3s[0].Heading))
	}

	secB := h2s[1]
	if textOf(secB.Heading) != "Section B" {
		t.Errorf("expected %q, got %q", "Section B", textOf(secB.Heading))
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.`

	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No headings: paragraphs sit directly under the page.
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 paragraphs for headingless markdown, got %d", len(tree.Children))
	}

	want := "Just some plain text.\nAnother paragraph here.\n"
	if got := textOf(tree.Children); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownParser_MixedContentWithCodeBlocks(t *testing.T) {
	input := "# API Reference\n\nSome intro.\n\n## Endpoints\n\nList of endpoints:\n\n```\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should have one h1 child
	top := sectionsOf(tree.Children)
	if len(top) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(top))
	}

	h1 := top[0]
	if textOf(h1.Heading) != "API Reference" {
		t.Errorf("expected title %q, got %q", "API Reference", textOf(h1.Heading))
	}

	// h1 has one h2 child: "Endpoints"
	h2s := sectionsOf(h1.Body)
	if len(h2s) != 1 {
		t.Fatalf("expected 1 h2 child, got %d", len(h2s))
	}

	endpoints := h2s[0]
	if textOf(endpoints.Heading) != "Endpoints" {
		t.Errorf("expected title %q, got %q", "Endpoints", textOf(endpoints.Heading))
	}

	// The code block keeps one line per source line.
	body := textOf(endpoints.Body)
	if !strings.Contains(body, "GET /api/users\nPOST /api/users") {
		t.Errorf("expected code block lines in text, got %q", body)
	}
	if !strings.Contains(body, "More text after code.") {
		t.Errorf("expected post-code text, got %q", body)
	}
}

func TestMarkdownParser_InlineMarkup(t *testing.T) {
	input := "Some **bold** and *slanted* text, a [site](https://go.dev/doc) and a [page](Other_page).\n"

	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "inline.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(tree.Children))
	}
	para := tree.Children[0].(*wikitree.Paragraph)

	var bold, italics, ext, internal int
	for _, n := range para.Children {
		switch n := n.(type) {
		case *wikitree.Bold:
			bold++
		case *wikitree.Italics:
			italics++
		case *wikitree.ExternalLink:
			ext++
			if n.Target.Protocol != "https" || n.Target.Path != "//go.dev/doc" {
				t.Errorf("unexpected external target %+v", n.Target)
			}
		case *wikitree.InternalLink:
			internal++
			if n.Target != "Other_page" {
				t.Errorf("expected internal target %q, got %q", "Other_page", n.Target)
			}
		}
	}
	if bold != 1 || italics != 1 || ext != 1 || internal != 1 {
		t.Errorf("expected one of each inline kind, got bold=%d italics=%d ext=%d internal=%d", bold, italics, ext, internal)
	}

	want := "Some bold and slanted text, a site and a page.\n"
	if got := textOf(tree.Children); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownParser_ListsAndRules(t *testing.T) {
	input := "- one\n- two\n\n---\n\n<!-- note -->\n"

	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "list.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 4 {
		t.Fatalf("expected 2 items, a rule and a comment, got %d children", len(tree.Children))
	}
	for i := 0; i < 2; i++ {
		if _, ok := tree.Children[i].(*wikitree.ListItem); !ok {
			t.Errorf("child[%d]: expected list item, got %T", i, tree.Children[i])
		}
	}
	if _, ok := tree.Children[2].(*wikitree.HorizontalRule); !ok {
		t.Errorf("expected horizontal rule, got %T", tree.Children[2])
	}
	if _, ok := tree.Children[3].(*wikitree.Comment); !ok {
		t.Errorf("expected comment, got %T", tree.Children[3])
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(tree.Children))
	}
}

func TestMarkdownParser_TitleStripping(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
		{"plain.md", "plain"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		tree, err := p.Parse(strings.NewReader("text"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if tree.Title != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, tree.Title)
		}
	}
}
