// Package plaintext renders a wikitree document as readable, line-wrapped
// plain text.
//
// Decorative markup (bold, italics, link brackets of internal links) is
// dropped, category links are treated as metadata and removed, and
// templates, comments, images and similar non-prose nodes produce no output.
// Node kinds the renderer does not know render as nothing.
package plaintext

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/dgallion1/wikiplain/internal/title"
	"github.com/dgallion1/wikiplain/internal/wikitree"
)

// Unbounded disables word wrapping.
const Unbounded = math.MaxInt

// ErrInvalidWrapColumn is returned by New for a non-positive wrap column.
var ErrInvalidWrapColumn = errors.New("wrap column must be positive")

// Config controls rendering.
type Config struct {
	WrapColumn        int            // Maximum line width; Unbounded for none.
	EnumerateSections bool           // Prefix headings with "1.2." style numbers.
	Resolver          title.Resolver // Defaults to title.DefaultNamespaces().
	Logger            *slog.Logger   // Defaults to slog.Default().
}

// DefaultConfig returns an unbounded, unnumbered configuration.
func DefaultConfig() Config {
	return Config{WrapColumn: Unbounded}
}

// Renderer holds validated configuration. It is safe for concurrent use;
// every Render call works on its own state.
type Renderer struct {
	wrapCol   int
	enumerate bool
	resolver  title.Resolver
	log       *slog.Logger
}

// New validates cfg and returns a Renderer.
func New(cfg Config) (*Renderer, error) {
	if cfg.WrapColumn <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWrapColumn, cfg.WrapColumn)
	}
	r := &Renderer{
		wrapCol:   cfg.WrapColumn,
		enumerate: cfg.EnumerateSections,
		resolver:  cfg.Resolver,
		log:       cfg.Logger,
	}
	if r.resolver == nil {
		r.resolver = title.DefaultNamespaces()
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	return r, nil
}

// Render converts the tree rooted at root to plain text. It never fails;
// a nil root renders as "".
func (r *Renderer) Render(root wikitree.Node) string {
	st := &renderState{
		Renderer: r,
		w:        newLineWriter(r.wrapCol),
	}
	st.walk(root)
	return st.w.finish()
}

// Render is a one-shot helper around New and Renderer.Render.
func Render(root wikitree.Node, cfg Config) (string, error) {
	r, err := New(cfg)
	if err != nil {
		return "", err
	}
	return r.Render(root), nil
}

// renderState is the per-call traversal state.
type renderState struct {
	*Renderer
	w        *lineWriter
	sections counters
}

func (s *renderState) walkAll(nodes []wikitree.Node) {
	for _, n := range nodes {
		s.walk(n)
	}
}

func (s *renderState) walk(n wikitree.Node) {
	switch n := n.(type) {
	case wikitree.NodeList:
		s.walkAll(n)
	case *wikitree.Page:
		s.walkAll(n.Children)
	case *wikitree.Text:
		s.w.write(n.Content)
	case *wikitree.Whitespace:
		s.w.write(" ")
	case *wikitree.Bold:
		s.walkAll(n.Children)
	case *wikitree.Italics:
		s.walkAll(n.Children)
	case *wikitree.CharRef:
		s.w.write(string(n.CodePoint))
	case *wikitree.EntityRef:
		if n.Resolved != "" {
			s.w.write(n.Resolved)
		} else {
			s.w.write("&" + n.Name + ";")
		}
	case *wikitree.URL:
		s.w.write(n.Protocol + ":" + n.Path)
	case *wikitree.ExternalLink:
		s.w.writeRune('[')
		s.walkAll(n.Title)
		s.w.writeRune(']')
	case *wikitree.InternalLink:
		s.internalLink(n)
	case *wikitree.Section:
		s.section(n)
	case *wikitree.Paragraph:
		s.walkAll(n.Children)
		s.w.blankLines(1)
	case *wikitree.HorizontalRule:
		s.w.blankLines(1)
	case *wikitree.Element:
		if strings.EqualFold(n.Name, "br") {
			s.w.blankLines(1)
		} else {
			s.walkAll(n.Body)
		}
	case *wikitree.ListItem:
		s.walkAll(n.Children)
	case *wikitree.ImageLink, *wikitree.IllegalCodePoint, *wikitree.Comment,
		*wikitree.Template, *wikitree.TemplateArgument, *wikitree.TemplateParameter,
		*wikitree.TagExtension:
		// Not prose.
	default:
		// Unknown kinds render as nothing.
	}
}

func (s *renderState) internalLink(link *wikitree.InternalLink) {
	t, err := s.resolver.Resolve(link.Target)
	if err != nil {
		s.log.Warn("unresolvable link target", "target", link.Target, "error", err)
	} else if t.IsCategory() {
		return
	}

	s.w.write(link.Prefix)
	if len(link.Title) == 0 {
		s.w.write(link.Target)
	} else {
		s.walkAll(link.Title)
	}
	s.w.write(link.Postfix)
}

func (s *renderState) section(sec *wikitree.Section) {
	s.w.flushLine()

	heading := s.headingText(sec.Heading)
	if sec.Level >= 1 {
		s.sections.enter(sec.Level)
		if s.enumerate {
			heading = s.sections.prefix() + heading
		}
	}

	s.w.blankLines(1)
	saved := s.w.noWrap
	s.w.noWrap = true
	s.w.write(heading)
	s.w.noWrap = saved
	s.w.blankLines(1)

	s.walkAll(sec.Body)

	s.sections.leave(sec.Level)
}

// headingText renders heading nodes on their own unwrapped writer and trims
// the result.
func (s *renderState) headingText(nodes []wikitree.Node) string {
	outer := s.w
	s.w = newLineWriter(s.wrapCol)
	s.w.noWrap = true
	s.walkAll(nodes)
	text := strings.TrimSpace(s.w.finish())
	s.w = outer
	return text
}
