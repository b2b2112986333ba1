// Package wikitree is the typed, read-only document tree handed over by an
// external wiki-markup parser (or built by the source adapters in
// internal/parser).
package wikitree

// Kind identifies a node variant.
type Kind int

const (
	KindUnsupported Kind = iota
	KindNodeList
	KindPage
	KindText
	KindWhitespace
	KindBold
	KindItalics
	KindCharRef
	KindEntityRef
	KindURL
	KindExternalLink
	KindInternalLink
	KindSection
	KindParagraph
	KindHorizontalRule
	KindElement
	KindListItem
	KindImageLink
	KindIllegalCodePoint
	KindComment
	KindTemplate
	KindTemplateArgument
	KindTemplateParameter
	KindTagExtension
)

var kindNames = map[Kind]string{
	KindUnsupported:       "unsupported",
	KindNodeList:          "list",
	KindPage:              "page",
	KindText:              "text",
	KindWhitespace:        "whitespace",
	KindBold:              "bold",
	KindItalics:           "italics",
	KindCharRef:           "char_ref",
	KindEntityRef:         "entity_ref",
	KindURL:               "url",
	KindExternalLink:      "external_link",
	KindInternalLink:      "internal_link",
	KindSection:           "section",
	KindParagraph:         "paragraph",
	KindHorizontalRule:    "horizontal_rule",
	KindElement:           "element",
	KindListItem:          "list_item",
	KindImageLink:         "image_link",
	KindIllegalCodePoint:  "illegal_code_point",
	KindComment:           "comment",
	KindTemplate:          "template",
	KindTemplateArgument:  "template_argument",
	KindTemplateParameter: "template_parameter",
	KindTagExtension:      "tag_extension",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unsupported"
}

// KindFromString maps a wire name back to its Kind. Unknown names report false.
func KindFromString(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindUnsupported, false
}

// Node is implemented by every tree variant.
type Node interface {
	Kind() Kind
}

// NodeList is an anonymous container.
type NodeList []Node

// Page is the root container of a document.
type Page struct {
	Title    string
	Children []Node
}

// Text is literal text content.
type Text struct {
	Content string
}

// Whitespace is a run of insignificant whitespace.
type Whitespace struct{}

type Bold struct {
	Children []Node
}

type Italics struct {
	Children []Node
}

// CharRef is a numeric character reference such as &#8364;.
type CharRef struct {
	CodePoint rune
}

// EntityRef is a named reference such as &amp;. Resolved is empty when the
// parser did not know the entity.
type EntityRef struct {
	Name     string
	Resolved string
}

// URL is a bare URL, split at the first colon.
type URL struct {
	Protocol string
	Path     string
}

type ExternalLink struct {
	Target URL
	Title  []Node
}

// InternalLink is a [[target|title]] link. Prefix and Postfix carry the
// text glued to the brackets, as in "[[bird]]s".
type InternalLink struct {
	Target  string
	Prefix  string
	Postfix string
	Title   []Node
}

// Section is a heading plus the body that belongs to it.
type Section struct {
	Level   int
	Heading []Node
	Body    []Node
}

type Paragraph struct {
	Children []Node
}

type HorizontalRule struct{}

// Element is a generic XML-ish element such as <br/> or <span>.
type Element struct {
	Name  string
	Attrs map[string]string
	Body  []Node
}

type ListItem struct {
	Children []Node
}

type ImageLink struct {
	Target string
	Title  []Node
}

type IllegalCodePoint struct {
	CodePoint string
}

type Comment struct {
	Content string
}

type Template struct {
	Name []Node
	Args []Node
}

type TemplateArgument struct {
	Name  []Node
	Value []Node
}

type TemplateParameter struct {
	Name    []Node
	Default []Node
}

type TagExtension struct {
	Name string
	Body string
}

// Unsupported stands in for a node whose kind this package does not know.
type Unsupported struct {
	Name string
}

func (NodeList) Kind() Kind           { return KindNodeList }
func (*Page) Kind() Kind              { return KindPage }
func (*Text) Kind() Kind              { return KindText }
func (*Whitespace) Kind() Kind        { return KindWhitespace }
func (*Bold) Kind() Kind              { return KindBold }
func (*Italics) Kind() Kind           { return KindItalics }
func (*CharRef) Kind() Kind           { return KindCharRef }
func (*EntityRef) Kind() Kind         { return KindEntityRef }
func (*URL) Kind() Kind               { return KindURL }
func (*ExternalLink) Kind() Kind      { return KindExternalLink }
func (*InternalLink) Kind() Kind      { return KindInternalLink }
func (*Section) Kind() Kind           { return KindSection }
func (*Paragraph) Kind() Kind         { return KindParagraph }
func (*HorizontalRule) Kind() Kind    { return KindHorizontalRule }
func (*Element) Kind() Kind           { return KindElement }
func (*ListItem) Kind() Kind          { return KindListItem }
func (*ImageLink) Kind() Kind         { return KindImageLink }
func (*IllegalCodePoint) Kind() Kind  { return KindIllegalCodePoint }
func (*Comment) Kind() Kind           { return KindComment }
func (*Template) Kind() Kind          { return KindTemplate }
func (*TemplateArgument) Kind() Kind  { return KindTemplateArgument }
func (*TemplateParameter) Kind() Kind { return KindTemplateParameter }
func (*TagExtension) Kind() Kind      { return KindTagExtension }
func (*Unsupported) Kind() Kind       { return KindUnsupported }

// T is shorthand for a Text node.
func T(s string) *Text { return &Text{Content: s} }
