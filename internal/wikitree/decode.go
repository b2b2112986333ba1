package wikitree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned for payloads that cannot be turned into a tree.
var ErrInvalidDocument = errors.New("invalid document")

// Format selects the wire encoding of a serialized tree.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForContentType picks a Format from an HTTP Content-Type value.
// Anything that is not recognisably YAML is treated as JSON.
func FormatForContentType(ct string) Format {
	ct = strings.ToLower(ct)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	switch strings.TrimSpace(ct) {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML
	}
	return FormatJSON
}

// rawNode is the tagged wire shape shared by the JSON and YAML encodings.
//
//	{"kind": "paragraph", "children": [{"kind": "text", "text": "Hi"}]}
type rawNode struct {
	Kind      string            `json:"kind" yaml:"kind"`
	Text      string            `json:"text,omitempty" yaml:"text,omitempty"`
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Resolved  string            `json:"resolved,omitempty" yaml:"resolved,omitempty"`
	CodePoint *int64            `json:"code_point,omitempty" yaml:"code_point,omitempty"`
	Protocol  string            `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Path      string            `json:"path,omitempty" yaml:"path,omitempty"`
	Target    string            `json:"target,omitempty" yaml:"target,omitempty"`
	Prefix    string            `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Postfix   string            `json:"postfix,omitempty" yaml:"postfix,omitempty"`
	Level     int               `json:"level,omitempty" yaml:"level,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children  []rawNode         `json:"children,omitempty" yaml:"children,omitempty"`
	Heading   []rawNode         `json:"heading,omitempty" yaml:"heading,omitempty"`
	Body      []rawNode         `json:"body,omitempty" yaml:"body,omitempty"`
	Title     []rawNode         `json:"title,omitempty" yaml:"title,omitempty"`
	Key       []rawNode         `json:"key,omitempty" yaml:"key,omitempty"`
	Args      []rawNode         `json:"args,omitempty" yaml:"args,omitempty"`
	Value     []rawNode         `json:"value,omitempty" yaml:"value,omitempty"`
	Default   []rawNode         `json:"default,omitempty" yaml:"default,omitempty"`
}

// Decode reads a serialized tree. The payload is either a single node object
// or an array of nodes, which becomes a NodeList.
func Decode(r io.Reader, format Format) (Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	switch format {
	case FormatYAML:
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// DecodeJSON decodes a JSON tree.
func DecodeJSON(data []byte) (Node, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidDocument)
	}
	if data[0] == '[' {
		var raws []rawNode
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return buildList(raws, "$")
	}
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return build(raw, "$")
}

// DecodeYAML decodes a YAML tree.
func DecodeYAML(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidDocument)
	}
	top := doc.Content[0]
	if top.Kind == yaml.SequenceNode {
		var raws []rawNode
		if err := top.Decode(&raws); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return buildList(raws, "$")
	}
	var raw rawNode
	if err := top.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return build(raw, "$")
}

func buildList(raws []rawNode, path string) (NodeList, error) {
	nodes, err := buildNodes(raws, path)
	if err != nil {
		return nil, err
	}
	return NodeList(nodes), nil
}

func buildNodes(raws []rawNode, path string) ([]Node, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	nodes := make([]Node, 0, len(raws))
	for i, raw := range raws {
		n, err := build(raw, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func build(raw rawNode, path string) (Node, error) {
	if raw.Kind == "" {
		return nil, fmt.Errorf("%w: %s: missing kind", ErrInvalidDocument, path)
	}
	kind, ok := KindFromString(raw.Kind)
	if !ok || kind == KindUnsupported {
		return &Unsupported{Name: raw.Kind}, nil
	}

	// Each list field is decoded under its own path so that errors point at
	// the offending child.
	list := func(field string, raws []rawNode) ([]Node, error) {
		return buildNodes(raws, path+"."+field)
	}

	switch kind {
	case KindNodeList:
		return buildList(raw.Children, path+".children")
	case KindPage:
		children, err := list("children", raw.Children)
		if err != nil {
			return nil, err
		}
		return &Page{Title: raw.Name, Children: children}, nil
	case KindText:
		return &Text{Content: raw.Text}, nil
	case KindWhitespace:
		return &Whitespace{}, nil
	case KindBold:
		children, err := list("children", raw.Children)
		if err != nil {
			return nil, err
		}
		return &Bold{Children: children}, nil
	case KindItalics:
		children, err := list("children", raw.Children)
		if err != nil {
			return nil, err
		}
		return &Italics{Children: children}, nil
	case KindCharRef:
		if raw.CodePoint == nil {
			return nil, fmt.Errorf("%w: %s: char_ref requires code_point", ErrInvalidDocument, path)
		}
		cp := *raw.CodePoint
		if cp < 0 || cp > utf8.MaxRune {
			return nil, fmt.Errorf("%w: %s: code point %d out of range", ErrInvalidDocument, path, cp)
		}
		return &CharRef{CodePoint: rune(cp)}, nil
	case KindEntityRef:
		if raw.Name == "" {
			return nil, fmt.Errorf("%w: %s: entity_ref requires name", ErrInvalidDocument, path)
		}
		return &EntityRef{Name: raw.Name, Resolved: raw.Resolved}, nil
	case KindURL:
		u := urlFromRaw(raw)
		return &u, nil
	case KindExternalLink:
		title, err := list("title", raw.Title)
		if err != nil {
			return nil, err
		}
		return &ExternalLink{Target: urlFromRaw(raw), Title: title}, nil
	case KindInternalLink:
		title, err := list("title", raw.Title)
		if err != nil {
			return nil, err
		}
		return &InternalLink{Target: raw.Target, Prefix: raw.Prefix, Postfix: raw.Postfix, Title: title}, nil
	case KindSection:
		if raw.Level < 0 {
			return nil, fmt.Errorf("%w: %s: negative section level %d", ErrInvalidDocument, path, raw.Level)
		}
		heading, err := list("heading", raw.Heading)
		if err != nil {
			return nil, err
		}
		body, err := list("body", raw.Body)
		if err != nil {
			return nil, err
		}
		return &Section{Level: raw.Level, Heading: heading, Body: body}, nil
	case KindParagraph:
		children, err := list("children", raw.Children)
		if err != nil {
			return nil, err
		}
		return &Paragraph{Children: children}, nil
	case KindHorizontalRule:
		return &HorizontalRule{}, nil
	case KindElement:
		body, err := list("body", raw.Body)
		if err != nil {
			return nil, err
		}
		return &Element{Name: raw.Name, Attrs: raw.Attrs, Body: body}, nil
	case KindListItem:
		children, err := list("children", raw.Children)
		if err != nil {
			return nil, err
		}
		return &ListItem{Children: children}, nil
	case KindImageLink:
		title, err := list("title", raw.Title)
		if err != nil {
			return nil, err
		}
		return &ImageLink{Target: raw.Target, Title: title}, nil
	case KindIllegalCodePoint:
		return &IllegalCodePoint{CodePoint: raw.Text}, nil
	case KindComment:
		return &Comment{Content: raw.Text}, nil
	case KindTemplate:
		name, err := list("key", raw.Key)
		if err != nil {
			return nil, err
		}
		args, err := list("args", raw.Args)
		if err != nil {
			return nil, err
		}
		return &Template{Name: name, Args: args}, nil
	case KindTemplateArgument:
		name, err := list("key", raw.Key)
		if err != nil {
			return nil, err
		}
		value, err := list("value", raw.Value)
		if err != nil {
			return nil, err
		}
		return &TemplateArgument{Name: name, Value: value}, nil
	case KindTemplateParameter:
		name, err := list("key", raw.Key)
		if err != nil {
			return nil, err
		}
		def, err := list("default", raw.Default)
		if err != nil {
			return nil, err
		}
		return &TemplateParameter{Name: name, Default: def}, nil
	case KindTagExtension:
		return &TagExtension{Name: raw.Name, Body: raw.Text}, nil
	}
	return &Unsupported{Name: raw.Kind}, nil
}

// urlFromRaw accepts either explicit protocol/path fields or a target string
// such as "https://example.org", split at its first colon.
func urlFromRaw(raw rawNode) URL {
	if raw.Protocol != "" || raw.Path != "" {
		return URL{Protocol: raw.Protocol, Path: raw.Path}
	}
	return ParseURL(raw.Target)
}

// ParseURL splits s at its first colon. Strings without a colon become a
// path with no protocol.
func ParseURL(s string) URL {
	proto, path, ok := strings.Cut(s, ":")
	if !ok {
		return URL{Path: s}
	}
	return URL{Protocol: proto, Path: path}
}
