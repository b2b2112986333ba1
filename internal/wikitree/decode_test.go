package wikitree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_Page(t *testing.T) {
	payload := `{
	  "kind": "page",
	  "name": "Bird",
	  "children": [
	    {"kind": "paragraph", "children": [
	      {"kind": "text", "text": "A "},
	      {"kind": "internal_link", "target": "bird", "postfix": "s"},
	      {"kind": "char_ref", "code_point": 8364},
	      {"kind": "entity_ref", "name": "amp", "resolved": "&"}
	    ]},
	    {"kind": "section", "level": 2,
	     "heading": [{"kind": "text", "text": "Habitat"}],
	     "body": [{"kind": "external_link", "target": "https://example.org",
	               "title": [{"kind": "text", "text": "site"}]}]}
	  ]
	}`

	n, err := DecodeJSON([]byte(payload))
	require.NoError(t, err)

	page, ok := n.(*Page)
	require.True(t, ok, "expected *Page, got %T", n)
	assert.Equal(t, "Bird", page.Title)
	require.Len(t, page.Children, 2)

	para := page.Children[0].(*Paragraph)
	require.Len(t, para.Children, 4)
	assert.Equal(t, &Text{Content: "A "}, para.Children[0])
	assert.Equal(t, &InternalLink{Target: "bird", Postfix: "s"}, para.Children[1])
	assert.Equal(t, &CharRef{CodePoint: '€'}, para.Children[2])
	assert.Equal(t, &EntityRef{Name: "amp", Resolved: "&"}, para.Children[3])

	sec := page.Children[1].(*Section)
	assert.Equal(t, 2, sec.Level)
	require.Len(t, sec.Body, 1)
	link := sec.Body[0].(*ExternalLink)
	assert.Equal(t, URL{Protocol: "https", Path: "//example.org"}, link.Target)
	assert.Equal(t, []Node{&Text{Content: "site"}}, link.Title)
}

func TestDecodeYAML_TopLevelSequence(t *testing.T) {
	payload := `
- kind: paragraph
  children:
    - kind: text
      text: Hello
    - kind: whitespace
    - kind: template
      key:
        - kind: text
          text: infobox
- kind: horizontal_rule
`
	n, err := DecodeYAML([]byte(payload))
	require.NoError(t, err)

	list, ok := n.(NodeList)
	require.True(t, ok, "expected NodeList, got %T", n)
	require.Len(t, list, 2)
	para := list[0].(*Paragraph)
	require.Len(t, para.Children, 3)
	assert.IsType(t, &Whitespace{}, para.Children[1])
	assert.Equal(t, KindTemplate, para.Children[2].Kind())
	assert.Equal(t, KindHorizontalRule, list[1].Kind())
}

func TestDecode_UnknownKindBecomesUnsupported(t *testing.T) {
	n, err := DecodeJSON([]byte(`{"kind":"paragraph","children":[{"kind":"table"}]}`))
	require.NoError(t, err)
	para := n.(*Paragraph)
	assert.Equal(t, &Unsupported{Name: "table"}, para.Children[0])
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantMsg string
	}{
		{"empty", ``, "empty payload"},
		{"bad json", `{"kind":`, ""},
		{"missing kind", `{"children":[]}`, "missing kind"},
		{"nested missing kind", `{"kind":"paragraph","children":[{"text":"x"}]}`, "$.children[0]"},
		{"char ref without code point", `{"kind":"char_ref"}`, "code_point"},
		{"char ref out of range", `{"kind":"char_ref","code_point":1114112}`, "out of range"},
		{"entity without name", `{"kind":"entity_ref"}`, "requires name"},
		{"negative level", `{"kind":"section","level":-1}`, "negative section level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestDecode_ReaderDispatchesOnFormat(t *testing.T) {
	n, err := Decode(strings.NewReader("kind: text\ntext: hi\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, &Text{Content: "hi"}, n)

	n, err = Decode(strings.NewReader(`{"kind":"text","text":"hi"}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, &Text{Content: "hi"}, n)
}

func TestFormatForContentType(t *testing.T) {
	tests := []struct {
		ct   string
		want Format
	}{
		{"application/json", FormatJSON},
		{"application/yaml", FormatYAML},
		{"text/yaml; charset=utf-8", FormatYAML},
		{"application/x-yaml", FormatYAML},
		{"", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatForContentType(tt.ct); got != tt.want {
			t.Errorf("FormatForContentType(%q) = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestParseURL(t *testing.T) {
	assert.Equal(t, URL{Protocol: "mailto", Path: "a@b.org"}, ParseURL("mailto:a@b.org"))
	assert.Equal(t, URL{Path: "nocolon"}, ParseURL("nocolon"))
}

func TestKindRoundTripsThroughString(t *testing.T) {
	for k := KindUnsupported; k <= KindTagExtension; k++ {
		got, ok := KindFromString(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
}
