package richtext

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeJSON(t *testing.T, src string) *Node {
	t.Helper()
	var raw any
	require.NoError(t, json.Unmarshal([]byte(src), &raw))
	doc, err := Decode(raw)
	require.NoError(t, err)
	return doc
}

const methodDoc = `{
  "nodeType": "document", "data": {},
  "content": [
    {"nodeType": "heading-2", "data": {}, "content": [{"nodeType": "text", "value": "Prep", "marks": [], "data": {}}]},
    {"nodeType": "ordered-list", "data": {}, "content": [
      {"nodeType": "list-item", "data": {}, "content": [
        {"nodeType": "paragraph", "data": {}, "content": [
          {"nodeType": "text", "value": "Boil ", "marks": [], "data": {}},
          {"nodeType": "text", "value": "pasta", "marks": [{"type": "bold"}, {"type": "italic"}], "data": {}}
        ]}
      ]}
    ]},
    {"nodeType": "paragraph", "data": {}, "content": [
      {"nodeType": "hyperlink", "data": {"uri": "https://example.com/?a=1&b=2"}, "content": [
        {"nodeType": "text", "value": "more", "marks": [], "data": {}}
      ]},
      {"nodeType": "hyperlink", "data": {"uri": "javascript:alert(1)"}, "content": [
        {"nodeType": "text", "value": "bad", "marks": [], "data": {}}
      ]}
    ]},
    {"nodeType": "hr", "data": {}, "content": []},
    {"nodeType": "embedded-asset-block", "data": {"target": {
      "sys": {"id": "a1", "type": "Asset"},
      "fields": {"title": "Dish", "file": {"url": "//img/dish.png", "details": {"image": {"width": 40, "height": 30}}}}
    }}, "content": []},
    {"nodeType": "embedded-entry-block", "data": {"target": {"sys": {"id": "e9"}}}, "content": []},
    {"nodeType": "fancy-new-block", "data": {}, "content": [
      {"nodeType": "text", "value": "<kept & escaped>", "marks": [], "data": {}}
    ]}
  ]
}`

func TestDecode(t *testing.T) {
	doc := decodeJSON(t, methodDoc)

	require.Equal(t, KindDocument, doc.Kind)
	require.Len(t, doc.Children, 7)
	require.Equal(t, KindHeading, doc.Children[0].Kind)
	require.Equal(t, 2, doc.Children[0].Level)
	require.Equal(t, KindOrderedList, doc.Children[1].Kind)
	require.Equal(t, KindUnknown, doc.Children[6].Kind)
	require.Equal(t, "fancy-new-block", doc.Children[6].Type)

	text := doc.Children[1].Children[0].Children[0].Children[1]
	require.Equal(t, []Mark{MarkBold, MarkItalic}, text.Marks)
	require.Equal(t, "PrepBoil pasta", doc.Children[0].Text()+doc.Children[1].Text())
}

func TestDecode_Shapes(t *testing.T) {
	doc, err := Decode(nil)
	require.NoError(t, err)
	require.Nil(t, doc)

	doc, err = Decode("1. Boil\n2. Bake")
	require.NoError(t, err)
	require.Equal(t, KindMarkdown, doc.Children[0].Kind)

	_, err = Decode(map[string]any{"nodeType": "paragraph"})
	require.Error(t, err)

	_, err = Decode(42.0)
	require.Error(t, err)
}

func TestConverter_HTML(t *testing.T) {
	out, err := NewConverter().HTML(decodeJSON(t, methodDoc))
	require.NoError(t, err)
	got := string(out)

	require.Contains(t, got, "<h2>Prep</h2>")
	require.Contains(t, got, "<ol><li><p>Boil <b><i>pasta</i></b></p></li></ol>")
	require.Contains(t, got, `<a href="https://example.com/?a=1&amp;b=2">more</a>`)
	require.NotContains(t, got, "javascript:")
	require.Contains(t, got, "bad")
	require.Contains(t, got, "<hr/>")
	require.Contains(t, got, `<img src="https://img/dish.png" alt="Dish" width="40" height="30"/>`)
	require.Contains(t, got, "&lt;kept &amp; escaped&gt;")
	require.NotContains(t, got, "e9")
}

func TestConverter_Markdown(t *testing.T) {
	out, err := NewConverter().HTML(Markdown("Mix **well**.\n\n<script>x()</script>"))
	require.NoError(t, err)
	got := string(out)

	require.Contains(t, got, "<strong>well</strong>")
	require.NotContains(t, got, "<script>")
}

func TestConverter_NilDocument(t *testing.T) {
	out, err := NewConverter().HTML(nil)
	require.NoError(t, err)
	require.Empty(t, strings.TrimSpace(string(out)))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "embedded-asset", KindEmbeddedAsset.String())
	require.Equal(t, "kind(99)", Kind(99).String())
}

func TestNodeText(t *testing.T) {
	doc := &Node{Kind: KindDocument, Children: []*Node{
		{Kind: KindParagraph, Children: []*Node{
			{Kind: KindText, Value: "Boil "},
			{Kind: KindHyperlink, Children: []*Node{{Kind: KindText, Value: "pasta"}}},
		}},
		nil,
		{Kind: KindParagraph, Children: []*Node{{Kind: KindText, Value: ", then drain."}}},
	}}
	require.Equal(t, "Boil pasta, then drain.", doc.Text())
	require.Equal(t, "# Title", Markdown("# Title").Text())

	var empty *Node
	require.Empty(t, empty.Text())
}
