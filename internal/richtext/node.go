// Package richtext models structured rich-text documents as a tree of tagged
// nodes and converts them to HTML.
package richtext

import (
	"fmt"
	"strings"
)

// Kind tags a node. Every kind is handled by the HTML converter.
type Kind int

const (
	KindUnknown Kind = iota
	KindDocument
	KindParagraph
	KindHeading
	KindOrderedList
	KindUnorderedList
	KindListItem
	KindQuote
	KindHR
	KindTable
	KindTableRow
	KindTableCell
	KindTableHeaderCell
	KindHyperlink
	KindEntryHyperlink
	KindAssetHyperlink
	KindEmbeddedEntry
	KindEmbeddedAsset
	KindText
	KindMarkdown
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindDocument:        "document",
	KindParagraph:       "paragraph",
	KindHeading:         "heading",
	KindOrderedList:     "ordered-list",
	KindUnorderedList:   "unordered-list",
	KindListItem:        "list-item",
	KindQuote:           "blockquote",
	KindHR:              "hr",
	KindTable:           "table",
	KindTableRow:        "table-row",
	KindTableCell:       "table-cell",
	KindTableHeaderCell: "table-header-cell",
	KindHyperlink:       "hyperlink",
	KindEntryHyperlink:  "entry-hyperlink",
	KindAssetHyperlink:  "asset-hyperlink",
	KindEmbeddedEntry:   "embedded-entry",
	KindEmbeddedAsset:   "embedded-asset",
	KindText:            "text",
	KindMarkdown:        "markdown",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Mark is an inline text decoration.
type Mark string

const (
	MarkBold          Mark = "bold"
	MarkItalic        Mark = "italic"
	MarkUnderline     Mark = "underline"
	MarkCode          Mark = "code"
	MarkSuperscript   Mark = "superscript"
	MarkSubscript     Mark = "subscript"
	MarkStrikethrough Mark = "strikethrough"
)

// Node is one element of a document tree.
type Node struct {
	Kind Kind
	// Level is the heading level (1-6) for KindHeading.
	Level int
	// Value is the text of KindText and the source of KindMarkdown.
	Value string
	Marks []Mark
	// URI is the target of KindHyperlink.
	URI string
	// Target is the resolved entry or asset for embedded and linked kinds.
	Target   map[string]any
	Inline   bool
	Children []*Node
	// Type is the source node type for KindUnknown.
	Type string
}

// Markdown wraps Markdown source as a single-node document.
func Markdown(src string) *Node {
	return &Node{Kind: KindDocument, Children: []*Node{{Kind: KindMarkdown, Value: src}}}
}

// Text returns the concatenated text of the subtree.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText || n.Kind == KindMarkdown {
		return n.Value
	}
	var b strings.Builder
	n.appendText(&b)
	return b.String()
}

func (n *Node) appendText(b *strings.Builder) {
	if n == nil {
		return
	}
	if n.Kind == KindText || n.Kind == KindMarkdown {
		b.WriteString(n.Value)
		return
	}
	for _, c := range n.Children {
		c.appendText(b)
	}
}
