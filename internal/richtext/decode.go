package richtext

import (
	"strconv"
	"strings"

	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
)

const maxDepth = 64

// Decode builds a tree from a decoded JSON rich-text document. A string value is
// treated as Markdown source.
func Decode(v any) (*Node, error) {
	switch doc := v.(type) {
	case nil:
		return nil, nil
	case string:
		return Markdown(doc), nil
	case map[string]any:
		n, err := decodeNode(doc, 0)
		if err != nil {
			return nil, err
		}
		if n.Kind != KindDocument {
			return nil, derrors.ValidationError("rich text root must be a document").
				WithContext("node_type", n.Kind.String()).
				Build()
		}
		return n, nil
	default:
		return nil, derrors.ValidationError("rich text field has unsupported shape").Build()
	}
}

func decodeNode(raw map[string]any, depth int) (*Node, error) {
	if depth > maxDepth {
		return nil, derrors.ValidationError("rich text document nested too deeply").Build()
	}
	nodeType, _ := raw["nodeType"].(string)
	n := &Node{Kind: kindOf(nodeType)}

	switch n.Kind {
	case KindHeading:
		n.Level, _ = strconv.Atoi(strings.TrimPrefix(nodeType, "heading-"))
	case KindText:
		n.Value, _ = raw["value"].(string)
		if marks, ok := raw["marks"].([]any); ok {
			for _, m := range marks {
				if mm, ok := m.(map[string]any); ok {
					if t, ok := mm["type"].(string); ok {
						n.Marks = append(n.Marks, Mark(t))
					}
				}
			}
		}
	case KindUnknown:
		n.Type = nodeType
	}

	if data, ok := raw["data"].(map[string]any); ok {
		n.URI, _ = data["uri"].(string)
		n.Target, _ = data["target"].(map[string]any)
	}
	n.Inline = nodeType == "embedded-entry-inline"

	if children, ok := raw["content"].([]any); ok {
		n.Children = make([]*Node, 0, len(children))
		for _, c := range children {
			cm, ok := c.(map[string]any)
			if !ok {
				continue
			}
			child, err := decodeNode(cm, depth+1)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
	}
	return n, nil
}

func kindOf(nodeType string) Kind {
	switch nodeType {
	case "document":
		return KindDocument
	case "paragraph":
		return KindParagraph
	case "heading-1", "heading-2", "heading-3", "heading-4", "heading-5", "heading-6":
		return KindHeading
	case "ordered-list":
		return KindOrderedList
	case "unordered-list":
		return KindUnorderedList
	case "list-item":
		return KindListItem
	case "blockquote":
		return KindQuote
	case "hr":
		return KindHR
	case "table":
		return KindTable
	case "table-row":
		return KindTableRow
	case "table-cell":
		return KindTableCell
	case "table-header-cell":
		return KindTableHeaderCell
	case "hyperlink":
		return KindHyperlink
	case "entry-hyperlink":
		return KindEntryHyperlink
	case "asset-hyperlink":
		return KindAssetHyperlink
	case "embedded-entry-block", "embedded-entry-inline":
		return KindEmbeddedEntry
	case "embedded-asset-block":
		return KindEmbeddedAsset
	case "text":
		return KindText
	default:
		return KindUnknown
	}
}
