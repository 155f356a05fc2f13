package richtext

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/recipebook/internal/content"
	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
)

// Converter renders documents to HTML. It is safe for concurrent use.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter returns a converter. Raw HTML inside Markdown sources is not
// passed through.
func NewConverter() *Converter {
	return &Converter{md: goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))}
}

// HTML renders the document. A nil document renders as empty markup.
func (c *Converter) HTML(doc *Node) (template.HTML, error) {
	if doc == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := c.render(&buf, doc); err != nil {
		return "", err
	}
	// Output is built from escaped text and fixed tags only.
	return template.HTML(buf.String()), nil //nolint:gosec
}

var markTags = map[Mark]string{
	MarkBold:          "b",
	MarkItalic:        "i",
	MarkUnderline:     "u",
	MarkCode:          "code",
	MarkSuperscript:   "sup",
	MarkSubscript:     "sub",
	MarkStrikethrough: "s",
}

var blockTags = map[Kind]string{
	KindParagraph:       "p",
	KindOrderedList:     "ol",
	KindUnorderedList:   "ul",
	KindListItem:        "li",
	KindQuote:           "blockquote",
	KindTable:           "table",
	KindTableRow:        "tr",
	KindTableCell:       "td",
	KindTableHeaderCell: "th",
}

func (c *Converter) render(buf *bytes.Buffer, n *Node) error {
	switch n.Kind {
	case KindDocument, KindUnknown:
		return c.children(buf, n)

	case KindParagraph, KindOrderedList, KindUnorderedList, KindListItem, KindQuote,
		KindTable, KindTableRow, KindTableCell, KindTableHeaderCell:
		tag := blockTags[n.Kind]
		fmt.Fprintf(buf, "<%s>", tag)
		if err := c.children(buf, n); err != nil {
			return err
		}
		fmt.Fprintf(buf, "</%s>", tag)
		return nil

	case KindHeading:
		level := min(max(n.Level, 1), 6)
		fmt.Fprintf(buf, "<h%d>", level)
		if err := c.children(buf, n); err != nil {
			return err
		}
		fmt.Fprintf(buf, "</h%d>", level)
		return nil

	case KindHR:
		buf.WriteString("<hr/>")
		return nil

	case KindHyperlink:
		return c.link(buf, n, n.URI)

	case KindAssetHyperlink:
		href, _ := assetFile(n.Target)
		return c.link(buf, n, href)

	case KindEntryHyperlink:
		buf.WriteString("<span>")
		if err := c.children(buf, n); err != nil {
			return err
		}
		buf.WriteString("</span>")
		return nil

	case KindEmbeddedAsset:
		src, ok := assetFile(n.Target)
		if !ok {
			return nil
		}
		title, _ := content.Lookup(n.Target, "fields", "title")
		alt, _ := title.(string)
		fmt.Fprintf(buf, `<img src="%s" alt="%s"`, html.EscapeString(src), html.EscapeString(alt))
		if w, h, ok := assetSize(n.Target); ok {
			fmt.Fprintf(buf, ` width="%d" height="%d"`, w, h)
		}
		buf.WriteString("/>")
		return nil

	case KindEmbeddedEntry:
		return nil

	case KindText:
		c.text(buf, n)
		return nil

	case KindMarkdown:
		if err := c.md.Convert([]byte(n.Value), buf); err != nil {
			return derrors.WrapError(err, derrors.CategoryRender, "render markdown").Build()
		}
		return nil

	default:
		return derrors.RenderError("unhandled rich text node").WithContext("kind", n.Kind.String()).Build()
	}
}

func (c *Converter) children(buf *bytes.Buffer, n *Node) error {
	for _, child := range n.Children {
		if err := c.render(buf, child); err != nil {
			return err
		}
	}
	return nil
}

func (c *Converter) text(buf *bytes.Buffer, n *Node) {
	opened := make([]string, 0, len(n.Marks))
	for _, m := range n.Marks {
		if tag, ok := markTags[m]; ok {
			fmt.Fprintf(buf, "<%s>", tag)
			opened = append(opened, tag)
		}
	}
	buf.WriteString(html.EscapeString(n.Value))
	for i := len(opened) - 1; i >= 0; i-- {
		fmt.Fprintf(buf, "</%s>", opened[i])
	}
}

func (c *Converter) link(buf *bytes.Buffer, n *Node, href string) error {
	if !safeHref(href) {
		return c.children(buf, n)
	}
	fmt.Fprintf(buf, `<a href="%s">`, html.EscapeString(href))
	if err := c.children(buf, n); err != nil {
		return err
	}
	buf.WriteString("</a>")
	return nil
}

func safeHref(href string) bool {
	if href == "" {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return true
	default:
		return false
	}
}

func assetFile(target map[string]any) (string, bool) {
	raw, ok := content.Lookup(target, "fields", "file", "url")
	if !ok {
		return "", false
	}
	u, ok := raw.(string)
	if !ok || u == "" {
		return "", false
	}
	return content.AssetURL(u), true
}

func assetSize(target map[string]any) (int, int, bool) {
	w, okW := content.Lookup(target, "fields", "file", "details", "image", "width")
	h, okH := content.Lookup(target, "fields", "file", "details", "image", "height")
	if !okW || !okH {
		return 0, 0, false
	}
	wf, okW := w.(float64)
	hf, okH := h.(float64)
	if !okW || !okH {
		return 0, 0, false
	}
	return int(wf), int(hf), true
}
