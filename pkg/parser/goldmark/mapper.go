package goldmark

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/flatrange/pkg/dom"
)

// mapper converts a goldmark AST into a rendered dom tree.
// Only what renders as characters is kept: raw HTML, images and task
// checkboxes produce no nodes.
type mapper struct {
	content []byte
}

// newMapper creates a new mapper for the given content.
func newMapper(content []byte) *mapper {
	return &mapper{content: content}
}

// mapDocument converts a goldmark document node to a dom tree.
func (m *mapper) mapDocument(gmDoc ast.Node) *dom.Node {
	doc := dom.NewDocument()
	m.mapChildren(gmDoc, doc)
	return doc
}

// mapChildren recursively maps all children of a goldmark node.
func (m *mapper) mapChildren(gmParent ast.Node, parent *dom.Node) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		if node := m.mapNode(child); node != nil {
			dom.AppendChild(parent, node)
		}
	}
}

// mapNode converts a single goldmark node. It returns nil for nodes that
// render nothing.
func (m *mapper) mapNode(gmNode ast.Node) *dom.Node {
	switch gmn := gmNode.(type) {
	// Block-level nodes.
	case *ast.Heading:
		return m.element("h"+strconv.Itoa(gmn.Level), gmn)

	case *ast.Paragraph:
		return m.element(dom.TagParagraph, gmn)

	case *ast.TextBlock:
		// Tight list items hold a TextBlock instead of a Paragraph.
		return m.element(dom.TagParagraph, gmn)

	case *ast.List:
		return m.mapList(gmn)

	case *ast.ListItem:
		return m.element(dom.TagListItem, gmn)

	case *ast.Blockquote:
		return m.element(dom.TagBlockquote, gmn)

	case *ast.FencedCodeBlock:
		node := m.codeBlock(gmn)
		if lang := gmn.Language(m.content); lang != nil {
			node.SetAttr("info", string(lang))
		}
		return node

	case *ast.CodeBlock:
		return m.codeBlock(gmn)

	case *ast.ThematicBreak:
		return dom.NewElement(dom.TagRule)

	case *ast.HTMLBlock, *ast.RawHTML, *ast.Image, *east.TaskCheckBox:
		return nil

	// Inline-level nodes.
	case *ast.Text:
		return m.mapText(gmn)

	case *ast.String:
		return dom.NewText(string(gmn.Value))

	case *ast.Emphasis:
		if gmn.Level == 2 {
			return m.element(dom.TagStrong, gmn)
		}
		return m.element(dom.TagEmphasis, gmn)

	case *ast.CodeSpan:
		return m.mapCodeSpan(gmn)

	case *ast.Link:
		node := m.element(dom.TagLink, gmn)
		node.SetAttr("href", string(gmn.Destination))
		if len(gmn.Title) > 0 {
			node.SetAttr("title", string(gmn.Title))
		}
		return node

	case *ast.AutoLink:
		node := dom.NewElement(dom.TagLink)
		node.SetAttr("href", string(gmn.URL(m.content)))
		dom.AppendChild(node, dom.NewText(string(gmn.Label(m.content))))
		return node

	// GFM extension nodes.
	case *east.Strikethrough:
		return m.element(dom.TagDelete, gmn)

	case *east.Table:
		return m.element("table", gmn)

	case *east.TableHeader, *east.TableRow:
		return m.element("tr", gmn)

	case *east.TableCell:
		return m.element("td", gmn)

	default:
		// Unknown nodes are transparent.
		return m.element(dom.TagSpan, gmNode)
	}
}

func (m *mapper) element(tag string, gmNode ast.Node) *dom.Node {
	node := dom.NewElement(tag)
	m.mapChildren(gmNode, node)
	return node
}

// mapList converts a goldmark List.
func (m *mapper) mapList(list *ast.List) *dom.Node {
	if !list.IsOrdered() {
		return m.element(dom.TagList, list)
	}

	node := m.element(dom.TagOrdered, list)
	if list.Start != 1 {
		node.SetAttr("start", strconv.Itoa(list.Start))
	}
	return node
}

// codeBlock joins the raw lines of a fenced or indented code block into a
// single text child.
func (m *mapper) codeBlock(block ast.Node) *dom.Node {
	node := dom.NewElement(dom.TagPre)

	var sb strings.Builder
	lines := block.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		sb.Write(seg.Value(m.content))
	}

	if sb.Len() > 0 {
		dom.AppendChild(node, dom.NewText(sb.String()))
	}
	return node
}

// mapText converts a goldmark Text node to its rendered characters. Soft
// breaks render as a space and hard breaks as a newline.
func (m *mapper) mapText(textNode *ast.Text) *dom.Node {
	raw := textNode.Segment.Value(m.content)
	value := string(raw)
	if !textNode.IsRaw() {
		value = decodeText(raw)
	}

	switch {
	case textNode.HardLineBreak():
		value += "\n"
	case textNode.SoftLineBreak():
		value += " "
	}

	return dom.NewText(value)
}

// decodeText drops backslash escapes and resolves entity and numeric
// character references. Escaped characters are never part of a reference.
func decodeText(src []byte) string {
	var sb strings.Builder
	start := 0
	flush := func(end int) {
		if end > start {
			sb.Write(util.ResolveEntityNames(util.ResolveNumericReferences(src[start:end])))
		}
	}

	for i := 0; i < len(src); i++ {
		if src[i] == '\\' && i+1 < len(src) && util.IsPunct(src[i+1]) {
			flush(i)
			sb.WriteByte(src[i+1])
			i++
			start = i + 1
		}
	}
	flush(len(src))

	return sb.String()
}

// mapCodeSpan converts a goldmark CodeSpan to a code element with one text child.
func (m *mapper) mapCodeSpan(codeSpan *ast.CodeSpan) *dom.Node {
	node := dom.NewElement(dom.TagCode)

	var sb strings.Builder
	for child := codeSpan.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(m.content))
		case *ast.String:
			sb.Write(c.Value)
		}
	}

	dom.AppendChild(node, dom.NewText(sb.String()))
	return node
}
