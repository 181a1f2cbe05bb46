// Package goldmark builds dom documents from Markdown using the goldmark library.
package goldmark

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/flatrange/pkg/dom"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// ErrNotInline is returned by ParseInline when the markup produces more than
// one block.
var ErrNotInline = errors.New("markup is not a single inline fragment")

// Document is a parsed Markdown file.
type Document struct {
	// Path is the file path the content was read from (may be empty).
	Path string

	// Source is a private copy of the raw Markdown.
	Source []byte

	// Root is the document node of the rendered tree.
	Root *dom.Node
}

// Parser turns Markdown into dom trees.
type Parser struct {
	flavor string
	md     goldmark.Markdown
}

// New creates a new goldmark-based parser for the given flavor.
// Supported flavors are "commonmark" and "gfm".
// Invalid flavors default to "commonmark".
func New(flavor string) *Parser {
	f := flavorOrDefault(flavor)
	return &Parser{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Parse converts raw Markdown bytes into a Document.
// Returns nil and an error if the context is cancelled.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	doc := &Document{
		Path:   path,
		Source: copyContent(content),
	}

	doc.Root = p.build(doc.Source)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	return doc, nil
}

// ParseInline parses a markup fragment and returns its detached inline nodes.
// Leading and trailing spaces are kept as text, since a paragraph would
// trim them. Empty markup yields no nodes. Markup that renders as more than
// one block (or as a non-paragraph block) returns ErrNotInline.
func (p *Parser) ParseInline(markup string) ([]*dom.Node, error) {
	if markup == "" {
		return nil, nil
	}

	body := strings.Trim(markup, " \t")
	if body == "" {
		return []*dom.Node{dom.NewText(markup)}, nil
	}
	lead := markup[:len(markup)-len(strings.TrimLeft(markup, " \t"))]
	trail := markup[len(lead)+len(body):]

	root := p.build([]byte(body))
	if root.ChildCount() != 1 {
		return nil, fmt.Errorf("%w: %d blocks", ErrNotInline, root.ChildCount())
	}

	block := root.FirstChild
	if block.Tag != dom.TagParagraph {
		return nil, fmt.Errorf("%w: got <%s>", ErrNotInline, block.Name())
	}

	if lead != "" {
		if block.FirstChild != nil {
			dom.InsertBefore(block.FirstChild, dom.NewText(lead))
		} else {
			dom.AppendChild(block, dom.NewText(lead))
		}
	}
	if trail != "" {
		dom.AppendChild(block, dom.NewText(trail))
	}
	dom.Normalize(block)

	nodes := block.Children()
	for _, n := range nodes {
		dom.Remove(n)
	}
	return nodes, nil
}

func (p *Parser) build(source []byte) *dom.Node {
	reader := text.NewReader(source)
	gmDoc := p.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	root := newMapper(source).mapDocument(gmDoc)
	dom.Normalize(root)
	return root
}

// flavorOrDefault returns the flavor if valid, otherwise defaults to CommonMark.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case FlavorGFM:
		opts = append(opts,
			goldmark.WithExtensions(
				extension.GFM,
			),
		)
	case FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(opts...)
}

// copyContent creates a copy of the content slice to ensure immutability.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
