package dom

import (
	"strconv"
	"strings"
)

// Markup serializes an inline node to Markdown markup. Text is escaped so
// that parsing the result yields the same rendered characters.
func Markup(n *Node) string {
	if n == nil {
		return ""
	}

	var sb strings.Builder
	writeInline(&sb, n)
	return sb.String()
}

func writeInline(sb *strings.Builder, n *Node) {
	switch n.Kind {
	case NodeText:
		sb.WriteString(escapeText(n.Data))
		return
	case NodeDocument:
		writeInlineChildren(sb, n)
		return
	case NodeElement:
	}

	switch n.Tag {
	case TagEmphasis:
		sb.WriteString("*")
		writeInlineChildren(sb, n)
		sb.WriteString("*")
	case TagStrong:
		sb.WriteString("**")
		writeInlineChildren(sb, n)
		sb.WriteString("**")
	case TagDelete:
		sb.WriteString("~~")
		writeInlineChildren(sb, n)
		sb.WriteString("~~")
	case TagCode:
		writeCodeSpan(sb, TextContent(n))
	case TagLink:
		sb.WriteString("[")
		writeInlineChildren(sb, n)
		sb.WriteString("](")
		sb.WriteString(n.Attr("href"))
		if title := n.Attr("title"); title != "" {
			sb.WriteString(` "`)
			sb.WriteString(title)
			sb.WriteString(`"`)
		}
		sb.WriteString(")")
	default:
		writeInlineChildren(sb, n)
	}
}

// writeCodeSpan fences content with one backtick more than its longest
// backtick run. Content touching a backtick, or wrapped in spaces, is padded
// so the parser does not eat its edges.
func writeCodeSpan(sb *strings.Builder, content string) {
	longest, run := 0, 0
	for i := range len(content) {
		if content[i] != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}

	fence := strings.Repeat("`", longest+1)
	pad := strings.HasPrefix(content, "`") || strings.HasSuffix(content, "`") ||
		(len(content) > 1 && content[0] == ' ' && content[len(content)-1] == ' ' && strings.TrimSpace(content) != "")

	sb.WriteString(fence)
	if pad {
		sb.WriteByte(' ')
	}
	sb.WriteString(content)
	if pad {
		sb.WriteByte(' ')
	}
	sb.WriteString(fence)
}

// escapeText backslash-escapes the characters that would open inline markup.
// Intraword underscores, ampersands that cannot start a reference and angle
// brackets that cannot open a tag or autolink are left alone.
func escapeText(s string) string {
	if !strings.ContainsAny(s, "\\*_`[]<~&") {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i := range len(s) {
		c := s[i]
		switch c {
		case '\\', '*', '`', '[', ']', '~':
			sb.WriteByte('\\')
		case '<':
			if i+1 < len(s) && (isAlnum(s[i+1]) || strings.IndexByte("/!?", s[i+1]) >= 0) {
				sb.WriteByte('\\')
			}
		case '_':
			if i == 0 || i == len(s)-1 || !isAlnum(s[i-1]) || !isAlnum(s[i+1]) {
				sb.WriteByte('\\')
			}
		case '&':
			if startsReference(s[i+1:]) {
				sb.WriteByte('\\')
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// startsReference reports whether rest, the text after an ampersand, reads
// as an entity or numeric character reference.
func startsReference(rest string) bool {
	end := strings.IndexByte(rest, ';')
	if end <= 0 {
		return false
	}
	name := strings.TrimPrefix(rest[:end], "#")
	if name == "" {
		return false
	}
	for i := range len(name) {
		if !isAlnum(name[i]) {
			return false
		}
	}
	return true
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func writeInlineChildren(sb *strings.Builder, n *Node) {
	for child := n.FirstChild; child != nil; child = child.Next {
		writeInline(sb, child)
	}
}

// Markdown serializes a whole document (or block subtree) back to Markdown.
// Blocks are separated by a blank line.
func Markdown(root *Node) string {
	if root == nil {
		return ""
	}

	var blocks []string
	if root.Kind == NodeDocument {
		for child := root.FirstChild; child != nil; child = child.Next {
			blocks = append(blocks, renderBlock(child, ""))
		}
	} else {
		blocks = append(blocks, renderBlock(root, ""))
	}

	out := strings.Join(blocks, "\n\n")
	if out != "" {
		out += "\n"
	}
	return out
}

func renderBlock(n *Node, prefix string) string {
	if n.Kind == NodeText {
		return prefix + escapeText(n.Data)
	}

	switch {
	case n.Tag == TagParagraph:
		return prefixLines(Markup(n), prefix)
	case IsHeadingTag(n.Tag):
		return prefix + strings.Repeat("#", HeadingLevel(n.Tag)) + " " + Markup(n)
	case n.Tag == TagRule:
		return prefix + "---"
	case n.Tag == TagPre:
		fence := "```"
		body := strings.TrimSuffix(TextContent(n), "\n")
		return prefixLines(fence+n.Attr("info")+"\n"+body+"\n"+fence, prefix)
	case n.Tag == TagBlockquote:
		var parts []string
		for child := n.FirstChild; child != nil; child = child.Next {
			parts = append(parts, renderBlock(child, prefix+"> "))
		}
		return strings.Join(parts, "\n"+prefix+">\n")
	case n.Tag == TagList || n.Tag == TagOrdered:
		return renderList(n, prefix)
	default:
		return prefixLines(Markup(n), prefix)
	}
}

func renderList(n *Node, prefix string) string {
	var items []string
	num := 1
	if start, err := strconv.Atoi(n.Attr("start")); err == nil {
		num = start
	}

	for item := n.FirstChild; item != nil; item = item.Next {
		marker := "- "
		if n.Tag == TagOrdered {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		indent := strings.Repeat(" ", len(marker))

		var parts []string
		for child := item.FirstChild; child != nil; child = child.Next {
			parts = append(parts, renderBlock(child, ""))
		}
		body := strings.Join(parts, "\n")
		lines := strings.Split(body, "\n")
		for i := range lines {
			if i == 0 {
				lines[i] = prefix + marker + lines[i]
			} else {
				lines[i] = prefix + indent + lines[i]
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}

	return strings.Join(items, "\n")
}

func prefixLines(s, prefix string) string {
	if prefix == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
