// Package markdown converts the markdown produced by the exporter, and the
// light markdown models put in explanations, to HTML or plain text.
//
// Topics and explanations come from users and models, so raw HTML in the
// source is never passed through: ToHTML drops it and ToPlainText keeps
// only text nodes.
package markdown

import (
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const extensions = parser.CommonExtensions

func parse(md []byte) ast.Node {
	return parser.NewWithExtensions(extensions).Parse(md)
}

// ToHTML renders md as an HTML fragment. Inline and block HTML in md is
// skipped, so a topic like "<script>x</script>" renders as the text "x".
func ToHTML(md []byte) string {
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank | mdhtml.SkipHTML,
	})
	return string(markdown.Render(parse(md), renderer))
}

// ToPlainText returns the readable text of md for terminal output:
// emphasis and links are flattened to their text, paragraphs are separated
// by a blank line, list items are prefixed with "- " and raw HTML is
// dropped.
func ToPlainText(md []byte) string {
	var sb strings.Builder

	ast.WalkFunc(parse(md), func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.Code:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.CodeBlock:
			if entering {
				sb.Write(n.Literal)
				sb.WriteString("\n")
			}
		case *ast.Softbreak, *ast.Hardbreak:
			if entering {
				sb.WriteString("\n")
			}
		case *ast.ListItem:
			if entering {
				sb.WriteString("- ")
			}
		case *ast.Paragraph, *ast.Heading:
			if !entering {
				if _, inItem := n.GetParent().(*ast.ListItem); inItem {
					sb.WriteString("\n")
				} else {
					sb.WriteString("\n\n")
				}
			}
		case *ast.HTMLSpan, *ast.HTMLBlock:
			return ast.SkipChildren
		}
		return ast.GoToNext
	})

	return strings.TrimSpace(html.UnescapeString(sb.String()))
}
