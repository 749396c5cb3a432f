// Пакет export выгружает документ в Markdown.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/youtube"
)

// Markdown пишет документ в w. Неизвестные узлы с содержимым раскрываются,
// пустые блоки и некорректные ролики пропускаются.
func Markdown(doc *edtypes.Document, w io.Writer) error {
	m := md.NewMarkdown(w)
	var err error
	if doc != nil && doc.Root != nil {
		err = writeBlocks(m, doc.Root.Content)
	}
	return errors.Join(m.Build(), err)
}

// MarkdownString - Markdown в виде строки.
func MarkdownString(doc *edtypes.Document) (string, error) {
	var sb strings.Builder
	if err := Markdown(doc, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// writeBlocks выводит блоки через пустую строку.
func writeBlocks(m *md.Markdown, blocks []*edtypes.Node) error {
	var errs error
	first := true
	for _, n := range blocks {
		if n == nil {
			continue
		}
		b := md.NewMarkdown(io.Discard)
		errs = errors.Join(errs, writeBlock(b, n), b.Error())
		out := b.String()
		if strings.TrimSpace(out) == "" {
			continue
		}
		if !first {
			m.PlainText("")
		}
		m.PlainText(out)
		first = false
	}
	return errs
}

func writeBlock(m *md.Markdown, n *edtypes.Node) error {
	switch n.Type {
	case edtypes.ParagraphNode:
		m.PlainText(inline(n.Content, "  \n"))
	case edtypes.HeadingNode:
		text := inline(n.Content, " ")
		switch n.HeadingLevel() {
		case 1:
			m.H1(text)
		case 2:
			m.H2(text)
		default:
			m.H3(text)
		}
	case edtypes.BulletListNode:
		m.BulletList(listItems(n)...)
	case edtypes.OrderedListNode:
		m.OrderedList(listItems(n)...)
	case edtypes.BlockquoteNode:
		inner := md.NewMarkdown(io.Discard)
		if err := writeBlocks(inner, n.Content); err != nil {
			return err
		}
		if inner.String() != "" {
			m.Blockquote(inner.String())
		}
	case edtypes.CodeBlockNode:
		lang := n.Attrs.String("language")
		if lang == "plaintext" {
			lang = ""
		}
		m.CodeBlocks(md.SyntaxHighlight(lang), n.TextContent())
	case edtypes.HorizontalRuleNode:
		m.HorizontalRule()
	case edtypes.ImageNode:
		if src := n.Attrs.String("src"); src != "" {
			m.PlainText(md.Image(escape(n.Attrs.String("alt")), src))
		}
	case edtypes.YoutubeNode:
		src := n.Attrs.String("src")
		if src == "" {
			src = n.Attrs.String("videoId")
		}
		if id, ok := youtube.ExtractID(src); ok {
			title := n.Attrs.String("title")
			if title == "" {
				title = "YouTube"
			}
			m.PlainText(md.Link(escape(title), "https://www.youtube.com/watch?v="+id))
		}
	case edtypes.TableNode:
		if set, ok := tableSet(n); ok {
			m.CustomTable(set, md.TableOptions{})
		}
	default:
		switch {
		case len(n.Content) == 0:
		case n.Content[0].IsInline():
			m.PlainText(inline(n.Content, "  \n"))
		default:
			return writeBlocks(m, n.Content)
		}
	}
	return nil
}

// listItems строит пункты списка. Вложенные списки идут следующими строками с отступом.
func listItems(list *edtypes.Node) []string {
	items := make([]string, 0, len(list.Content))
	for _, item := range list.Content {
		var text []string
		var nested []string
		for _, child := range item.Content {
			switch child.Type {
			case edtypes.BulletListNode, edtypes.OrderedListNode:
				for i, line := range listItems(child) {
					marker := "- "
					if child.Type == edtypes.OrderedListNode {
						marker = fmt.Sprintf("%d. ", i+1)
					}
					nested = append(nested, indent(marker+line))
				}
			default:
				text = append(text, inline(child.Content, " "))
			}
		}
		line := strings.Join(text, " ")
		if len(nested) > 0 {
			line += "\n" + strings.Join(nested, "\n")
		}
		items = append(items, line)
	}
	return items
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

// tableSet берет первую строку как заголовок и выравнивает остальные по его ширине.
func tableSet(table *edtypes.Node) (md.TableSet, bool) {
	var rows [][]string
	for _, row := range table.Content {
		if row.Type != edtypes.TableRowNode {
			continue
		}
		cells := make([]string, 0, len(row.Content))
		for _, cell := range row.Content {
			var parts []string
			for _, child := range cell.Content {
				parts = append(parts, inline(child.Content, " "))
			}
			cells = append(cells, strings.ReplaceAll(strings.Join(parts, " "), "|", `\|`))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return md.TableSet{}, false
	}

	width := len(rows[0])
	set := md.TableSet{Header: rows[0]}
	for _, r := range rows[1:] {
		switch {
		case len(r) > width:
			r = r[:width]
		case len(r) < width:
			r = append(r, make([]string, width-len(r))...)
		}
		set.Rows = append(set.Rows, r)
	}
	return set, true
}

// inline собирает строку из inline узлов. br подставляется вместо hardBreak.
func inline(nodes []*edtypes.Node, br string) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch {
		case n.Type == edtypes.HardBreakNode:
			sb.WriteString(br)
		case n.IsText():
			sb.WriteString(applyMarks(n))
		case len(n.Content) > 0:
			sb.WriteString(inline(n.Content, br))
		}
	}
	return sb.String()
}

func applyMarks(n *edtypes.Node) string {
	if n.HasMark(edtypes.CodeMark) {
		text := md.Code(n.Text)
		if link, ok := n.Mark(edtypes.LinkMark); ok && link.Attrs.String("href") != "" {
			text = md.Link(text, link.Attrs.String("href"))
		}
		return text
	}

	text := escape(n.Text)
	if strings.TrimSpace(text) == "" {
		return text
	}
	if n.HasMark(edtypes.HighlightMark) {
		text = md.Highlight(text)
	}
	if n.HasMark(edtypes.StrikeMark) {
		text = md.Strikethrough(text)
	}
	switch bold, italic := n.HasMark(edtypes.BoldMark), n.HasMark(edtypes.ItalicMark); {
	case bold && italic:
		text = md.BoldItalic(text)
	case bold:
		text = md.Bold(text)
	case italic:
		text = md.Italic(text)
	}
	if link, ok := n.Mark(edtypes.LinkMark); ok && link.Attrs.String("href") != "" {
		text = md.Link(text, link.Attrs.String("href"))
	}
	return text
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"~", `\~`,
)

func escape(s string) string {
	return escaper.Replace(s)
}
