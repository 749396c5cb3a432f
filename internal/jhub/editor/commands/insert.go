package commands

import (
	"strings"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/surface"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/transform"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/youtube"
)

// insertBlock заменяет выделение блочным узлом и ставит курсор после него.
func insertBlock(node *edtypes.Node) surface.Command {
	return func(st surface.State) *surface.Transaction {
		if IsCodeBlockActive(st) {
			return nil
		}
		sel := st.Selection
		doc := st.Doc
		if !sel.Empty() {
			doc = transform.DeleteRange(doc, sel.From(), sel.To())
		}
		out, caret, err := transform.InsertBlock(doc, sel.From(), node)
		if err != nil {
			return nil
		}
		return surface.NewTransaction(st).SetDoc(out).SetSelection(surface.Cursor(caret))
	}
}

// InsertHorizontalRule вставляет горизонтальную линию.
func InsertHorizontalRule() surface.Command {
	return insertBlock(&edtypes.Node{Type: edtypes.HorizontalRuleNode})
}

// InsertImage вставляет изображение. src может быть URL, data URL или токеном файла.
// Пустой src - отмена.
func InsertImage(src, alt string) surface.Command {
	src = strings.TrimSpace(src)
	if src == "" {
		return cancelled
	}
	attrs := edtypes.Attrs{"src": src}
	if alt != "" {
		attrs["alt"] = alt
	}
	return insertBlock(&edtypes.Node{Type: edtypes.ImageNode, Attrs: attrs})
}

// InsertYoutube вставляет ролик. Пустая или нераспознанная ссылка - отмена.
func InsertYoutube(rawURL string) surface.Command {
	rawURL = strings.TrimSpace(rawURL)
	if _, ok := youtube.ExtractID(rawURL); !ok {
		return cancelled
	}
	return insertBlock(&edtypes.Node{Type: edtypes.YoutubeNode, Attrs: edtypes.Attrs{"src": rawURL}})
}

// InsertLink делает выделение ссылкой. При пустом выделении вставляет сам URL как ссылку.
// Пустой URL - отмена.
func InsertLink(href string) surface.Command {
	href = strings.TrimSpace(href)
	if href == "" {
		return cancelled
	}
	link := edtypes.Mark{Type: edtypes.LinkMark, Attrs: edtypes.Attrs{"href": href}}
	return func(st surface.State) *surface.Transaction {
		if IsCodeBlockActive(st) {
			return nil
		}
		if !st.Selection.Empty() {
			return SetMark(edtypes.LinkMark, link.Attrs)(st)
		}
		out, caret, err := transform.InsertText(st.Doc, st.Selection.Head, href, []edtypes.Mark{link})
		if err != nil {
			return nil
		}
		return surface.NewTransaction(st).SetDoc(out).SetSelection(surface.Cursor(caret))
	}
}

// UnsetLink снимает ссылку с выделения.
func UnsetLink() surface.Command {
	return UnsetMark(edtypes.LinkMark)
}

// InsertText заменяет выделение текстом с метками курсора.
// Переводы строк вне блока кода становятся hardBreak.
func InsertText(text string) surface.Command {
	return func(st surface.State) *surface.Transaction {
		if text == "" {
			return nil
		}
		sel := st.Selection
		marks := caretMarks(st)
		doc := st.Doc
		if !sel.Empty() {
			doc = transform.DeleteRange(doc, sel.From(), sel.To())
		}

		var nodes []*edtypes.Node
		if IsCodeBlockActive(st) {
			nodes = append(nodes, &edtypes.Node{Type: edtypes.TextNode, Text: text})
		} else {
			for i, line := range strings.Split(text, "\n") {
				if i > 0 {
					nodes = append(nodes, &edtypes.Node{Type: edtypes.HardBreakNode})
				}
				if line != "" {
					nodes = append(nodes, &edtypes.Node{Type: edtypes.TextNode, Text: line, Marks: marks})
				}
			}
		}

		out, caret, err := transform.InsertInline(doc, sel.From(), nodes...)
		if err != nil {
			return nil
		}
		return surface.NewTransaction(st).SetDoc(out).SetSelection(surface.Cursor(caret))
	}
}

// InsertHardBreak вставляет перенос строки внутри блока.
func InsertHardBreak() surface.Command {
	return func(st surface.State) *surface.Transaction {
		if IsCodeBlockActive(st) {
			return InsertText("\n")(st)
		}
		doc := st.Doc
		if !st.Selection.Empty() {
			doc = transform.DeleteRange(doc, st.Selection.From(), st.Selection.To())
		}
		out, caret, err := transform.InsertInline(doc, st.Selection.From(), &edtypes.Node{Type: edtypes.HardBreakNode})
		if err != nil {
			return nil
		}
		return surface.NewTransaction(st).SetDoc(out).SetSelection(surface.Cursor(caret))
	}
}

func cancelled(surface.State) *surface.Transaction {
	return nil
}
