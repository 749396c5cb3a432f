package commands

import (
	"strings"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/surface"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/transform"
)

// Языки блока кода, предлагаемые панелью.
var CodeLanguages = []string{"Java", "python", "php", "C#", "R", "typescript", "swift"}

// Допустимые значения выравнивания.
var TextAligns = []string{"left", "center", "right", "justify"}

var alignTypes = []edtypes.NodeType{edtypes.ParagraphNode, edtypes.HeadingNode}

// SetParagraph превращает блоки выделения в параграфы.
func SetParagraph() surface.Command {
	return func(st surface.State) *surface.Transaction {
		sel := st.Selection
		return surface.NewTransaction(st).
			SetDoc(transform.SetBlockType(st.Doc, sel.From(), sel.To(), edtypes.ParagraphNode, nil))
	}
}

// SetHeading делает блоки выделения заголовками уровня level, 0 - обратно в параграф.
// В полностью пустом документе создается заголовок, курсор ставится внутрь него.
func SetHeading(level int) surface.Command {
	if level <= 0 {
		return SetParagraph()
	}
	level = min(level, 3)
	return func(st surface.State) *surface.Transaction {
		attrs := edtypes.Attrs{"level": float64(level)}
		tr := surface.NewTransaction(st)
		if st.Doc.IsTrulyEmpty() {
			doc := transform.ReplaceWith(&edtypes.Node{Type: edtypes.HeadingNode, Attrs: attrs})
			last := doc.Blocks()[len(doc.Blocks())-1]
			return tr.SetDoc(doc).SetSelection(surface.Cursor(doc.ContentSize() - last.NodeSize() + 1))
		}
		sel := st.Selection
		return tr.SetDoc(transform.SetBlockType(st.Doc, sel.From(), sel.To(), edtypes.HeadingNode, attrs))
	}
}

// SetTextAlign выравнивает параграфы и заголовки выделения.
func SetTextAlign(align string) surface.Command {
	return func(st surface.State) *surface.Transaction {
		if IsCodeBlockActive(st) || !validAlign(align) {
			return nil
		}
		sel := st.Selection
		return surface.NewTransaction(st).
			SetDoc(transform.SetBlockAttr(st.Doc, sel.From(), sel.To(), alignTypes, "textAlign", align))
	}
}

// UnsetTextAlign убирает выравнивание.
func UnsetTextAlign() surface.Command {
	return func(st surface.State) *surface.Transaction {
		sel := st.Selection
		return surface.NewTransaction(st).
			SetDoc(transform.SetBlockAttr(st.Doc, sel.From(), sel.To(), alignTypes, "textAlign", nil))
	}
}

func validAlign(align string) bool {
	for _, a := range TextAligns {
		if a == align {
			return true
		}
	}
	return false
}

// ToggleCodeBlock превращает выделение в блок кода языка lang, а активный блок кода - в параграф.
func ToggleCodeBlock(lang string) surface.Command {
	return func(st surface.State) *surface.Transaction {
		if IsCodeBlockActive(st) {
			return SetParagraph()(st)
		}
		sel := st.Selection
		return surface.NewTransaction(st).
			SetDoc(transform.SetBlockType(st.Doc, sel.From(), sel.To(), edtypes.CodeBlockNode, codeAttrs(lang)))
	}
}

// SetCodeBlockLanguage меняет язык активного блока кода. Вне блока кода неприменима.
func SetCodeBlockLanguage(lang string) surface.Command {
	return func(st surface.State) *surface.Transaction {
		if !IsCodeBlockActive(st) {
			return nil
		}
		sel := st.Selection
		return surface.NewTransaction(st).
			SetDoc(transform.SetBlockAttr(st.Doc, sel.From(), sel.To(),
				[]edtypes.NodeType{edtypes.CodeBlockNode}, "language", codeAttrs(lang)["language"]))
	}
}

func codeAttrs(lang string) edtypes.Attrs {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return nil
	}
	return edtypes.Attrs{"language": lang}
}
