// Пакет commands - команды и запросы панели инструментов редактора.
//
// Запросы "строгие": для выделения диапазона состояние считается активным
// только если ему соответствует весь диапазон, а не хотя бы его часть.
package commands

import (
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/surface"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/transform"
)

// caretMarks - действующие метки курсора: сохраненные, если есть, иначе метки позиции.
func caretMarks(st surface.State) []edtypes.Mark {
	if st.StoredMarks != nil {
		return st.StoredMarks
	}
	if r := st.ResolvedFrom(); r != nil {
		return r.Marks()
	}
	return nil
}

func hasMark(marks []edtypes.Mark, t edtypes.MarkType) bool {
	for _, m := range marks {
		if m.Type == t {
			return true
		}
	}
	return false
}

// IsMarkActive: при пустом выделении - есть ли метка у курсора,
// иначе - есть ли она у всего непустого текста диапазона. Без текста - false.
func IsMarkActive(st surface.State, t edtypes.MarkType) bool {
	sel := st.Selection
	if sel.Empty() {
		return hasMark(caretMarks(st), t)
	}

	hasText, allHave := false, true
	transform.NodesBetween(st.Doc, sel.From(), sel.To(), func(n *edtypes.Node, _ int, _ *edtypes.Node) bool {
		if !allHave {
			return false
		}
		if n.IsText() && n.Text != "" {
			hasText = true
			if !n.HasMark(t) {
				allHave = false
			}
		}
		return true
	})
	return hasText && allHave
}

// allTextblocks проверяет pred для родителя курсора или для всех текстовых блоков диапазона.
func allTextblocks(st surface.State, pred func(*edtypes.Node) bool) bool {
	if st.Selection.Empty() {
		r := st.ResolvedFrom()
		return r != nil && pred(r.Parent())
	}
	blocks := transform.Textblocks(st.Doc, st.Selection.From(), st.Selection.To())
	if len(blocks) == 0 {
		return false
	}
	for _, b := range blocks {
		if !pred(b.Node) {
			return false
		}
	}
	return true
}

// IsHeadingActive - все затронутые блоки являются заголовками уровня level.
func IsHeadingActive(st surface.State, level int) bool {
	return allTextblocks(st, func(n *edtypes.Node) bool {
		return n.Type == edtypes.HeadingNode && n.HeadingLevel() == level
	})
}

// IsCodeBlockActive - все затронутые блоки являются блоками кода.
func IsCodeBlockActive(st surface.State) bool {
	return allTextblocks(st, func(n *edtypes.Node) bool {
		return n.Type == edtypes.CodeBlockNode
	})
}

// CurrentHeadingLevel возвращает уровень заголовка под курсором, 0 для прочих блоков.
func CurrentHeadingLevel(st surface.State) int {
	r := st.ResolvedFrom()
	if r == nil || r.Parent().Type != edtypes.HeadingNode {
		return 0
	}
	return r.Parent().HeadingLevel()
}

// ActiveAttrs возвращает атрибуты метки у курсора или у первого текста диапазона.
func ActiveAttrs(st surface.State, t edtypes.MarkType) edtypes.Attrs {
	if st.Selection.Empty() {
		for _, m := range caretMarks(st) {
			if m.Type == t {
				return m.Attrs
			}
		}
		return nil
	}
	var attrs edtypes.Attrs
	found := false
	transform.NodesBetween(st.Doc, st.Selection.From(), st.Selection.To(), func(n *edtypes.Node, _ int, _ *edtypes.Node) bool {
		if found {
			return false
		}
		if n.IsText() {
			if m, ok := n.Mark(t); ok {
				attrs = m.Attrs
			}
			found = true
		}
		return true
	})
	return attrs
}

// CurrentFontSize - размер шрифта из textStyle, пустая строка если не задан.
func CurrentFontSize(st surface.State) string {
	return ActiveAttrs(st, edtypes.TextStyleMark).String("fontSize")
}

// CurrentAlign - выравнивание блока под курсором.
func CurrentAlign(st surface.State) string {
	r := st.ResolvedFrom()
	if r == nil {
		return ""
	}
	return r.Parent().Attrs.String("textAlign")
}
