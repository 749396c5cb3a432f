package commands

import (
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/surface"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/transform"
)

// Backspace - удаление назад.
//
// В начале заголовка, перед которым стоит параграф, ничего не происходит:
// заголовок не вливается в параграф и не теряет форматирование.
// Заголовок или блок кода, в начале которого стоит курсор в самом начале
// документа, становится параграфом.
func Backspace() surface.Command {
	return func(st surface.State) *surface.Transaction {
		sel := st.Selection
		tr := surface.NewTransaction(st)
		if !sel.Empty() {
			return tr.SetDoc(transform.DeleteRange(st.Doc, sel.From(), sel.To())).
				SetSelection(surface.Cursor(sel.From()))
		}

		r := st.ResolvedFrom()
		if r == nil {
			return nil
		}
		parent := r.Parent()
		if !parent.IsTextblock() {
			return nil
		}

		if r.ParentOffset > 0 {
			if out, pos, ok := transform.DeleteBackward(st.Doc, sel.Head); ok {
				return tr.SetDoc(out).SetSelection(surface.Cursor(pos))
			}
			return nil
		}

		d := r.Depth()
		if parent.Type == edtypes.HeadingNode && d >= 1 {
			if index := r.Index(d - 1); index > 0 {
				if prev := r.Node(d - 1).Content[index-1]; prev.Type == edtypes.ParagraphNode {
					return tr
				}
			}
		}

		if out, pos, ok := transform.JoinBackward(st.Doc, sel.Head); ok {
			return tr.SetDoc(out).SetSelection(surface.Cursor(pos))
		}

		if parent.Type != edtypes.ParagraphNode && atDocStart(r) {
			return tr.SetDoc(transform.SetBlockType(st.Doc, sel.Head, sel.Head, edtypes.ParagraphNode, nil))
		}
		return nil
	}
}

// atDocStart - позиция стоит в первом текстовом блоке документа.
func atDocStart(r *transform.ResolvedPos) bool {
	for d := 0; d < r.Depth(); d++ {
		if r.Index(d) != 0 {
			return false
		}
	}
	return true
}

// SelectAll выделяет весь документ.
func SelectAll() surface.Command {
	return func(st surface.State) *surface.Transaction {
		return surface.NewTransaction(st).
			SetSelection(surface.Selection{Anchor: 0, Head: st.Doc.ContentSize()})
	}
}

// SetSelection ставит выделение. Удобно для сценариев, где команды и выделение
// применяются одной цепочкой.
func SetSelection(anchor, head int) surface.Command {
	return func(st surface.State) *surface.Transaction {
		return surface.NewTransaction(st).SetSelection(surface.Selection{Anchor: anchor, Head: head})
	}
}
