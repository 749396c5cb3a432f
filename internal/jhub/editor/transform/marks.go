package transform

import (
	"sort"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
)

// AddMarkToSet возвращает набор меток с добавленной m. Метка того же типа заменяется.
func AddMarkToSet(marks []edtypes.Mark, m edtypes.Mark) []edtypes.Mark {
	res := make([]edtypes.Mark, 0, len(marks)+1)
	for _, old := range marks {
		if old.Type != m.Type {
			res = append(res, old.Clone())
		}
	}
	res = append(res, m.Clone())
	sort.SliceStable(res, func(i, j int) bool { return res[i].Type.Rank() < res[j].Type.Rank() })
	return res
}

// RemoveMarkFromSet убирает метку типа t.
func RemoveMarkFromSet(marks []edtypes.Mark, t edtypes.MarkType) []edtypes.Mark {
	var res []edtypes.Mark
	for _, old := range marks {
		if old.Type != t {
			res = append(res, old.Clone())
		}
	}
	return res
}

// AddMark добавляет метку к тексту в диапазоне [from, to).
// Текст в блоках кода не размечается.
func AddMark(doc *edtypes.Document, from, to int, m edtypes.Mark) *edtypes.Document {
	return MapMarks(doc, from, to, func(marks []edtypes.Mark) []edtypes.Mark {
		return AddMarkToSet(marks, m)
	})
}

// RemoveMark снимает метку типа t с текста в диапазоне [from, to).
func RemoveMark(doc *edtypes.Document, from, to int, t edtypes.MarkType) *edtypes.Document {
	return MapMarks(doc, from, to, func(marks []edtypes.Mark) []edtypes.Mark {
		return RemoveMarkFromSet(marks, t)
	})
}

// MapMarks применяет fn к меткам каждого куска текста внутри диапазона,
// разрезая текстовые узлы по границам.
func MapMarks(doc *edtypes.Document, from, to int, fn func([]edtypes.Mark) []edtypes.Mark) *edtypes.Document {
	out := doc.Clone()
	if from >= to {
		return out
	}
	for _, tb := range Textblocks(out, from, to) {
		if tb.Node.Type == edtypes.CodeBlockNode {
			continue
		}
		start := tb.Pos + 1
		var content []*edtypes.Node
		pos := start
		for _, child := range tb.Node.Content {
			size := child.NodeSize()
			cs, ce := pos, pos+size
			pos = ce
			if !child.IsText() || ce <= from || cs >= to {
				content = append(content, child)
				continue
			}
			s, e := max(from, cs)-cs, min(to, ce)-cs
			head, rest := splitRunes(child.Text, s)
			mid, tail := splitRunes(rest, e-s)
			if head != "" {
				content = append(content, &edtypes.Node{Type: edtypes.TextNode, Text: head, Marks: cloneMarks(child.Marks)})
			}
			content = append(content, &edtypes.Node{Type: edtypes.TextNode, Text: mid, Marks: fn(child.Marks)})
			if tail != "" {
				content = append(content, &edtypes.Node{Type: edtypes.TextNode, Text: tail, Marks: cloneMarks(child.Marks)})
			}
		}
		tb.Node.Content = normalizeInline(content)
	}
	return out
}

// normalizeInline склеивает соседние тексты с одинаковыми метками и убирает пустые.
func normalizeInline(content []*edtypes.Node) []*edtypes.Node {
	var res []*edtypes.Node
	for _, n := range content {
		if n.IsText() && n.Text == "" {
			continue
		}
		if len(n.Marks) == 0 {
			n.Marks = nil
		}
		if last := len(res) - 1; last >= 0 && n.IsText() && res[last].IsText() && edtypes.SameMarks(res[last].Marks, n.Marks) {
			res[last] = &edtypes.Node{Type: edtypes.TextNode, Text: res[last].Text + n.Text, Marks: res[last].Marks}
			continue
		}
		res = append(res, n)
	}
	return res
}
