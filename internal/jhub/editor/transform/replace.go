package transform

import (
	"errors"
	"strings"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
)

var ErrNotTextblock = errors.New("position is not inside a textblock")

func cloneMarks(marks []edtypes.Mark) []edtypes.Mark {
	if len(marks) == 0 {
		return nil
	}
	res := make([]edtypes.Mark, len(marks))
	for i, m := range marks {
		res[i] = m.Clone()
	}
	return res
}

// DeleteRange удаляет содержимое [from, to). Частично задетые блоки на границах
// склеиваются, как при удалении выделения в редакторе.
func DeleteRange(doc *edtypes.Document, from, to int) *edtypes.Document {
	out := doc.Clone()
	from = max(0, from)
	to = min(to, out.ContentSize())
	if from >= to {
		return out
	}
	out.Root.Content = cutContent(out.Root, 0, from, to)
	if len(out.Root.Content) == 0 {
		out.Root.Content = []*edtypes.Node{{Type: edtypes.ParagraphNode}}
	}
	return out
}

func cutContent(node *edtypes.Node, start, from, to int) []*edtypes.Node {
	var res []*edtypes.Node
	left, right := -1, -1
	pos := start
	for _, child := range node.Content {
		cs, ce := pos, pos+child.NodeSize()
		pos = ce
		switch {
		case ce <= from || cs >= to:
			res = append(res, child)
		case from <= cs && ce <= to:
			// узел целиком внутри диапазона
		case child.IsText():
			s, e := max(from, cs)-cs, min(to, ce)-cs
			head, rest := splitRunes(child.Text, s)
			_, tail := splitRunes(rest, e-s)
			if head+tail != "" {
				res = append(res, &edtypes.Node{Type: edtypes.TextNode, Text: head + tail, Marks: child.Marks})
			}
		default:
			child.Content = cutContent(child, cs+1, from, to)
			if from > cs {
				left = len(res)
			}
			if to < ce {
				right = len(res)
			}
			res = append(res, child)
		}
	}

	if left >= 0 && right == left+1 && joinNodes(res[left], res[right]) {
		res = append(res[:right], res[right+1:]...)
	}
	if node.IsTextblock() {
		return normalizeInline(res)
	}
	return res
}

// joinNodes вливает b в a. Возвращает true, если b поглощен и должен быть удален.
func joinNodes(a, b *edtypes.Node) bool {
	switch {
	case a.IsTextblock() && b.IsTextblock():
		a.Content = normalizeInline(append(a.Content, convertInline(b.Content, b.Type, a.Type)...))
		return true
	case a.IsTextblock() && !b.IsLeaf():
		tb, path := firstTextblock(b)
		if tb == nil {
			return false
		}
		a.Content = normalizeInline(append(a.Content, convertInline(tb.Content, tb.Type, a.Type)...))
		removeFirstAlong(path)
		return len(b.Content) == 0
	case !a.IsLeaf() && b.IsTextblock():
		tb := lastTextblock(a)
		if tb == nil {
			return false
		}
		tb.Content = normalizeInline(append(tb.Content, convertInline(b.Content, b.Type, tb.Type)...))
		return true
	case a.Type == b.Type && !a.IsLeaf() && !b.IsLeaf():
		seam := len(a.Content)
		a.Content = append(a.Content, b.Content...)
		if seam > 0 && seam < len(a.Content) && joinNodes(a.Content[seam-1], a.Content[seam]) {
			a.Content = append(a.Content[:seam], a.Content[seam+1:]...)
		}
		return true
	}
	return false
}

// firstTextblock спускается по первым детям до текстового блока.
func firstTextblock(n *edtypes.Node) (*edtypes.Node, []*edtypes.Node) {
	path := []*edtypes.Node{n}
	for !n.IsTextblock() {
		if n.IsLeaf() || len(n.Content) == 0 {
			return nil, nil
		}
		n = n.Content[0]
		path = append(path, n)
	}
	return n, path
}

// removeFirstAlong удаляет последний узел пути и опустевших предков (кроме корня пути).
func removeFirstAlong(path []*edtypes.Node) {
	for i := len(path) - 1; i > 0; i-- {
		parent := path[i-1]
		parent.Content = parent.Content[1:]
		if len(parent.Content) > 0 {
			return
		}
	}
}

func lastTextblock(n *edtypes.Node) *edtypes.Node {
	for !n.IsTextblock() {
		if n.IsLeaf() || len(n.Content) == 0 {
			return nil
		}
		n = n.Content[len(n.Content)-1]
	}
	return n
}

// convertInline приводит inline содержимое блока типа src к типу dst.
// В блок кода переносится только текст без меток, hardBreak становится переводом строки.
// Из блока кода переводы строк превращаются в hardBreak.
func convertInline(content []*edtypes.Node, src, dst edtypes.NodeType) []*edtypes.Node {
	var res []*edtypes.Node
	switch {
	case dst == edtypes.CodeBlockNode:
		for _, n := range content {
			switch {
			case n.IsText():
				res = append(res, &edtypes.Node{Type: edtypes.TextNode, Text: n.Text})
			case n.Type == edtypes.HardBreakNode:
				res = append(res, &edtypes.Node{Type: edtypes.TextNode, Text: "\n"})
			}
		}
	case src == edtypes.CodeBlockNode:
		for _, n := range content {
			if !n.IsText() {
				res = append(res, n)
				continue
			}
			for i, line := range strings.Split(n.Text, "\n") {
				if i > 0 {
					res = append(res, &edtypes.Node{Type: edtypes.HardBreakNode})
				}
				if line != "" {
					res = append(res, &edtypes.Node{Type: edtypes.TextNode, Text: line, Marks: n.Marks})
				}
			}
		}
	default:
		res = content
	}
	return normalizeInline(res)
}

// splitInline делит inline содержимое по смещению offset.
func splitInline(content []*edtypes.Node, offset int) ([]*edtypes.Node, []*edtypes.Node) {
	var before, after []*edtypes.Node
	pos := 0
	for _, n := range content {
		size := n.NodeSize()
		switch {
		case pos+size <= offset:
			before = append(before, n)
		case pos >= offset:
			after = append(after, n)
		default:
			head, tail := splitRunes(n.Text, offset-pos)
			before = append(before, &edtypes.Node{Type: edtypes.TextNode, Text: head, Marks: cloneMarks(n.Marks)})
			after = append(after, &edtypes.Node{Type: edtypes.TextNode, Text: tail, Marks: cloneMarks(n.Marks)})
		}
		pos += size
	}
	return before, after
}

// InsertInline вставляет inline узлы в позицию pos. Позиция должна быть внутри текстового блока.
// Возвращает новый документ и позицию после вставки.
func InsertInline(doc *edtypes.Document, pos int, nodes ...*edtypes.Node) (*edtypes.Document, int, error) {
	out := doc.Clone()
	r, err := Resolve(out, pos)
	if err != nil {
		return nil, pos, err
	}
	parent := r.Parent()
	if !parent.IsTextblock() {
		return nil, pos, ErrNotTextblock
	}

	inserted := convertInline(cloneNodes(nodes), edtypes.ParagraphNode, parent.Type)
	size := 0
	for _, n := range inserted {
		size += n.NodeSize()
	}

	before, after := splitInline(parent.Content, r.ParentOffset)
	content := append(before, inserted...)
	parent.Content = normalizeInline(append(content, after...))
	return out, pos + size, nil
}

// InsertText вставляет текст с метками в позицию pos.
func InsertText(doc *edtypes.Document, pos int, text string, marks []edtypes.Mark) (*edtypes.Document, int, error) {
	if text == "" {
		return doc.Clone(), pos, nil
	}
	return InsertInline(doc, pos, &edtypes.Node{Type: edtypes.TextNode, Text: text, Marks: marks})
}

func cloneNodes(nodes []*edtypes.Node) []*edtypes.Node {
	res := make([]*edtypes.Node, 0, len(nodes))
	for _, n := range nodes {
		res = append(res, n.Clone())
	}
	return res
}

// InsertBlock вставляет блочный узел в позицию pos.
// Пустой параграф под курсором заменяется, блок в середине текста разрезается.
// Если вставленный узел оказывается последним в родителе, после него добавляется пустой параграф.
// Возвращает новый документ и позицию курсора после вставленного узла.
func InsertBlock(doc *edtypes.Document, pos int, block *edtypes.Node) (*edtypes.Document, int, error) {
	out := doc.Clone()
	r, err := Resolve(out, pos)
	if err != nil {
		return nil, pos, err
	}
	block = block.Clone()

	var container *edtypes.Node
	var containerStart, index int
	if d := r.TextblockDepth(); d >= 1 {
		tb := r.Node(d)
		container = r.Node(d - 1)
		containerStart = r.Start(d - 1)
		index = r.Index(d - 1)
		offset := r.Pos - r.Start(d)

		switch {
		case tb.Type == edtypes.ParagraphNode && tb.ContentSize() == 0:
			container.Content[index] = block
		case offset == tb.ContentSize():
			index++
			container.Content = insertAt(container.Content, index, block)
		case offset == 0:
			container.Content = insertAt(container.Content, index, block)
		default:
			head, tail := splitInline(tb.Content, offset)
			second := &edtypes.Node{Type: tb.Type, Attrs: tb.Attrs.Clone(), Content: normalizeInline(tail)}
			tb.Content = normalizeInline(head)
			index++
			container.Content = insertAt(container.Content, index, block, second)
		}
	} else {
		container = r.Parent()
		containerStart = r.Start(r.Depth())
		index = r.Index(r.Depth())
		container.Content = insertAt(container.Content, index, block)
	}

	if index == len(container.Content)-1 {
		container.Content = append(container.Content, &edtypes.Node{Type: edtypes.ParagraphNode})
	}

	after := containerStart
	for _, c := range container.Content[:index+1] {
		after += c.NodeSize()
	}
	if next := container.Content[index+1]; next.IsTextblock() {
		after++
	}
	return out, after, nil
}

func insertAt(content []*edtypes.Node, index int, nodes ...*edtypes.Node) []*edtypes.Node {
	res := make([]*edtypes.Node, 0, len(content)+len(nodes))
	res = append(res, content[:index]...)
	res = append(res, nodes...)
	return append(res, content[index:]...)
}

// JoinBackward обрабатывает удаление назад в начале текстового блока:
// блок вливается в предыдущий текстовый блок, предыдущий атомарный узел удаляется.
// ok=false, если делать нечего.
func JoinBackward(doc *edtypes.Document, pos int) (*edtypes.Document, int, bool) {
	out := doc.Clone()
	r, err := Resolve(out, pos)
	if err != nil {
		return nil, pos, false
	}
	d := r.Depth()
	if d < 1 || !r.Parent().IsTextblock() || r.ParentOffset != 0 {
		return nil, pos, false
	}
	cur := r.Parent()
	container := r.Node(d - 1)
	index := r.Index(d - 1)
	if index == 0 {
		return nil, pos, false
	}
	prev := container.Content[index-1]
	before := r.Before(d)

	switch {
	case prev.IsTextblock():
		prev.Content = normalizeInline(append(prev.Content, convertInline(cur.Content, cur.Type, prev.Type)...))
		container.Content = append(container.Content[:index], container.Content[index+1:]...)
		return out, before - 1, true
	case prev.IsLeaf():
		container.Content = append(container.Content[:index-1], container.Content[index:]...)
		return out, pos - prev.NodeSize(), true
	default:
		end := before - 1
		target := prev
		for !target.IsTextblock() {
			if target.IsLeaf() || len(target.Content) == 0 {
				return nil, pos, false
			}
			target = target.Content[len(target.Content)-1]
			end--
		}
		target.Content = normalizeInline(append(target.Content, convertInline(cur.Content, cur.Type, target.Type)...))
		container.Content = append(container.Content[:index], container.Content[index+1:]...)
		return out, end, true
	}
}

// DeleteBackward удаляет один узел или символ перед позицией внутри текстового блока.
func DeleteBackward(doc *edtypes.Document, pos int) (*edtypes.Document, int, bool) {
	r, err := Resolve(doc, pos)
	if err != nil || !r.Parent().IsTextblock() || r.ParentOffset == 0 {
		return nil, pos, false
	}
	return DeleteRange(doc, pos-1, pos), pos - 1, true
}
