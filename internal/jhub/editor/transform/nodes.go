package transform

import (
	"strings"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
)

// NodesBetween вызывает fn для каждого узла, пересекающего диапазон [from, to).
// pos - абсолютная позиция перед узлом. Если fn возвращает false, дети узла не посещаются.
func NodesBetween(doc *edtypes.Document, from, to int, fn func(n *edtypes.Node, pos int, parent *edtypes.Node) bool) {
	if doc == nil || doc.Root == nil {
		return
	}
	nodesBetween(doc.Root, from, to, 0, fn)
}

func nodesBetween(node *edtypes.Node, from, to, start int, fn func(*edtypes.Node, int, *edtypes.Node) bool) {
	pos := 0
	for _, child := range node.Content {
		if pos >= to {
			break
		}
		end := pos + child.NodeSize()
		if end > from && fn(child, start+pos, node) && !child.IsLeaf() && child.ContentSize() > 0 {
			inner := pos + 1
			nodesBetween(child, max(0, from-inner), min(child.ContentSize(), to-inner), start+inner, fn)
		}
		pos = end
	}
}

// TextBetween собирает текст диапазона. Между блоками вставляется blockSep.
func TextBetween(doc *edtypes.Document, from, to int, blockSep string) string {
	var b strings.Builder
	first := true
	NodesBetween(doc, from, to, func(n *edtypes.Node, pos int, _ *edtypes.Node) bool {
		switch {
		case n.IsText():
			s, e := max(from, pos)-pos, min(to, pos+n.NodeSize())-pos
			_, tail := splitRunes(n.Text, s)
			part, _ := splitRunes(tail, e-s)
			b.WriteString(part)
		case n.IsTextblock():
			if !first {
				b.WriteString(blockSep)
			}
			first = false
		case n.Type == edtypes.HardBreakNode:
			b.WriteString("\n")
		}
		return true
	})
	return b.String()
}

// Textblocks возвращает текстовые блоки, пересекающие диапазон, с их позициями.
func Textblocks(doc *edtypes.Document, from, to int) []Located {
	var res []Located
	NodesBetween(doc, from, to, func(n *edtypes.Node, pos int, _ *edtypes.Node) bool {
		if n.IsTextblock() {
			res = append(res, Located{Node: n, Pos: pos})
			return false
		}
		return true
	})
	return res
}

// Located - узел и позиция перед ним.
type Located struct {
	Node *edtypes.Node
	Pos  int
}
