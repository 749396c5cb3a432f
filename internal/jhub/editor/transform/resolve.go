// Пакет transform реализует позиционную модель документа и примитивные
// преобразования над деревом edtypes.
//
// Позиции считаются как в ProseMirror: 0 - начало содержимого корня,
// вход в не-листовой узел и выход из него занимают по одной позиции,
// каждый символ текста и каждый листовой узел - тоже по одной.
//
// Все функции, меняющие документ, работают с копией и не трогают входной документ.
package transform

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
)

var ErrPosition = errors.New("position out of range")

type pathEntry struct {
	node   *edtypes.Node
	index  int
	offset int // абсолютная позиция начала дочернего узла index
}

// ResolvedPos - позиция с информацией о родителях.
type ResolvedPos struct {
	Pos          int
	ParentOffset int
	path         []pathEntry
}

// Resolve разбирает позицию pos в документе.
func Resolve(doc *edtypes.Document, pos int) (*ResolvedPos, error) {
	if doc == nil || doc.Root == nil {
		return nil, ErrPosition
	}
	if pos < 0 || pos > doc.ContentSize() {
		return nil, fmt.Errorf("%w: %d", ErrPosition, pos)
	}

	r := &ResolvedPos{Pos: pos}
	node := doc.Root
	start := 0
	parentOffset := pos
	for {
		index, offset := findIndex(node, parentOffset)
		rem := parentOffset - offset
		r.path = append(r.path, pathEntry{node: node, index: index, offset: start + offset})
		if rem == 0 {
			break
		}
		node = node.Content[index]
		if node.IsText() {
			break
		}
		parentOffset = rem - 1
		start += offset + 1
	}
	r.ParentOffset = parentOffset
	return r, nil
}

// ResolveClamped - Resolve с приведением позиции в допустимый диапазон.
// Возвращает nil только для пустого документа.
func ResolveClamped(doc *edtypes.Document, pos int) *ResolvedPos {
	r, err := Resolve(doc, max(0, min(pos, doc.ContentSize())))
	if err != nil {
		return nil
	}
	return r
}

func findIndex(node *edtypes.Node, pos int) (int, int) {
	cur := 0
	for i, c := range node.Content {
		end := cur + c.NodeSize()
		if end > pos {
			return i, cur
		}
		cur = end
	}
	return len(node.Content), cur
}

// Depth - глубина родителя позиции, 0 для корня.
func (r *ResolvedPos) Depth() int {
	return len(r.path) - 1
}

// Node возвращает узел-предок на глубине depth.
func (r *ResolvedPos) Node(depth int) *edtypes.Node {
	return r.path[depth].node
}

func (r *ResolvedPos) Parent() *edtypes.Node {
	return r.path[len(r.path)-1].node
}

// Index - индекс ребенка в предке depth, на который указывает позиция.
func (r *ResolvedPos) Index(depth int) int {
	return r.path[depth].index
}

// Start - абсолютная позиция начала содержимого предка depth.
func (r *ResolvedPos) Start(depth int) int {
	if depth == 0 {
		return 0
	}
	return r.path[depth-1].offset + 1
}

// End - абсолютная позиция конца содержимого предка depth.
func (r *ResolvedPos) End(depth int) int {
	return r.Start(depth) + r.Node(depth).ContentSize()
}

// Before - позиция перед предком depth (depth >= 1).
func (r *ResolvedPos) Before(depth int) int {
	return r.path[depth-1].offset
}

// After - позиция после предка depth (depth >= 1).
func (r *ResolvedPos) After(depth int) int {
	return r.Before(depth) + r.Node(depth).NodeSize()
}

// TextOffset - смещение внутри текстового узла, 0 если позиция между узлами.
func (r *ResolvedPos) TextOffset() int {
	last := r.path[len(r.path)-1]
	return r.Pos - last.offset
}

// NodeAfter возвращает узел сразу после позиции (или текст, в котором она стоит).
func (r *ResolvedPos) NodeAfter() *edtypes.Node {
	parent := r.Parent()
	index := r.Index(r.Depth())
	if index >= len(parent.Content) {
		return nil
	}
	return parent.Content[index]
}

// NodeBefore возвращает узел сразу перед позицией.
func (r *ResolvedPos) NodeBefore() *edtypes.Node {
	parent := r.Parent()
	index := r.Index(r.Depth())
	if r.TextOffset() > 0 {
		return parent.Content[index]
	}
	if index == 0 {
		return nil
	}
	return parent.Content[index-1]
}

// Marks возвращает метки в позиции: метки текста, в котором стоит позиция,
// иначе метки узла перед ней, иначе после.
func (r *ResolvedPos) Marks() []edtypes.Mark {
	parent := r.Parent()
	if parent.ContentSize() == 0 {
		return nil
	}
	if r.TextOffset() > 0 {
		return parent.Content[r.Index(r.Depth())].Marks
	}
	if before := r.NodeBefore(); before != nil {
		return before.Marks
	}
	if after := r.NodeAfter(); after != nil {
		return after.Marks
	}
	return nil
}

// TextblockDepth возвращает глубину ближайшего текстового блока или -1.
func (r *ResolvedPos) TextblockDepth() int {
	for d := r.Depth(); d >= 0; d-- {
		if r.Node(d).IsTextblock() {
			return d
		}
	}
	return -1
}

// ClampCursor ставит курсор в ближайшую к pos позицию внутри текстового блока.
// Позиция вне документа сначала приводится к диапазону [0, размер содержимого].
// Если текстовых блоков нет, возвращается приведенная позиция.
func ClampCursor(doc *edtypes.Document, pos int) int {
	if doc == nil || doc.Root == nil {
		return 0
	}
	pos = max(0, min(pos, doc.ContentSize()))
	if r, err := Resolve(doc, pos); err == nil && r.Parent().IsTextblock() {
		return pos
	}

	best, bestDist := pos, -1
	for _, tb := range textblockRanges(doc.Root, 0, nil) {
		cand := max(tb[0], min(pos, tb[1]))
		dist := cand - pos
		if dist < 0 {
			dist = -dist
		}
		// при равенстве выигрывает блок после позиции
		if bestDist < 0 || dist < bestDist || (dist == bestDist && cand > pos) {
			best, bestDist = cand, dist
		}
	}
	return best
}

// textblockRanges собирает границы содержимого всех текстовых блоков под node.
// start - абсолютная позиция начала содержимого node.
func textblockRanges(node *edtypes.Node, start int, out [][2]int) [][2]int {
	pos := start
	for _, c := range node.Content {
		switch {
		case c.IsTextblock():
			out = append(out, [2]int{pos + 1, pos + 1 + c.ContentSize()})
		case !c.IsText() && !c.IsLeaf():
			out = textblockRanges(c, pos+1, out)
		}
		pos += c.NodeSize()
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// splitRunes делит строку по номеру руны.
func splitRunes(s string, at int) (string, string) {
	if at <= 0 {
		return "", s
	}
	i := 0
	for byteIdx := range s {
		if i == at {
			return s[:byteIdx], s[byteIdx:]
		}
		i++
	}
	return s, ""
}
