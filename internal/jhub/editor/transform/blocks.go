package transform

import (
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
)

// alignable - блоки, поддерживающие textAlign.
func alignable(t edtypes.NodeType) bool {
	return t == edtypes.ParagraphNode || t == edtypes.HeadingNode
}

// SetBlockType меняет тип всех текстовых блоков в диапазоне.
// Выравнивание переносится, если новый тип его поддерживает.
func SetBlockType(doc *edtypes.Document, from, to int, typ edtypes.NodeType, attrs edtypes.Attrs) *edtypes.Document {
	out := doc.Clone()
	for _, tb := range Textblocks(out, from, to) {
		n := tb.Node
		newAttrs := attrs.Clone()
		if align := n.Attrs.String("textAlign"); align != "" && alignable(typ) {
			newAttrs = newAttrs.With("textAlign", align)
		}
		if n.Type != typ {
			n.Content = convertInline(n.Content, n.Type, typ)
		}
		n.Type = typ
		n.Attrs = newAttrs
	}
	return out
}

// SetBlockAttr устанавливает атрибут key у текстовых блоков допустимых типов в диапазоне.
// value == nil удаляет атрибут.
func SetBlockAttr(doc *edtypes.Document, from, to int, types []edtypes.NodeType, key string, value any) *edtypes.Document {
	out := doc.Clone()
	for _, tb := range Textblocks(out, from, to) {
		for _, t := range types {
			if tb.Node.Type == t {
				tb.Node.Attrs = tb.Node.Attrs.With(key, value)
				break
			}
		}
	}
	return out
}

// ReplaceWith заменяет содержимое документа блоками.
func ReplaceWith(blocks ...*edtypes.Node) *edtypes.Document {
	return edtypes.NewDocument(cloneNodes(blocks)...)
}
