package tiptap

import (
	"encoding/json"
	"errors"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
)

// Serialize сериализует edtypes.Document в TipTap JSON.
func Serialize(doc *edtypes.Document) ([]byte, error) {
	if doc == nil || doc.Root == nil {
		return nil, errors.New("tiptap: nil document")
	}
	return json.Marshal(serializeNode(doc.Root))
}

// ToNode возвращает wire-представление узла.
func ToNode(n *edtypes.Node) TipTapNode {
	return serializeNode(n)
}

func serializeNode(n *edtypes.Node) TipTapNode {
	node := TipTapNode{
		Type:  string(n.Type),
		Attrs: n.Attrs,
		Text:  n.Text,
	}

	if len(n.Marks) > 0 {
		node.Marks = make([]TipTapMark, 0, len(n.Marks))
		for _, m := range n.Marks {
			node.Marks = append(node.Marks, TipTapMark{Type: string(m.Type), Attrs: m.Attrs})
		}
	}

	if len(n.Content) > 0 {
		node.Content = make([]TipTapNode, 0, len(n.Content))
		for _, c := range n.Content {
			node.Content = append(node.Content, serializeNode(c))
		}
	}

	return node
}
