package tiptap

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editormetrics"
	stack_error "github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/stack-error"
)

var ErrEmptyDocument = errors.New("tiptap: empty document")

func init() {
	edtypes.TipTapParser = ParseJSON
	edtypes.TipTapSerializer = Serialize
}

// ParseJSON парсит JSON контент TipTap редактора в edtypes.Document.
// Корень не типа doc оборачивается в doc. Узлы неизвестных типов сохраняются со всеми детьми.
func ParseJSON(r io.Reader) (*edtypes.Document, error) {
	var root *TipTapNode
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, err
	}
	if root == nil || root.Type == "" {
		return nil, ErrEmptyDocument
	}

	var top *edtypes.Node
	if root.Type == string(edtypes.DocNode) {
		top = parseNode(*root)
	} else {
		slog.Debug("Wrapping non-doc root", "type", root.Type)
		top = &edtypes.Node{Type: edtypes.DocNode}
		if n := parseNode(*root); n != nil {
			top.Content = []*edtypes.Node{n}
		}
	}

	// Пустой doc приводится к одному пустому параграфу, как делает редактор
	if len(top.Content) == 0 {
		top.Content = []*edtypes.Node{{Type: edtypes.ParagraphNode}}
	}

	return &edtypes.Document{Root: top}, nil
}

// ParseBytes - ParseJSON для среза байт.
func ParseBytes(data []byte) (*edtypes.Document, error) {
	return ParseJSON(bytes.NewReader(data))
}

// ParseOrEmpty никогда не возвращает ошибку: невалидный ввод дает пустой документ.
func ParseOrEmpty(raw string) *edtypes.Document {
	if strings.TrimSpace(raw) == "" {
		return edtypes.NewEmptyDocument()
	}
	doc, err := ParseJSON(strings.NewReader(raw))
	if err != nil {
		editormetrics.DecodeFallbacks.Inc()
		stack_error.Warn("Malformed document replaced with empty one",
			stack_error.TrackErrorStack(err).AddContext("length", len(raw)))
		return edtypes.NewEmptyDocument()
	}
	return doc
}

// parseNode преобразует узел TipTap в edtypes.Node. Пустые текстовые узлы отбрасываются.
func parseNode(node TipTapNode) *edtypes.Node {
	n := &edtypes.Node{
		Type:  edtypes.NodeType(node.Type),
		Attrs: edtypes.Attrs(node.Attrs),
		Text:  node.Text,
	}

	switch n.Type {
	case edtypes.TextNode:
		if node.Text == "" {
			return nil
		}
	case edtypes.HeadingNode:
		n.Attrs = clampHeadingLevel(n.Attrs)
	default:
		if !n.Known() {
			slog.Debug("Unknown node type", "type", node.Type)
		}
	}

	if len(node.Marks) > 0 {
		n.Marks = make([]edtypes.Mark, 0, len(node.Marks))
		for _, m := range node.Marks {
			n.Marks = append(n.Marks, edtypes.Mark{
				Type:  edtypes.MarkType(m.Type),
				Attrs: edtypes.Attrs(m.Attrs),
			})
		}
	}

	if len(node.Content) > 0 {
		n.Content = make([]*edtypes.Node, 0, len(node.Content))
		for _, c := range node.Content {
			if child := parseNode(c); child != nil {
				n.Content = append(n.Content, child)
			}
		}
	}

	return n
}

// clampHeadingLevel приводит уровень заголовка к 1..3.
func clampHeadingLevel(attrs edtypes.Attrs) edtypes.Attrs {
	level, ok := attrs.Int("level")
	switch {
	case ok && level >= 1 && level <= 3:
		if _, isNum := attrs["level"].(float64); isNum {
			return attrs
		}
		return attrs.With("level", float64(level))
	case ok && level > 3:
		slog.Debug("Heading level clamped", "level", level, "clamped", 3)
		return attrs.With("level", float64(3))
	default:
		slog.Debug("Heading level clamped", "level", attrs["level"], "clamped", 1)
		return attrs.With("level", float64(1))
	}
}
