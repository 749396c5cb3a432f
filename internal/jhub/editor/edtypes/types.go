package edtypes

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
)

// NodeType - тип узла документа. Набор известных типов закрыт, любой другой
// тип сохраняется как есть и обрабатывается общей веткой.
type NodeType string

const (
	DocNode            NodeType = "doc"
	ParagraphNode      NodeType = "paragraph"
	HeadingNode        NodeType = "heading"
	TextNode           NodeType = "text"
	ImageNode          NodeType = "image"
	YoutubeNode        NodeType = "youtube"
	OrderedListNode    NodeType = "orderedList"
	BulletListNode     NodeType = "bulletList"
	ListItemNode       NodeType = "listItem"
	BlockquoteNode     NodeType = "blockquote"
	HorizontalRuleNode NodeType = "horizontalRule"
	CodeBlockNode      NodeType = "codeBlock"
	HardBreakNode      NodeType = "hardBreak"
	TableNode          NodeType = "table"
	TableRowNode       NodeType = "tableRow"
	TableCellNode      NodeType = "tableCell"
	TableHeaderNode    NodeType = "tableHeader"
)

// Known возвращает true для типов из закрытого набора.
func (t NodeType) Known() bool {
	switch t {
	case DocNode, ParagraphNode, HeadingNode, TextNode, ImageNode, YoutubeNode,
		OrderedListNode, BulletListNode, ListItemNode, BlockquoteNode,
		HorizontalRuleNode, CodeBlockNode, HardBreakNode,
		TableNode, TableRowNode, TableCellNode, TableHeaderNode:
		return true
	}
	return false
}

// IsTextblock - блоки, содержимое которых состоит из inline узлов.
func (t NodeType) IsTextblock() bool {
	return t == ParagraphNode || t == HeadingNode || t == CodeBlockNode
}

// IsAtom - узлы без содержимого, занимающие одну позицию.
func (t NodeType) IsAtom() bool {
	switch t {
	case ImageNode, YoutubeNode, HorizontalRuleNode, HardBreakNode:
		return true
	}
	return false
}

// IsInline - text и hardBreak, все остальное блочное.
func (t NodeType) IsInline() bool {
	return t == TextNode || t == HardBreakNode
}

// MarkType - тип inline разметки текста.
type MarkType string

const (
	BoldMark      MarkType = "bold"
	ItalicMark    MarkType = "italic"
	UnderlineMark MarkType = "underline"
	StrikeMark    MarkType = "strike"
	CodeMark      MarkType = "code"
	HighlightMark MarkType = "highlight"
	LinkMark      MarkType = "link"
	TextStyleMark MarkType = "textStyle"
	ColorMark     MarkType = "color"
)

var markRank = map[MarkType]int{
	LinkMark:      0,
	BoldMark:      1,
	CodeMark:      2,
	ItalicMark:    3,
	StrikeMark:    4,
	UnderlineMark: 5,
	HighlightMark: 6,
	TextStyleMark: 7,
	ColorMark:     8,
}

// Rank задает канонический порядок меток на текстовом узле.
// Неизвестные метки идут после известных.
func (m MarkType) Rank() int {
	if r, ok := markRank[m]; ok {
		return r
	}
	return len(markRank)
}

type Mark struct {
	Type  MarkType
	Attrs Attrs
}

func (m Mark) Clone() Mark {
	return Mark{Type: m.Type, Attrs: m.Attrs.Clone()}
}

// Node - узел дерева документа. Узел принадлежит ровно одному родителю,
// разделение поддеревьев между документами недопустимо: используйте Clone.
type Node struct {
	Type    NodeType
	Attrs   Attrs
	Content []*Node
	Marks   []Mark
	Text    string
}

// Known возвращает false для узлов неизвестного типа.
func (n *Node) Known() bool {
	return n.Type.Known()
}

// IsText сообщает, является ли узел текстовым.
func (n *Node) IsText() bool {
	return n.Type == TextNode
}

// IsLeaf - текст, атомарные узлы и неизвестные узлы без детей.
func (n *Node) IsLeaf() bool {
	if n.Type == TextNode || n.Type.IsAtom() {
		return true
	}
	return !n.Type.Known() && len(n.Content) == 0
}

// IsInline - текст, hardBreak и неизвестные листовые узлы внутри текстовых блоков.
func (n *Node) IsInline() bool {
	return n.Type.IsInline()
}

// IsTextblock сообщает, содержит ли узел inline контент.
func (n *Node) IsTextblock() bool {
	return n.Type.IsTextblock()
}

// NodeSize возвращает размер узла в позиционной модели:
// текст - число символов, лист - 1, остальные - размер содержимого плюс 2.
func (n *Node) NodeSize() int {
	if n.Type == TextNode {
		return utf8.RuneCountInString(n.Text)
	}
	if n.IsLeaf() {
		return 1
	}
	return n.ContentSize() + 2
}

// ContentSize возвращает суммарный размер дочерних узлов.
func (n *Node) ContentSize() int {
	size := 0
	for _, c := range n.Content {
		size += c.NodeSize()
	}
	return size
}

// HeadingLevel возвращает уровень заголовка, приведенный к диапазону 1..3.
func (n *Node) HeadingLevel() int {
	level, ok := n.Attrs.Int("level")
	if !ok || level < 1 {
		return 1
	}
	if level > 3 {
		return 3
	}
	return level
}

// HasMark проверяет наличие метки указанного типа.
func (n *Node) HasMark(t MarkType) bool {
	_, ok := n.Mark(t)
	return ok
}

// Mark возвращает метку указанного типа, если она есть.
func (n *Node) Mark(t MarkType) (Mark, bool) {
	for _, m := range n.Marks {
		if m.Type == t {
			return m, true
		}
	}
	return Mark{}, false
}

// TextContent собирает текст всех потомков без разметки.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var buf bytes.Buffer
	n.Walk(func(c *Node) bool {
		if c.Type == TextNode {
			buf.WriteString(c.Text)
		}
		return true
	})
	return buf.String()
}

// Walk обходит потомков узла в прямом порядке (сам узел не посещается).
// Если fn возвращает false, дети текущего узла пропускаются.
func (n *Node) Walk(fn func(*Node) bool) {
	for _, c := range n.Content {
		if fn(c) {
			c.Walk(fn)
		}
	}
}

// Clone выполняет глубокое копирование узла.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Type:  n.Type,
		Attrs: n.Attrs.Clone(),
		Text:  n.Text,
	}
	if n.Content != nil {
		c.Content = make([]*Node, len(n.Content))
		for i, ch := range n.Content {
			c.Content[i] = ch.Clone()
		}
	}
	if n.Marks != nil {
		c.Marks = make([]Mark, len(n.Marks))
		for i, m := range n.Marks {
			c.Marks[i] = m.Clone()
		}
	}
	return c
}

// CharCount считает количество символов (рун) во всех текстовых узлах поддерева.
func (n *Node) CharCount() int {
	if n == nil {
		return 0
	}
	if n.Type == TextNode {
		return utf8.RuneCountInString(n.Text)
	}
	count := 0
	for _, c := range n.Content {
		count += c.CharCount()
	}
	return count
}

// TipTapParser - функция для парсинга TipTap JSON, устанавливается из tiptap пакета
var TipTapParser func(io.Reader) (*Document, error)

// TipTapSerializer - функция для сериализации Document в TipTap JSON, устанавливается из tiptap пакета
var TipTapSerializer func(*Document) ([]byte, error)

// Document - корень документа, всегда узел типа doc.
type Document struct {
	Root *Node
}

// NewEmptyDocument возвращает документ из одного пустого параграфа.
func NewEmptyDocument() *Document {
	return &Document{Root: &Node{
		Type:    DocNode,
		Content: []*Node{{Type: ParagraphNode}},
	}}
}

// NewDocument собирает документ из блоков верхнего уровня.
func NewDocument(blocks ...*Node) *Document {
	return &Document{Root: &Node{Type: DocNode, Content: blocks}}
}

// Blocks возвращает блоки верхнего уровня.
func (d *Document) Blocks() []*Node {
	if d == nil || d.Root == nil {
		return nil
	}
	return d.Root.Content
}

func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{Root: d.Root.Clone()}
}

// CharCount - количество символов документа, единица измерения лимита.
func (d *Document) CharCount() int {
	if d == nil {
		return 0
	}
	return d.Root.CharCount()
}

// ContentSize - размер содержимого корня, верхняя граница позиций курсора.
func (d *Document) ContentSize() int {
	if d == nil || d.Root == nil {
		return 0
	}
	return d.Root.ContentSize()
}

// Walk обходит все узлы документа.
func (d *Document) Walk(fn func(*Node) bool) {
	if d == nil || d.Root == nil {
		return
	}
	d.Root.Walk(fn)
}

// IsTrulyEmpty - документ из единственного параграфа без содержимого.
func (d *Document) IsTrulyEmpty() bool {
	blocks := d.Blocks()
	return len(blocks) == 1 && blocks[0].Type == ParagraphNode && blocks[0].ContentSize() == 0
}

// UnmarshalJSON реализует кастомную десериализацию TipTap JSON в Document.
// Автоматически вызывает зарегистрированный TipTapParser.
func (d *Document) UnmarshalJSON(data []byte) error {
	if TipTapParser == nil {
		return errors.New("TipTapParser not registered, import tiptap package to enable TipTap JSON parsing")
	}

	doc, err := TipTapParser(bytes.NewReader(data))
	if err != nil {
		return err
	}

	d.Root = doc.Root
	return nil
}

// MarshalJSON реализует кастомную сериализацию Document в TipTap JSON.
func (d *Document) MarshalJSON() ([]byte, error) {
	if TipTapSerializer == nil {
		return nil, errors.New("TipTapSerializer not registered, import tiptap package to enable TipTap JSON serialization")
	}

	return TipTapSerializer(d)
}

// Value реализует интерфейс driver.Valuer для сохранения Document в JSONB колонке.
func (d Document) Value() (driver.Value, error) {
	b, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Scan реализует интерфейс sql.Scanner. NULL читается как пустой документ.
func (d *Document) Scan(value interface{}) error {
	if value == nil {
		*d = *NewEmptyDocument()
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		slog.Debug("Unsupported document column value", "type", fmt.Sprintf("%T", value))
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	return d.UnmarshalJSON(raw)
}
