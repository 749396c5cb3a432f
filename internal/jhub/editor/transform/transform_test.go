package transform

import (
	"testing"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txt(s string, marks ...edtypes.Mark) *edtypes.Node {
	return &edtypes.Node{Type: edtypes.TextNode, Text: s, Marks: marks}
}

func p(children ...*edtypes.Node) *edtypes.Node {
	return &edtypes.Node{Type: edtypes.ParagraphNode, Content: children}
}

var bold = edtypes.Mark{Type: edtypes.BoldMark}

// helloWorld: p("hello") занимает [0,7), p("world") - [7,14).
func helloWorld() *edtypes.Document {
	return edtypes.NewDocument(p(txt("hello")), p(txt("world")))
}

func TestResolve(t *testing.T) {
	doc := helloWorld()

	tests := []struct {
		pos          int
		depth        int
		parentOffset int
		textOffset   int
	}{
		{0, 0, 0, 0},
		{1, 1, 0, 0},
		{3, 1, 2, 2},
		{6, 1, 5, 0},
		{7, 0, 7, 0},
		{8, 1, 0, 0},
		{14, 0, 14, 0},
	}

	for _, tt := range tests {
		r, err := Resolve(doc, tt.pos)
		require.NoError(t, err, tt.pos)
		assert.Equal(t, tt.depth, r.Depth(), "depth at %d", tt.pos)
		assert.Equal(t, tt.parentOffset, r.ParentOffset, "parent offset at %d", tt.pos)
		assert.Equal(t, tt.textOffset, r.TextOffset(), "text offset at %d", tt.pos)
	}

	_, err := Resolve(doc, 15)
	assert.ErrorIs(t, err, ErrPosition)
	_, err = Resolve(doc, -1)
	assert.ErrorIs(t, err, ErrPosition)
}

func TestResolveMarks(t *testing.T) {
	doc := edtypes.NewDocument(p(txt("ab", bold), txt("cd")))

	r, _ := Resolve(doc, 2)
	assert.Len(t, r.Marks(), 1, "inside bold text")

	r, _ = Resolve(doc, 3)
	assert.Len(t, r.Marks(), 1, "boundary takes marks of node before")

	r, _ = Resolve(doc, 1)
	assert.Len(t, r.Marks(), 1, "start takes marks of node after")

	r, _ = Resolve(doc, 4)
	assert.Empty(t, r.Marks())

	r, _ = Resolve(edtypes.NewEmptyDocument(), 1)
	assert.Empty(t, r.Marks())
}

func TestNodesBetween(t *testing.T) {
	doc := helloWorld()
	var visited []int
	NodesBetween(doc, 2, 9, func(n *edtypes.Node, pos int, _ *edtypes.Node) bool {
		visited = append(visited, pos)
		return true
	})
	assert.Equal(t, []int{0, 1, 7, 8}, visited)

	assert.Equal(t, "llo\nwo", TextBetween(doc, 3, 10, "\n"))
	assert.Len(t, Textblocks(doc, 1, 1), 1)
	assert.Len(t, Textblocks(doc, 0, doc.ContentSize()), 2)
}

func TestAddRemoveMark(t *testing.T) {
	doc := helloWorld()
	marked := AddMark(doc, 2, 4, bold)

	content := marked.Blocks()[0].Content
	require.Len(t, content, 3)
	assert.Equal(t, "h", content[0].Text)
	assert.Equal(t, "el", content[1].Text)
	assert.True(t, content[1].HasMark(edtypes.BoldMark))
	assert.Equal(t, "lo", content[2].Text)

	// исходный документ не меняется
	assert.True(t, edtypes.Equal(doc, helloWorld()))

	unmarked := RemoveMark(marked, 0, marked.ContentSize(), edtypes.BoldMark)
	assert.True(t, edtypes.Equal(doc, unmarked))
}

func TestAddMarkSkipsCodeBlock(t *testing.T) {
	doc := edtypes.NewDocument(&edtypes.Node{Type: edtypes.CodeBlockNode, Content: []*edtypes.Node{txt("x := 1")}})
	out := AddMark(doc, 0, doc.ContentSize(), bold)
	assert.True(t, edtypes.Equal(doc, out))
}

func TestAddMarkReplacesSameType(t *testing.T) {
	red := edtypes.Mark{Type: edtypes.TextStyleMark, Attrs: edtypes.Attrs{"color": "red"}}
	blue := edtypes.Mark{Type: edtypes.TextStyleMark, Attrs: edtypes.Attrs{"color": "blue"}}
	doc := edtypes.NewDocument(p(txt("ab", red)))

	out := AddMark(doc, 1, 3, blue)
	n := out.Blocks()[0].Content[0]
	require.Len(t, n.Marks, 1)
	assert.Equal(t, "blue", n.Marks[0].Attrs.String("color"))
}

func TestDeleteRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     *edtypes.Document
	}{
		{"inside one text", 2, 4, edtypes.NewDocument(p(txt("hlo")), p(txt("world")))},
		{"across blocks joins", 3, 10, edtypes.NewDocument(p(txt("herld")))},
		{"whole document", 0, 14, edtypes.NewEmptyDocument()},
		{"empty range", 5, 5, helloWorld()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := DeleteRange(helloWorld(), tt.from, tt.to)
			assert.True(t, edtypes.Equal(tt.want, out))
		})
	}
}

func TestDeleteRangeIntoList(t *testing.T) {
	list := &edtypes.Node{Type: edtypes.BulletListNode, Content: []*edtypes.Node{
		{Type: edtypes.ListItemNode, Content: []*edtypes.Node{p(txt("one"))}},
		{Type: edtypes.ListItemNode, Content: []*edtypes.Node{p(txt("two"))}},
	}}
	doc := edtypes.NewDocument(p(txt("ab")), list)
	// p("ab") [0,4), список с 4: item1 [5,12), "one" с 7
	out := DeleteRange(doc, 2, 8)

	blocks := out.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "ane", blocks[0].TextContent())
	assert.Equal(t, edtypes.BulletListNode, blocks[1].Type)
	require.Len(t, blocks[1].Content, 1)
	assert.Equal(t, "two", blocks[1].TextContent())
}

func TestInsertText(t *testing.T) {
	out, pos, err := InsertText(helloWorld(), 3, "XY", nil)
	require.NoError(t, err)
	assert.Equal(t, 5, pos)
	assert.Equal(t, "heXYllo", out.Blocks()[0].TextContent())
	assert.Len(t, out.Blocks()[0].Content, 1, "adjacent plain texts merged")

	out, _, err = InsertText(helloWorld(), 6, "!", []edtypes.Mark{bold})
	require.NoError(t, err)
	require.Len(t, out.Blocks()[0].Content, 2)
	assert.True(t, out.Blocks()[0].Content[1].HasMark(edtypes.BoldMark))

	_, _, err = InsertText(helloWorld(), 7, "x", nil)
	assert.ErrorIs(t, err, ErrNotTextblock)
}

func TestInsertTextIntoCodeBlockDropsMarks(t *testing.T) {
	doc := edtypes.NewDocument(&edtypes.Node{Type: edtypes.CodeBlockNode})
	out, _, err := InsertText(doc, 1, "fmt", []edtypes.Mark{bold})
	require.NoError(t, err)
	assert.Empty(t, out.Blocks()[0].Content[0].Marks)
}

func TestInsertBlock(t *testing.T) {
	hr := &edtypes.Node{Type: edtypes.HorizontalRuleNode}

	tests := []struct {
		name      string
		doc       *edtypes.Document
		pos       int
		wantTypes []edtypes.NodeType
		wantPos   int
	}{
		{"end of first block", helloWorld(), 6,
			[]edtypes.NodeType{edtypes.ParagraphNode, edtypes.HorizontalRuleNode, edtypes.ParagraphNode}, 9},
		{"end of document adds trailing paragraph", helloWorld(), 13,
			[]edtypes.NodeType{edtypes.ParagraphNode, edtypes.ParagraphNode, edtypes.HorizontalRuleNode, edtypes.ParagraphNode}, 16},
		{"empty paragraph replaced", edtypes.NewEmptyDocument(), 1,
			[]edtypes.NodeType{edtypes.HorizontalRuleNode, edtypes.ParagraphNode}, 2},
		{"middle splits block", helloWorld(), 3,
			[]edtypes.NodeType{edtypes.ParagraphNode, edtypes.HorizontalRuleNode, edtypes.ParagraphNode, edtypes.ParagraphNode}, 6},
		{"start inserts before", helloWorld(), 8,
			[]edtypes.NodeType{edtypes.ParagraphNode, edtypes.HorizontalRuleNode, edtypes.ParagraphNode}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, pos, err := InsertBlock(tt.doc, tt.pos, hr)
			require.NoError(t, err)

			var types []edtypes.NodeType
			for _, b := range out.Blocks() {
				types = append(types, b.Type)
			}
			assert.Equal(t, tt.wantTypes, types)
			assert.Equal(t, tt.wantPos, pos)
			assert.Equal(t, tt.doc.CharCount(), out.CharCount())
		})
	}
}

func TestJoinBackward(t *testing.T) {
	t.Run("textblocks merge", func(t *testing.T) {
		out, pos, ok := JoinBackward(helloWorld(), 8)
		require.True(t, ok)
		assert.Equal(t, 6, pos)
		assert.True(t, edtypes.Equal(edtypes.NewDocument(p(txt("helloworld"))), out))
	})

	t.Run("start of document", func(t *testing.T) {
		_, _, ok := JoinBackward(helloWorld(), 1)
		assert.False(t, ok)
	})

	t.Run("atom before is removed", func(t *testing.T) {
		doc := edtypes.NewDocument(p(txt("a")), &edtypes.Node{Type: edtypes.HorizontalRuleNode}, p(txt("b")))
		out, pos, ok := JoinBackward(doc, 5)
		require.True(t, ok)
		assert.Equal(t, 4, pos)
		assert.True(t, edtypes.Equal(edtypes.NewDocument(p(txt("a")), p(txt("b"))), out))
	})

	t.Run("into last item of list", func(t *testing.T) {
		list := &edtypes.Node{Type: edtypes.BulletListNode, Content: []*edtypes.Node{
			{Type: edtypes.ListItemNode, Content: []*edtypes.Node{p(txt("a"))}},
		}}
		doc := edtypes.NewDocument(list, p(txt("b")))
		out, pos, ok := JoinBackward(doc, 8)
		require.True(t, ok)
		assert.Equal(t, 4, pos)
		require.Len(t, out.Blocks(), 1)
		assert.Equal(t, "ab", out.Blocks()[0].TextContent())
	})

	t.Run("not at block start", func(t *testing.T) {
		_, _, ok := JoinBackward(helloWorld(), 10)
		assert.False(t, ok)
	})
}

func TestDeleteBackward(t *testing.T) {
	out, pos, ok := DeleteBackward(helloWorld(), 3)
	require.True(t, ok)
	assert.Equal(t, 2, pos)
	assert.Equal(t, "hllo", out.Blocks()[0].TextContent())

	_, _, ok = DeleteBackward(helloWorld(), 1)
	assert.False(t, ok)
}

func TestSetBlockType(t *testing.T) {
	doc := edtypes.NewDocument(
		&edtypes.Node{Type: edtypes.ParagraphNode, Attrs: edtypes.Attrs{"textAlign": "center"}, Content: []*edtypes.Node{
			txt("a", bold), {Type: edtypes.HardBreakNode}, txt("b"),
		}},
	)

	h := SetBlockType(doc, 1, 1, edtypes.HeadingNode, edtypes.Attrs{"level": 2})
	assert.Equal(t, edtypes.HeadingNode, h.Blocks()[0].Type)
	assert.Equal(t, 2, h.Blocks()[0].HeadingLevel())
	assert.Equal(t, "center", h.Blocks()[0].Attrs.String("textAlign"))

	code := SetBlockType(doc, 1, 1, edtypes.CodeBlockNode, edtypes.Attrs{"language": "go"})
	cb := code.Blocks()[0]
	require.Len(t, cb.Content, 1)
	assert.Equal(t, "a\nb", cb.Content[0].Text)
	assert.Empty(t, cb.Content[0].Marks)
	assert.Empty(t, cb.Attrs.String("textAlign"))
	assert.Equal(t, doc.ContentSize(), code.ContentSize(), "positions preserved")

	back := SetBlockType(code, 1, 1, edtypes.ParagraphNode, nil)
	require.Len(t, back.Blocks()[0].Content, 3)
	assert.Equal(t, edtypes.HardBreakNode, back.Blocks()[0].Content[1].Type)
}

func TestSetBlockAttr(t *testing.T) {
	doc := edtypes.NewDocument(p(txt("a")), &edtypes.Node{Type: edtypes.CodeBlockNode, Content: []*edtypes.Node{txt("b")}})
	out := SetBlockAttr(doc, 0, doc.ContentSize(), []edtypes.NodeType{edtypes.ParagraphNode, edtypes.HeadingNode}, "textAlign", "right")
	assert.Equal(t, "right", out.Blocks()[0].Attrs.String("textAlign"))
	assert.Empty(t, out.Blocks()[1].Attrs)

	cleared := SetBlockAttr(out, 0, out.ContentSize(), []edtypes.NodeType{edtypes.ParagraphNode}, "textAlign", nil)
	assert.True(t, edtypes.Equal(doc, cleared))
}

func TestClampCursor(t *testing.T) {
	doc := edtypes.NewDocument(p(txt("ab")))
	assert.Equal(t, 1, ClampCursor(doc, 0))
	assert.Equal(t, 2, ClampCursor(doc, 2))
	assert.Equal(t, 3, ClampCursor(doc, 40))
	assert.Equal(t, 1, ClampCursor(edtypes.NewEmptyDocument(), 9))
	assert.Equal(t, 0, ClampCursor(nil, 5))
}

func TestClampCursorLeavesBlockBoundaries(t *testing.T) {
	hr := &edtypes.Node{Type: edtypes.HorizontalRuleNode}
	img := &edtypes.Node{Type: edtypes.ImageNode, Attrs: edtypes.Attrs{"src": "a.png"}}
	list := &edtypes.Node{Type: edtypes.BulletListNode, Content: []*edtypes.Node{
		{Type: edtypes.ListItemNode, Content: []*edtypes.Node{p(txt("li"))}},
	}}

	tests := []struct {
		name string
		doc  *edtypes.Document
		pos  int
		want int
	}{
		{"between paragraphs prefers next", edtypes.NewDocument(p(txt("abcdef")), p(txt("gh"))), 8, 9},
		{"after rule", edtypes.NewDocument(hr, p(txt("abc"))), 1, 2},
		{"before rule", edtypes.NewDocument(hr, p(txt("abc"))), 0, 2},
		{"after image at end", edtypes.NewDocument(p(txt("ab")), img), 5, 3},
		{"into list item", edtypes.NewDocument(list), 0, 3},
		{"inside text kept", edtypes.NewDocument(hr, p(txt("abc"))), 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampCursor(tt.doc, tt.pos)
			assert.Equal(t, tt.want, got)

			_, _, err := InsertText(tt.doc, got, "x", nil)
			assert.NoError(t, err)
		})
	}

	// без текстовых блоков позиция только приводится к границам
	assert.Equal(t, 1, ClampCursor(edtypes.NewDocument(hr), 7))
}
