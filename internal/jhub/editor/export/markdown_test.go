package export

import (
	"strings"
	"testing"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txt(s string, marks ...edtypes.Mark) *edtypes.Node {
	return &edtypes.Node{Type: edtypes.TextNode, Text: s, Marks: marks}
}

func nd(t edtypes.NodeType, attrs edtypes.Attrs, content ...*edtypes.Node) *edtypes.Node {
	return &edtypes.Node{Type: t, Attrs: attrs, Content: content}
}

func mark(t edtypes.MarkType) edtypes.Mark {
	return edtypes.Mark{Type: t}
}

func TestMarkdown(t *testing.T) {
	link := edtypes.Mark{Type: edtypes.LinkMark, Attrs: edtypes.Attrs{"href": "https://x.dev"}}
	doc := edtypes.NewDocument(
		nd(edtypes.HeadingNode, edtypes.Attrs{"level": 2}, txt("Title")),
		nd(edtypes.ParagraphNode, nil,
			txt("a "),
			txt("b", mark(edtypes.BoldMark)),
			txt(" "),
			txt("c", mark(edtypes.BoldMark), mark(edtypes.ItalicMark)),
			txt(" "),
			txt("d", link),
			nd(edtypes.HardBreakNode, nil),
			txt("e*f "),
			txt("x_y", mark(edtypes.CodeMark)),
		),
		nd(edtypes.ParagraphNode, nil),
		nd(edtypes.BulletListNode, nil,
			nd(edtypes.ListItemNode, nil, nd(edtypes.ParagraphNode, nil, txt("one"))),
			nd(edtypes.ListItemNode, nil,
				nd(edtypes.ParagraphNode, nil, txt("two")),
				nd(edtypes.OrderedListNode, nil,
					nd(edtypes.ListItemNode, nil, nd(edtypes.ParagraphNode, nil, txt("x"))),
					nd(edtypes.ListItemNode, nil, nd(edtypes.ParagraphNode, nil, txt("y"))),
				),
			),
		),
		nd(edtypes.CodeBlockNode, edtypes.Attrs{"language": "go"}, txt("fmt.Println()")),
		nd(edtypes.HorizontalRuleNode, nil),
		nd(edtypes.ImageNode, edtypes.Attrs{"src": "a.png", "alt": "pic"}),
		nd(edtypes.YoutubeNode, edtypes.Attrs{"src": "https://www.youtube.com/embed/dQw4w9WgXcQ"}),
		nd(edtypes.YoutubeNode, edtypes.Attrs{"src": "https://vimeo.com/1"}),
		nd(edtypes.BlockquoteNode, nil,
			nd(edtypes.ParagraphNode, nil, txt("q1")),
			nd(edtypes.ParagraphNode, nil, txt("q2")),
		),
		nd("callout", nil, txt("hi")),
		nd("widget", nil),
	)

	want := strings.Join([]string{
		"## Title",
		"a **b** ***c*** [d](https://x.dev)  \ne\\*f `x_y`",
		"- one\n- two\n  1. x\n  2. y",
		"```go\nfmt.Println()\n```",
		"---",
		"![pic](a.png)",
		"[YouTube](https://www.youtube.com/watch?v=dQw4w9WgXcQ)",
		"> q1\n> \n> q2",
		"hi",
	}, "\n\n")

	got, err := MarkdownString(doc)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMarkdownPlainCodeBlock(t *testing.T) {
	doc := edtypes.NewDocument(nd(edtypes.CodeBlockNode, edtypes.Attrs{"language": "plaintext"}, txt("x := 1")))
	got, err := MarkdownString(doc)
	require.NoError(t, err)
	assert.Equal(t, "```\nx := 1\n```", got)
}

func TestMarkdownTable(t *testing.T) {
	cell := func(tp edtypes.NodeType, s string) *edtypes.Node {
		return nd(tp, nil, nd(edtypes.ParagraphNode, nil, txt(s)))
	}
	doc := edtypes.NewDocument(nd(edtypes.TableNode, nil,
		nd(edtypes.TableRowNode, nil, cell(edtypes.TableHeaderNode, "Name"), cell(edtypes.TableHeaderNode, "Value")),
		nd(edtypes.TableRowNode, nil, cell(edtypes.TableCellNode, "a|b")),
		nd(edtypes.TableRowNode, nil, cell(edtypes.TableCellNode, "c"), cell(edtypes.TableCellNode, "d"), cell(edtypes.TableCellNode, "extra")),
	))

	got, err := MarkdownString(doc)
	require.NoError(t, err)
	assert.Contains(t, got, "Name")
	assert.Contains(t, got, "Value")
	assert.Contains(t, got, `a\|b`)
	assert.NotContains(t, got, "extra")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(got), "|"))
}

func TestMarkdownEmpty(t *testing.T) {
	got, err := MarkdownString(edtypes.NewEmptyDocument())
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = MarkdownString(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	set, ok := tableSet(nd(edtypes.TableNode, nil))
	assert.False(t, ok)
	assert.Empty(t, set.Header)
}
