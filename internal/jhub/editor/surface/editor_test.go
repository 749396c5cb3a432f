package surface_test

import (
	"strings"
	"testing"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/sizeguard"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/surface"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paragraphDoc(s string) *edtypes.Document {
	if s == "" {
		return edtypes.NewEmptyDocument()
	}
	return edtypes.NewDocument(&edtypes.Node{
		Type:    edtypes.ParagraphNode,
		Content: []*edtypes.Node{{Type: edtypes.TextNode, Text: s}},
	})
}

// typeText - ввод текста в позицию курсора.
func typeText(s string) surface.Command {
	return func(st surface.State) *surface.Transaction {
		out, caret, err := transform.InsertText(st.Doc, st.Selection.Head, s, st.StoredMarks)
		if err != nil {
			return nil
		}
		return surface.NewTransaction(st).SetDoc(out).SetSelection(surface.Cursor(caret))
	}
}

func TestEditorGuardRejectsAtomically(t *testing.T) {
	ed := surface.New(paragraphDoc("abcdefghij"), surface.WithGuard(sizeguard.New(10)))
	ed.SetSelection(surface.Cursor(11))

	var changes int
	ed.OnChange(func(*edtypes.Document) { changes++ })
	var selChanges int
	ed.OnSelectionChange(func(surface.Selection) { selChanges++ })

	assert.False(t, ed.ApplyCommand(typeText("k")))
	assert.Equal(t, 0, changes)
	assert.Equal(t, 0, selChanges)
	assert.Equal(t, 10, ed.CharacterCount())
	assert.Equal(t, surface.Cursor(11), ed.Selection())

	// удаление при полном документе разрешено
	del := func(st surface.State) *surface.Transaction {
		out, pos, ok := transform.DeleteBackward(st.Doc, st.Selection.Head)
		if !ok {
			return nil
		}
		return surface.NewTransaction(st).SetDoc(out).SetSelection(surface.Cursor(pos))
	}
	assert.True(t, ed.ApplyCommand(del))
	assert.Equal(t, 1, changes)
	assert.Equal(t, 9, ed.CharacterCount())

	assert.True(t, ed.ApplyCommand(typeText("z")))
	assert.Equal(t, 10, ed.CharacterCount())
}

func TestEditorSetValueBypassesGuard(t *testing.T) {
	ed := surface.New(nil, surface.WithGuard(sizeguard.New(5)))
	var got *edtypes.Document
	ed.OnChange(func(d *edtypes.Document) { got = d })

	ed.SetValue(paragraphDoc(strings.Repeat("x", 20)), surface.SetOptions{})
	assert.Nil(t, got)
	assert.Equal(t, 20, ed.CharacterCount())

	ed.SetValue(paragraphDoc("abc"), surface.SetOptions{EmitUpdate: true})
	require.NotNil(t, got)
	assert.True(t, edtypes.Equal(paragraphDoc("abc"), got))
}

func TestEditorSetValueClampsSelection(t *testing.T) {
	ed := surface.New(paragraphDoc("0123456789"))
	ed.SetSelection(surface.Cursor(9))

	ed.SetValue(paragraphDoc("ab"), surface.SetOptions{})
	assert.Equal(t, surface.Cursor(3), ed.Selection())
	assert.True(t, ed.ApplyCommand(typeText("c")))
	assert.Equal(t, "abc", ed.GetValue().Root.TextContent())
}

func TestNewPlacesCaretInText(t *testing.T) {
	tests := []struct {
		name   string
		blocks []*edtypes.Node
		caret  int
	}{
		{
			name:   "leading image",
			blocks: []*edtypes.Node{{Type: edtypes.ImageNode, Attrs: edtypes.Attrs{"src": "a.png"}}, paragraphDoc("ab").Blocks()[0]},
			caret:  2,
		},
		{
			name:   "leading rule",
			blocks: []*edtypes.Node{{Type: edtypes.HorizontalRuleNode}, paragraphDoc("ab").Blocks()[0]},
			caret:  2,
		},
		{
			name:   "plain paragraph",
			blocks: paragraphDoc("ab").Blocks(),
			caret:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := surface.New(edtypes.NewDocument(tt.blocks...))
			assert.Equal(t, surface.Cursor(tt.caret), ed.Selection())
			assert.True(t, ed.ApplyCommand(typeText("x")))
			assert.Contains(t, ed.GetValue().Root.TextContent(), "x")
		})
	}
}

func TestSetSelectionBetweenBlocks(t *testing.T) {
	ed := surface.New(edtypes.NewDocument(paragraphDoc("ab").Blocks()[0], paragraphDoc("cd").Blocks()[0]))

	ed.SetSelection(surface.Cursor(4))
	assert.Equal(t, surface.Cursor(5), ed.Selection())

	// диапазон не сдвигается
	ed.SetSelection(surface.Selection{Anchor: 0, Head: 8})
	assert.Equal(t, surface.Selection{Anchor: 0, Head: 8}, ed.Selection())
}

func TestPreviewIsReadOnly(t *testing.T) {
	pv := surface.NewPreview(paragraphDoc("text"))
	assert.False(t, pv.Editable())
	assert.False(t, pv.ApplyCommand(typeText("x")))
	assert.Equal(t, "text", pv.GetValue().Root.TextContent())

	pv.SetValue(paragraphDoc("new"), surface.SetOptions{})
	assert.Equal(t, "new", pv.GetValue().Root.TextContent())
}

func TestGetValueReturnsCopy(t *testing.T) {
	ed := surface.New(paragraphDoc("abc"))
	v := ed.GetValue()
	v.Root.Content[0].Content[0].Text = "changed"
	assert.Equal(t, "abc", ed.GetValue().Root.TextContent())
}

func TestUnsubscribeAndDestroy(t *testing.T) {
	ed := surface.New(nil)
	var a, b int
	unsubA := ed.OnChange(func(*edtypes.Document) { a++ })
	ed.OnChange(func(*edtypes.Document) { b++ })

	require.True(t, ed.ApplyCommand(typeText("1")))
	unsubA()
	require.True(t, ed.ApplyCommand(typeText("2")))
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)

	ed.Destroy()
	ed.Destroy()
	assert.False(t, ed.Editable())
	assert.False(t, ed.ApplyCommand(typeText("3")))
	ed.SetValue(paragraphDoc("x"), surface.SetOptions{EmitUpdate: true})
	assert.Equal(t, 2, b)
	assert.Equal(t, "12", ed.GetValue().Root.TextContent())
}

func TestListenerMayCallBack(t *testing.T) {
	ed := surface.New(nil)
	var seen []string
	ed.OnChange(func(d *edtypes.Document) {
		seen = append(seen, ed.GetValue().Root.TextContent())
		if ed.CharacterCount() < 3 {
			ed.ApplyCommand(typeText("+"))
		}
	})

	require.True(t, ed.ApplyCommand(typeText("a")))
	assert.Equal(t, []string{"a", "a+", "a++"}, seen)
}

func TestEmptyTransactionIsHandled(t *testing.T) {
	ed := surface.New(paragraphDoc("abc"))
	var changes int
	ed.OnChange(func(*edtypes.Document) { changes++ })

	noop := func(st surface.State) *surface.Transaction { return surface.NewTransaction(st) }
	assert.True(t, ed.ApplyCommand(noop))
	assert.Equal(t, 0, changes)

	same := func(st surface.State) *surface.Transaction {
		return surface.NewTransaction(st).SetDoc(paragraphDoc("abc"))
	}
	assert.True(t, ed.ApplyCommand(same))
	assert.Equal(t, 0, changes)
}

func TestTrailingParagraphAfterAtom(t *testing.T) {
	ed := surface.New(paragraphDoc("abc"))
	hr := func(st surface.State) *surface.Transaction {
		doc := st.Doc.Clone()
		doc.Root.Content = append(doc.Root.Content, &edtypes.Node{Type: edtypes.HorizontalRuleNode})
		return surface.NewTransaction(st).SetDoc(doc)
	}
	require.True(t, ed.ApplyCommand(hr))
	blocks := ed.GetValue().Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, edtypes.HorizontalRuleNode, blocks[1].Type)
	assert.Equal(t, edtypes.ParagraphNode, blocks[2].Type)
}

func TestStoredMarksSurviveSnapshot(t *testing.T) {
	ed := surface.New(paragraphDoc("abc"))
	noMarks := func(st surface.State) *surface.Transaction {
		return surface.NewTransaction(st).SetStoredMarks([]edtypes.Mark{})
	}
	require.True(t, ed.ApplyCommand(noMarks))
	st := ed.State()
	assert.NotNil(t, st.StoredMarks)
	assert.Empty(t, st.StoredMarks)

	ed.SetSelection(surface.Cursor(2))
	assert.Nil(t, ed.State().StoredMarks)
}
