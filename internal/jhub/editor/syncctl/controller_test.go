package syncctl

import (
	"testing"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/config"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/commands"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paragraphDoc(s string) *edtypes.Document {
	return edtypes.NewDocument(&edtypes.Node{
		Type:    edtypes.ParagraphNode,
		Content: []*edtypes.Node{{Type: edtypes.TextNode, Text: s}},
	})
}

func editorConfig(maxChars int) config.Editor {
	cfg := config.DefaultEditor()
	cfg.MaxChars = maxChars
	return cfg
}

func TestNewBuildsEqualSurfaces(t *testing.T) {
	c := New(nil, editorConfig(0), nil)
	defer c.Dispose()

	require.NotNil(t, c.Editor())
	require.NotNil(t, c.Preview())
	assert.True(t, edtypes.Equal(edtypes.NewEmptyDocument(), c.Editor().GetValue()))
	assert.True(t, edtypes.Equal(c.Editor().GetValue(), c.Preview().GetValue()))
	assert.True(t, c.Editor().Editable())
	assert.False(t, c.Preview().Editable())
}

func TestZeroControllerIsInert(t *testing.T) {
	var c Controller
	assert.Nil(t, c.Editor())
	assert.Nil(t, c.Preview())
	assert.False(t, c.Apply(commands.InsertText("x")))
	assert.Equal(t, 0, c.CharacterCount())
	c.SetExternal(paragraphDoc("x"))
	c.Dispose()
}

func TestLocalEditPropagation(t *testing.T) {
	var pushed []*edtypes.Document
	c := New(paragraphDoc("ab"), editorConfig(0), func(d *edtypes.Document) {
		pushed = append(pushed, d)
	})
	defer c.Dispose()

	var previewChanges int
	c.Preview().OnChange(func(*edtypes.Document) { previewChanges++ })

	c.Editor().SetSelection(surface.Cursor(3))
	require.True(t, c.Apply(commands.InsertText("c")))

	require.Len(t, pushed, 1)
	assert.Equal(t, "abc", pushed[0].Root.TextContent())
	assert.True(t, edtypes.Equal(pushed[0], c.Preview().GetValue()))
	assert.Equal(t, 0, previewChanges)

	// смена выделения не считается правкой
	c.Editor().SetSelection(surface.Cursor(1))
	assert.Len(t, pushed, 1)
}

func TestGuardRejectsOverLimit(t *testing.T) {
	var pushes int
	c := New(nil, editorConfig(3), func(*edtypes.Document) { pushes++ })
	defer c.Dispose()

	for _, s := range []string{"a", "b", "c", "d"} {
		c.Apply(commands.InsertText(s))
	}
	assert.Equal(t, 3, pushes)
	assert.Equal(t, 3, c.CharacterCount())
	assert.Equal(t, 0, c.Remaining())
	assert.Equal(t, "abc", c.Preview().GetValue().Root.TextContent())
}

func TestSelfEchoIsIgnored(t *testing.T) {
	var c *Controller
	var pushes int
	c = New(paragraphDoc("ab"), editorConfig(0), func(d *edtypes.Document) {
		pushes++
		c.SetExternal(d)
	})
	defer c.Dispose()

	c.Editor().SetSelection(surface.Cursor(3))
	require.True(t, c.Apply(commands.InsertText("c")))

	assert.Equal(t, 1, pushes)
	assert.Equal(t, surface.Cursor(4), c.Editor().Selection())
	assert.Equal(t, "abc", c.Editor().GetValue().Root.TextContent())
	assert.Equal(t, "abc", c.Preview().GetValue().Root.TextContent())
}

func TestExternalChange(t *testing.T) {
	var pushes int
	c := New(paragraphDoc("hello world"), editorConfig(5), func(*edtypes.Document) { pushes++ })
	defer c.Dispose()

	c.Editor().SetSelection(surface.Cursor(12))

	// внешнее значение не проходит через ограничитель
	c.SetExternal(paragraphDoc("another long text"))
	assert.Equal(t, 0, pushes)
	assert.Equal(t, "another long text", c.Editor().GetValue().Root.TextContent())
	assert.Equal(t, "another long text", c.Preview().GetValue().Root.TextContent())
	assert.Equal(t, surface.Cursor(12), c.Editor().Selection())

	c.SetExternal(paragraphDoc("hi"))
	assert.Equal(t, surface.Cursor(3), c.Editor().Selection())
	assert.Equal(t, "hi", c.Preview().GetValue().Root.TextContent())

	c.SetExternal(nil)
	assert.True(t, edtypes.Equal(edtypes.NewEmptyDocument(), c.Editor().GetValue()))
	assert.Equal(t, surface.Cursor(1), c.Editor().Selection())
	assert.Equal(t, 0, pushes)
}

func TestOwnerReplacesRecordDuringPush(t *testing.T) {
	var c *Controller
	c = New(paragraphDoc("ab"), editorConfig(0), func(*edtypes.Document) {
		c.SetExternal(paragraphDoc("other record"))
	})
	defer c.Dispose()

	c.Editor().SetSelection(surface.Cursor(3))
	require.True(t, c.Apply(commands.InsertText("c")))

	assert.Equal(t, "other record", c.Editor().GetValue().Root.TextContent())
	assert.True(t, edtypes.Equal(c.Editor().GetValue(), c.Preview().GetValue()))
}

func TestExternalChangeKeepsCaretInText(t *testing.T) {
	p := func(s string) *edtypes.Node { return paragraphDoc(s).Blocks()[0] }
	hr := &edtypes.Node{Type: edtypes.HorizontalRuleNode}

	tests := []struct {
		name  string
		from  int
		next  *edtypes.Document
		caret int
		text  string
	}{
		{
			name:  "caret between blocks",
			from:  8,
			next:  edtypes.NewDocument(p("abcdef"), p("gh")),
			caret: 9,
			text:  "abcdefxgh",
		},
		{
			name:  "leading rule",
			from:  1,
			next:  edtypes.NewDocument(hr, p("abc")),
			caret: 2,
			text:  "xabc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(paragraphDoc("abcdefghij"), editorConfig(0), nil)
			defer c.Dispose()

			c.Editor().SetSelection(surface.Cursor(tt.from))
			c.SetExternal(tt.next)
			assert.Equal(t, surface.Cursor(tt.caret), c.Editor().Selection())

			require.True(t, c.Apply(commands.InsertText("x")))
			assert.Equal(t, tt.text, c.Editor().GetValue().Root.TextContent())
		})
	}
}

func TestSessionID(t *testing.T) {
	a := New(nil, editorConfig(0), nil)
	defer a.Dispose()
	b := New(nil, editorConfig(0), nil)
	defer b.Dispose()

	assert.False(t, a.ID().IsNil())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), a.Editor().ID())
}

func TestExternalEqualValueResyncsPreview(t *testing.T) {
	c := New(paragraphDoc("same"), editorConfig(0), nil)
	defer c.Dispose()

	c.Preview().SetValue(paragraphDoc("drifted"), surface.SetOptions{})
	c.Editor().SetSelection(surface.Cursor(3))

	var editChanges int
	c.Editor().OnChange(func(*edtypes.Document) { editChanges++ })

	c.SetExternal(paragraphDoc("same"))
	assert.Equal(t, "same", c.Preview().GetValue().Root.TextContent())
	assert.Equal(t, surface.Cursor(3), c.Editor().Selection())
	assert.Equal(t, 0, editChanges)
}

func TestDispose(t *testing.T) {
	var pushes int
	c := New(nil, editorConfig(0), func(*edtypes.Document) { pushes++ })
	edit := c.Editor()

	c.Dispose()
	c.Dispose()

	assert.Nil(t, c.Editor())
	assert.False(t, c.Apply(commands.InsertText("x")))
	assert.False(t, edit.ApplyCommand(commands.InsertText("x")))
	c.SetExternal(paragraphDoc("x"))
	assert.Equal(t, 0, pushes)
}

func TestReconfigure(t *testing.T) {
	c := New(paragraphDoc("abc"), editorConfig(3), nil)
	defer c.Dispose()

	c.Editor().SetSelection(surface.Cursor(4))
	assert.False(t, c.Apply(commands.InsertText("d")))

	cfg := editorConfig(10)
	cfg.DefaultCodeLanguage = "go"
	require.NoError(t, c.Reconfigure(cfg))
	assert.Equal(t, "go", c.Config().DefaultCodeLanguage)
	assert.Equal(t, "abc", c.Editor().GetValue().Root.TextContent())
	assert.Equal(t, surface.Cursor(4), c.Editor().Selection())
	assert.True(t, c.Apply(commands.InsertText("d")))

	require.True(t, c.ToggleCodeBlock())
	blocks := c.Editor().GetValue().Blocks()
	assert.Equal(t, edtypes.CodeBlockNode, blocks[0].Type)
	assert.Equal(t, "go", blocks[0].Attrs.String("language"))

	bad := cfg
	bad.DefaultCodeLanguage = ""
	assert.Error(t, c.Reconfigure(bad))
	assert.Equal(t, "go", c.Config().DefaultCodeLanguage)
}

func TestReadingMinutes(t *testing.T) {
	assert.Equal(t, 1, ReadingMinutes(0, 500))
	assert.Equal(t, 1, ReadingMinutes(500, 500))
	assert.Equal(t, 2, ReadingMinutes(501, 500))
	assert.Equal(t, 3, ReadingMinutes(1001, 0))

	c := New(paragraphDoc("abc"), editorConfig(0), nil)
	defer c.Dispose()
	assert.Equal(t, 1, c.ReadingMinutes())
	assert.Equal(t, -1, c.Remaining())

	before := c.Tick()
	c.Editor().SetSelection(surface.Cursor(2))
	assert.Greater(t, c.Tick(), before)
}
