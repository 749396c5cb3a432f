package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/tiptap"
)

const sampleDoc = `{"type":"doc","content":[
	{"type":"heading","attrs":{"level":2},"content":[{"type":"text","text":"Итоги"}]},
	{"type":"paragraph","content":[{"type":"text","text":"важно","marks":[{"type":"bold"}]}]},
	{"type":"image","attrs":{"src":"a.png","alt":"pic"}}
]}`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHTMLCommand(t *testing.T) {
	out, _, err := run(t, "", "html", writeDoc(t, sampleDoc))
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="tiptap-viewer">`)
	assert.Contains(t, out, `<h2>Итоги</h2>`)
	assert.Contains(t, out, `<strong>важно</strong>`)
	assert.Contains(t, out, `src="/assets/NOIMAGE.png"`)
}

func TestHTMLCommandResolvesImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/image/base64/a.png" {
			w.Write([]byte(`{"base64":"AAAA"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	out, _, err := run(t, sampleDoc, "html", "--image-base-url", srv.URL, "-")
	require.NoError(t, err)
	assert.Contains(t, out, `src="data:image/png;base64,AAAA"`)
}

func TestMarkdownCommand(t *testing.T) {
	out, _, err := run(t, sampleDoc, "markdown")
	require.NoError(t, err)
	assert.Equal(t, "## Итоги\n\n**важно**\n\n![pic](a.png)\n", out)
}

func TestStatsCommand(t *testing.T) {
	out, _, err := run(t, "", "stats", writeDoc(t, sampleDoc))
	require.NoError(t, err)
	assert.Contains(t, out, "characters: 10\n")
	assert.Contains(t, out, "limit: 20000 (remaining 19990)\n")
	assert.Contains(t, out, "reading time: 1 min\n")
	assert.Contains(t, out, "valid: yes\n")
	assert.Contains(t, out, "excerpt: ")
	assert.Contains(t, out, "Итоги")
}

func TestValidateCommand(t *testing.T) {
	out, _, err := run(t, sampleDoc, "validate")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	_, errOut, err := run(t, `{"type":"doc","content":[{"type":"paragraph"}]}`, "validate")
	assert.Error(t, err)
	assert.Contains(t, errOut, "content.isEmpty")

	_, _, err = run(t, `{"type":"paragraph"}`, "validate")
	assert.Error(t, err)
}

func TestBadInput(t *testing.T) {
	_, _, err := run(t, "{", "html")
	assert.Error(t, err)

	_, _, err = run(t, "", "markdown", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestImageTokens(t *testing.T) {
	doc, err := tiptap.ParseBytes([]byte(`{"type":"doc","content":[
		{"type":"image","attrs":{"src":"a.png"}},
		{"type":"image","attrs":{"src":"https://example.com/b.png"}},
		{"type":"image","attrs":{"src":"data:image/png;base64,AAAA"}},
		{"type":"image","attrs":{"src":" a.png "}},
		{"type":"image","attrs":{"src":""}},
		{"type":"image","attrs":{"src":"dir/c.jpg"}}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "dir/c.jpg"}, imageTokens(doc))
}
