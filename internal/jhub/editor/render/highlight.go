package render

import (
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"golang.org/x/net/html"
)

// highlight разбивает код на токены chroma и возвращает span с классами hljs-*.
// Неизвестный язык и ошибки лексера дают код простым текстом.
func highlight(language, code string) []*html.Node {
	if code == "" {
		return nil
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return one(text(code))
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		slog.Debug("Tokenise code block", "language", language, "err", err)
		return one(text(code))
	}

	var (
		res     []*html.Node
		class   string
		buf     strings.Builder
		total   strings.Builder
		flushed bool
	)
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		if class == "" {
			res = append(res, text(buf.String()))
		} else {
			span := element("span", attr("class", class))
			span.AppendChild(text(buf.String()))
			res = append(res, span)
		}
		buf.Reset()
		flushed = true
	}

	for _, tok := range it.Tokens() {
		c := tokenClass(tok.Type)
		if c != class {
			flush()
			class = c
		}
		buf.WriteString(tok.Value)
		total.WriteString(tok.Value)
	}
	flush()

	// Лексер не должен менять текст кода
	if !flushed || total.String() != code {
		return one(text(code))
	}
	return res
}

func tokenClass(t chroma.TokenType) string {
	switch {
	case t == chroma.KeywordType:
		return "hljs-type"
	case t == chroma.KeywordConstant:
		return "hljs-literal"
	case t.InCategory(chroma.Keyword):
		return "hljs-keyword"
	case t == chroma.NameFunction, t == chroma.NameClass:
		return "hljs-title"
	case t == chroma.NameBuiltin, t == chroma.NameBuiltinPseudo:
		return "hljs-built_in"
	case t == chroma.NameTag:
		return "hljs-name"
	case t == chroma.NameAttribute:
		return "hljs-attr"
	case t == chroma.NameDecorator:
		return "hljs-meta"
	case t == chroma.NameProperty:
		return "hljs-property"
	case t >= chroma.NameVariable && t <= chroma.NameVariableMagic:
		return "hljs-variable"
	case t.InSubCategory(chroma.LiteralString):
		return "hljs-string"
	case t.InSubCategory(chroma.LiteralNumber):
		return "hljs-number"
	case t.InSubCategory(chroma.CommentPreproc):
		return "hljs-meta"
	case t.InCategory(chroma.Comment):
		return "hljs-comment"
	case t.InCategory(chroma.Operator):
		return "hljs-operator"
	}
	return ""
}
