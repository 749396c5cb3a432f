// Пакет render строит статическое HTML представление документа без редактора.
//
// Основные возможности:
//   - Рекурсивный обход дерева документа с отдельной веткой для каждого типа узла.
//   - Свертка меток текста во вложенные inline элементы.
//   - Подсветка синтаксиса блоков кода через chroma.
//   - Разрешение изображений через ImageSource с заглушкой на время загрузки.
//   - Встраивание роликов YouTube по канонической ссылке.
//   - Очистка результата политикой bluemonday и минификация.
//
// Рендер никогда не паникует на пользовательских данных: любая ошибка дает пустую обертку.
package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/tiptap"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editormetrics"
	policy "github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/redactor-policy"
	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"
	"golang.org/x/net/html"
)

const (
	DefaultPlaceholder = "/assets/NOIMAGE.png"
	DefaultLanguage    = "plaintext"

	viewerClass = "tiptap-viewer"
)

var minifier *minify.M = minify.New()

func init() {
	minifier.AddFunc("text/html", mhtml.Minify)
}

// ImageSource отдает готовый src для токена изображения.
// Lookup не должен блокироваться: false означает, что изображение еще не готово или недоступно.
type ImageSource interface {
	Lookup(token string) (string, bool)
}

type Option func(*Renderer)

// WithImages задает источник изображений для токенов, не являющихся готовыми ссылками.
func WithImages(src ImageSource) Option {
	return func(r *Renderer) {
		r.images = src
	}
}

func WithPlaceholder(src string) Option {
	return func(r *Renderer) {
		if src != "" {
			r.placeholder = src
		}
	}
}

// WithDefaultLanguage задает язык блока кода без атрибута language.
func WithDefaultLanguage(lang string) Option {
	return func(r *Renderer) {
		if lang != "" {
			r.defaultLanguage = lang
		}
	}
}

// WithSanitize пропускает результат HTML через redactor-policy.
func WithSanitize(on bool) Option {
	return func(r *Renderer) {
		r.sanitize = on
	}
}

func WithMinify(on bool) Option {
	return func(r *Renderer) {
		r.minify = on
	}
}

// Renderer не хранит состояния между вызовами и безопасен для конкурентного использования,
// если таков ImageSource.
type Renderer struct {
	images          ImageSource
	placeholder     string
	defaultLanguage string
	sanitize        bool
	minify          bool
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		placeholder:     DefaultPlaceholder,
		defaultLanguage: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderDocument оборачивает вывод документа в div.tiptap-viewer.
// Nil документ дает пустую обертку.
func (r *Renderer) RenderDocument(doc *edtypes.Document) (wrapper *html.Node) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Render document panic", "err", fmt.Sprint(rec))
			wrapper = element("div", attr("class", viewerClass))
		}
	}()

	wrapper = element("div", attr("class", viewerClass))
	if doc == nil || doc.Root == nil {
		return wrapper
	}
	appendAll(wrapper, r.Render(doc.Root))
	return wrapper
}

// HTML возвращает строку разметки документа с учетом опций очистки и минификации.
func (r *Renderer) HTML(doc *edtypes.Document) string {
	editormetrics.Renders.WithLabelValues("html").Inc()

	var buf strings.Builder
	if err := html.Render(&buf, r.RenderDocument(doc)); err != nil {
		slog.Error("Render document html", "err", err)
		return `<div class="` + viewerClass + `"></div>`
	}

	res := buf.String()
	if r.sanitize {
		res = policy.UgcPolicy.Sanitize(res)
	}
	if r.minify {
		data, err := minifier.String("text/html", res)
		if err != nil {
			slog.Warn("Error minify rendered document", "err", err)
		} else {
			res = data
		}
	}
	return res
}

// HTMLFromJSON декодирует сохраненный документ и рендерит его.
// Невалидный JSON рендерится как пустой документ.
func (r *Renderer) HTMLFromJSON(raw string) string {
	return r.HTML(tiptap.ParseOrEmpty(raw))
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type: html.ElementNode,
		Data: tag,
		Attr: attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func appendAll(parent *html.Node, children []*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}
