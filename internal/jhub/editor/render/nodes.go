package render

import (
	"strconv"
	"strings"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/youtube"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/utils"
	"golang.org/x/net/html"
)

const (
	youtubeAllow    = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share"
	dataImagePrefix = "data:image/"
)

// Render возвращает HTML узлы для узла документа. Узел doc раскрывается в своих детей,
// узлы, которым нечего показать, дают пустой срез.
func (r *Renderer) Render(n *edtypes.Node) []*html.Node {
	if n == nil {
		return nil
	}

	switch n.Type {
	case edtypes.DocNode:
		return r.renderChildren(n)

	case edtypes.ParagraphNode:
		return one(r.block("p", n))

	case edtypes.HeadingNode:
		return one(r.block("h"+strconv.Itoa(n.HeadingLevel()), n))

	case edtypes.TextNode:
		return one(wrapMarks(text(n.Text), n.Marks))

	case edtypes.ImageNode:
		return one(r.image(n))

	case edtypes.YoutubeNode:
		if el := r.youtube(n); el != nil {
			return one(el)
		}
		return nil

	case edtypes.OrderedListNode:
		return one(r.block("ol", n))

	case edtypes.BulletListNode:
		return one(r.block("ul", n))

	case edtypes.ListItemNode:
		return one(r.block("li", n))

	case edtypes.BlockquoteNode:
		return one(r.block("blockquote", n))

	case edtypes.HorizontalRuleNode:
		return one(element("hr"))

	case edtypes.HardBreakNode:
		return one(element("br"))

	case edtypes.CodeBlockNode:
		return one(r.codeBlock(n))

	case edtypes.TableNode:
		var style utils.Style
		style.Set("border-collapse", "collapse").Set("width", "100%").Set("margin", "1em 0")
		table := element("table", attr("style", style.String()))
		table.AppendChild(appendAll(element("tbody"), r.renderChildren(n)))
		return one(table)

	case edtypes.TableRowNode:
		return one(appendAll(element("tr"), r.renderChildren(n)))

	case edtypes.TableCellNode, edtypes.TableHeaderNode:
		return one(r.cell(n))
	}

	// Неизвестный тип: контейнер показывается как div, лист не показывается
	if n.Content == nil {
		return nil
	}
	return one(r.block("div", n))
}

func (r *Renderer) renderChildren(n *edtypes.Node) []*html.Node {
	var res []*html.Node
	for _, c := range n.Content {
		res = append(res, r.Render(c)...)
	}
	return res
}

// block - элемент с выравниванием текста и детьми узла.
func (r *Renderer) block(tag string, n *edtypes.Node) *html.Node {
	var style utils.Style
	style.Set("text-align", pickTextAlign(n.Attrs))
	return appendAll(withStyle(element(tag), style), r.renderChildren(n))
}

func (r *Renderer) cell(n *edtypes.Node) *html.Node {
	tag := "td"
	var style utils.Style
	style.Set("border", "1px solid #ddd").Set("padding", "6px")
	if n.Type == edtypes.TableHeaderNode {
		tag = "th"
		style.Set("background", "#fafafc")
	}
	style.Set("text-align", pickTextAlign(n.Attrs))
	return appendAll(withStyle(element(tag), style), r.renderChildren(n))
}

func (r *Renderer) image(n *edtypes.Node) *html.Node {
	img := element("img",
		attr("src", r.imageSrc(n.Attrs.String("src"))),
		attr("alt", n.Attrs.String("alt")),
		attr("loading", "lazy"),
		attr("decoding", "async"),
	)
	if title := n.Attrs.String("title"); title != "" {
		img.Attr = append(img.Attr, attr("title", title))
	}
	return withStyle(img, blockBoxStyle(n.Attrs))
}

// imageSrc выбирает src изображения: готовые ссылки и data URL используются как есть,
// остальное считается токеном хранилища.
func (r *Renderer) imageSrc(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return r.placeholder
	case strings.HasPrefix(raw, dataImagePrefix):
		if DataURLHasPayload(raw) {
			return raw
		}
		return r.placeholder
	case IsRemoteURL(raw):
		return raw
	}

	if r.images == nil {
		return r.placeholder
	}
	if src, ok := r.images.Lookup(raw); ok && src != "" {
		return src
	}
	return r.placeholder
}

// IsRemoteURL - абсолютная http(s) ссылка.
func IsRemoteURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// DataURLHasPayload проверяет, что после запятой data URL есть данные.
func DataURLHasPayload(s string) bool {
	i := strings.IndexByte(s, ',')
	return i >= 0 && strings.TrimSpace(s[i+1:]) != ""
}

func (r *Renderer) youtube(n *edtypes.Node) *html.Node {
	srcOrID := n.Attrs.String("src")
	if srcOrID == "" {
		srcOrID = n.Attrs.String("videoId")
	}
	start, ok := n.Attrs.Int("start")
	if !ok || start < 0 {
		start = -1
	}
	embed, ok := youtube.EmbedURL(srcOrID, start)
	if !ok {
		return nil
	}

	title := n.Attrs.String("title")
	if title == "" {
		title = "YouTube"
	}

	var box utils.Style
	box.Set("position", "relative").Set("padding-top", "56.25%").Set("margin", "12px 0")
	box.Merge(blockBoxStyle(n.Attrs))

	var frameStyle utils.Style
	frameStyle.Set("position", "absolute").Set("inset", "0").Set("width", "100%").Set("height", "100%").Set("border", "0")

	frame := element("iframe",
		attr("src", embed),
		attr("title", title),
		attr("allow", youtubeAllow),
		attr("allowfullscreen", ""),
		attr("loading", "lazy"),
		attr("referrerpolicy", "strict-origin-when-cross-origin"),
		attr("style", frameStyle.String()),
	)
	div := withStyle(element("div"), box)
	div.AppendChild(frame)
	return div
}

func (r *Renderer) codeBlock(n *edtypes.Node) *html.Node {
	var style utils.Style
	style.Set("background", "#222").
		Set("color", "#f8f8f2").
		Set("padding", "1em").
		Set("border-radius", "6px").
		Set("overflow-x", "auto").
		Set("text-align", pickTextAlign(n.Attrs))

	language := n.Attrs.String("language")
	if language == "" {
		language = r.defaultLanguage
	}

	var code strings.Builder
	for _, c := range n.Content {
		code.WriteString(c.Text)
	}

	codeEl := appendAll(element("code", attr("class", "hljs language-"+language)), highlight(language, code.String()))
	pre := withStyle(element("pre"), style)
	pre.AppendChild(codeEl)
	return pre
}

func withStyle(el *html.Node, style utils.Style) *html.Node {
	if !style.Empty() {
		el.Attr = append(el.Attr, attr("style", style.String()))
	}
	return el
}

func one(n *html.Node) []*html.Node {
	return []*html.Node{n}
}
