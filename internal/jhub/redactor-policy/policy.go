// Определяет политики очистки HTML, полученного рендером документа.
//
// Основные возможности:
//   - UgcPolicy пропускает ровно ту разметку, которую производит рендер: блоки с выравниванием,
//     метки текста со стилями, подсветку кода, таблицы, изображения и встраивание YouTube.
//   - Значения стилей и атрибутов ограничиваются регулярными выражениями.
//   - StripTagsPolicy вырезает всю разметку для вывода простым текстом.
//   - ProcessEmbeds заменяет встроенные ролики текстовыми ссылками там, где iframe недопустим.
package policy

import (
	"container/list"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/microcosm-cc/bluemonday"
)

var StripTagsPolicy *bluemonday.Policy = bluemonday.StrictPolicy()
var UgcPolicy *bluemonday.Policy = bluemonday.UGCPolicy()

var YoutubeEmbedRegexp = regexp.MustCompile(`^https://www\.youtube\.com/embed/[A-Za-z0-9_-]+(\?[A-Za-z0-9_=&;-]*)?$`)

func init() {
	colorRegexp := regexp.MustCompile(`^(#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|rgba?\(\s*\d+\s*,\s*\d+\s*,\s*\d+\s*(,\s*[\d.]+\s*)?\)|[a-z]+)$`)
	sizeRegexp := regexp.MustCompile(`^(\d+(\.\d+)?(px|em|rem|ex|pt|pc|mm|cm|in|vh|vw|vmax|vmin|%)?|auto|inherit|initial|unset)$`)
	alignRegexp := regexp.MustCompile(`^(left|center|right|justify|start|end)$`)
	fontRegexp := regexp.MustCompile(`^[\w\s,"'-]+$`)
	fontWeightRegexp := regexp.MustCompile(`^(normal|bold|bolder|lighter|[1-9]00)$`)
	fontStyleRegexp := regexp.MustCompile(`^(normal|italic|oblique)$`)
	decorationRegexp := regexp.MustCompile(`^(none|underline|overline|line-through)( (underline|overline|line-through))*$`)
	codeClassRegexp := regexp.MustCompile(`^hljs language-[\w#+.-]+$`)
	tokenClassRegexp := regexp.MustCompile(`^hljs-[\w-]+$`)
	allowRegexp := regexp.MustCompile(`^(([\p{L}\p{N}_-]+)(; )?)+$`)

	UgcPolicy.AllowAttrs("class").Matching(regexp.MustCompile(`^tiptap-viewer$`)).OnElements("div")
	UgcPolicy.AllowAttrs("class").Matching(codeClassRegexp).OnElements("code")
	UgcPolicy.AllowAttrs("class").Matching(tokenClassRegexp).OnElements("span")
	UgcPolicy.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")

	UgcPolicy.AllowDataURIImages()
	UgcPolicy.AllowAttrs("loading").Matching(regexp.MustCompile(`^lazy$`)).OnElements("img", "iframe")
	UgcPolicy.AllowAttrs("decoding").Matching(regexp.MustCompile(`^async$`)).OnElements("img")

	UgcPolicy.AllowElements("iframe")
	UgcPolicy.AllowAttrs("src").Matching(YoutubeEmbedRegexp).OnElements("iframe")
	UgcPolicy.AllowAttrs("allow").Matching(allowRegexp).OnElements("iframe")
	UgcPolicy.AllowAttrs("title", "allowfullscreen").OnElements("iframe")
	UgcPolicy.AllowAttrs("referrerpolicy").Matching(regexp.MustCompile(`^strict-origin-when-cross-origin$`)).OnElements("iframe")

	UgcPolicy.AllowStyles("color", "background-color", "background").Matching(colorRegexp).Globally()
	UgcPolicy.AllowStyles("width", "height", "font-size", "padding", "padding-top", "margin-left", "margin-right", "border-radius", "inset").Matching(sizeRegexp).Globally()
	UgcPolicy.AllowStyles("text-align").Matching(alignRegexp).Globally()
	UgcPolicy.AllowStyles("font-family").Matching(fontRegexp).Globally()
	UgcPolicy.AllowStyles("font-weight").Matching(fontWeightRegexp).Globally()
	UgcPolicy.AllowStyles("font-style").Matching(fontStyleRegexp).Globally()
	UgcPolicy.AllowStyles("text-decoration").Matching(decorationRegexp).Globally()

	UgcPolicy.AllowStyles("display").MatchingEnum("block").Globally()
	UgcPolicy.AllowStyles("margin").Matching(regexp.MustCompile(`^(\d+(px|em)?)( \d+(px|em)?){0,3}$`)).Globally()
	UgcPolicy.AllowStyles("position").MatchingEnum("relative", "absolute").OnElements("div", "iframe")
	UgcPolicy.AllowStyles("border").Matching(regexp.MustCompile(`^(0|\d+px solid #[0-9a-fA-F]{3,6})$`)).OnElements("iframe", "td", "th")
	UgcPolicy.AllowStyles("overflow-x").MatchingEnum("auto").OnElements("pre")
	UgcPolicy.AllowStyles("border-collapse").MatchingEnum("collapse").OnElements("table")
}

// ProcessEmbeds заменяет iframe встроенных роликов текстом со ссылкой на ролик.
func ProcessEmbeds(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	queue := list.New()
	queue.PushBack(doc)

	for queue.Len() > 0 {
		element := queue.Front()
		queue.Remove(element)
		node := element.Value.(*html.Node)

		var next *html.Node

		for child := node.FirstChild; child != nil; child = next {
			next = child.NextSibling
			if child.Type == html.ElementNode && child.Data == "iframe" {
				processEmbedNode(child)
			} else {
				if child.FirstChild != nil {
					queue.PushBack(child)
				}
			}
		}
	}

	var result strings.Builder
	html.Render(&result, doc)

	return result.String()
}

func processEmbedNode(node *html.Node) {
	var src, title string

	for _, attr := range node.Attr {
		switch attr.Key {
		case "src":
			src = attr.Val
		case "title":
			title = attr.Val
		}
	}

	replacement := &html.Node{Type: html.TextNode}
	if src != "" {
		replacement.Data = fmt.Sprintf("▶ %s: %s", title, src)
	}
	node.Parent.InsertBefore(replacement, node)
	node.Parent.RemoveChild(node)
}
