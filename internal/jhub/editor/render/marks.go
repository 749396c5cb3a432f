package render

import (
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/utils"
	"golang.org/x/net/html"
)

// wrapMarks сворачивает метки вокруг текста по порядку: первая метка оказывается самой внутренней.
func wrapMarks(n *html.Node, marks []edtypes.Mark) *html.Node {
	acc := n
	for _, m := range marks {
		acc = wrapMark(acc, m)
	}
	return acc
}

func wrapMark(inner *html.Node, m edtypes.Mark) *html.Node {
	var el *html.Node

	switch m.Type {
	case edtypes.BoldMark:
		el = element("strong")
	case edtypes.ItalicMark:
		el = element("em")
	case edtypes.UnderlineMark:
		el = element("u")
	case edtypes.StrikeMark:
		el = element("s")
	case edtypes.CodeMark:
		el = element("code")
	case edtypes.HighlightMark:
		var style utils.Style
		style.Set("background-color", m.Attrs.String("color"))
		el = withStyle(element("mark"), style)
	case edtypes.LinkMark:
		el = element("a")
		if href := m.Attrs.String("href"); href != "" {
			el.Attr = append(el.Attr, attr("href", href))
		}
		el.Attr = append(el.Attr, attr("target", "_blank"), attr("rel", "noopener noreferrer nofollow"))
	case edtypes.TextStyleMark:
		style := textStyle(m.Attrs)
		if style.Empty() {
			return inner
		}
		el = withStyle(element("span"), style)
	case edtypes.ColorMark:
		c := m.Attrs.String("color")
		if c == "" {
			return inner
		}
		el = element("span", attr("style", "color:"+c))
	default:
		return inner
	}

	el.AppendChild(inner)
	return el
}

func textStyle(a edtypes.Attrs) utils.Style {
	var style utils.Style
	style.Set("color", a.String("color"))
	style.Set("font-size", utils.ToCSSSize(a["fontSize"]))
	style.Set("font-family", a.String("fontFamily"))
	style.Set("font-weight", a.Scalar("fontWeight"))
	style.Set("font-style", a.String("fontStyle"))
	style.Set("text-decoration", a.String("textDecoration"))
	style.Set("background-color", a.String("backgroundColor"))
	return style
}
