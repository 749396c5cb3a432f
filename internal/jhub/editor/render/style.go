package render

import (
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/utils"
)

var (
	alignKeys   = []string{"textAlign", "align", "textAlignment", "data-align"}
	alignValues = []string{"left", "center", "right", "justify", "start", "end"}
)

// pickTextAlign ищет выравнивание в атрибутах узла. Берется первое заданное значение,
// недопустимое значение дает пустую строку без перехода к следующим ключам.
func pickTextAlign(a edtypes.Attrs) string {
	if a == nil {
		return ""
	}

	var v any
	for _, k := range alignKeys {
		if val, ok := a[k]; ok && val != nil {
			v = val
			break
		}
	}
	if v == nil {
		switch style := a["style"].(type) {
		case map[string]any:
			v = style["textAlign"]
		case edtypes.Attrs:
			v = style["textAlign"]
		case string:
			if s, ok := utils.ParseStyleAttr(style)["text-align"]; ok {
				v = s
			}
		}
	}

	s, ok := v.(string)
	if !ok || !utils.CheckInSlice(alignValues, s) {
		return ""
	}
	return s
}

// blockBoxStyle - размеры и выравнивание блока (изображение, ролик).
func blockBoxStyle(a edtypes.Attrs) utils.Style {
	var style utils.Style
	if a == nil {
		return style
	}

	width := utils.ToCSSSize(a["width"])
	if width == "" {
		width = utils.ToCSSSize(a["w"])
	}
	height := utils.ToCSSSize(a["height"])
	if height == "" {
		height = utils.ToCSSSize(a["h"])
	}
	style.Set("width", width).Set("height", height)

	switch pickTextAlign(a) {
	case "center":
		style.Set("margin-left", "auto").Set("margin-right", "auto").Set("display", "block")
	case "right":
		style.Set("margin-left", "auto").Set("display", "block")
	case "left":
		style.Set("margin-right", "auto").Set("display", "block")
	}
	return style
}
