package commands

import (
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/surface"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/transform"
)

// Размеры шрифта, предлагаемые панелью.
var FontSizes = []string{"12px", "14px", "16px", "18px", "20px", "24px", "28px", "32px", "64px"}

// Цвета маркера, предлагаемые панелью.
var HighlightColors = []string{"#ffe066", "#ffd6e0", "#d0f4de", "#a3c9f9", "#f9c784"}

// storedMarks возвращает ненулевой набор, чтобы отличать "без меток" от "не задано".
func storedMarks(marks []edtypes.Mark) []edtypes.Mark {
	if marks == nil {
		return []edtypes.Mark{}
	}
	return marks
}

// mapMarks применяет fn к диапазону или к сохраненным меткам курсора.
func mapMarks(st surface.State, fn func([]edtypes.Mark) []edtypes.Mark) *surface.Transaction {
	tr := surface.NewTransaction(st)
	sel := st.Selection
	if sel.Empty() {
		return tr.SetStoredMarks(storedMarks(fn(caretMarks(st))))
	}
	return tr.SetDoc(transform.MapMarks(st.Doc, sel.From(), sel.To(), fn))
}

// SetMark добавляет метку. Атрибуты объединяются с атрибутами уже существующей метки того же типа.
func SetMark(t edtypes.MarkType, attrs edtypes.Attrs) surface.Command {
	return func(st surface.State) *surface.Transaction {
		if IsCodeBlockActive(st) {
			return nil
		}
		return mapMarks(st, func(marks []edtypes.Mark) []edtypes.Mark {
			merged := attrs.Clone()
			for _, m := range marks {
				if m.Type == t {
					merged = m.Attrs.Clone()
					for k, v := range attrs {
						merged = merged.With(k, v)
					}
				}
			}
			return transform.AddMarkToSet(marks, edtypes.Mark{Type: t, Attrs: merged})
		})
	}
}

// UnsetMark снимает метку.
func UnsetMark(t edtypes.MarkType) surface.Command {
	return func(st surface.State) *surface.Transaction {
		return mapMarks(st, func(marks []edtypes.Mark) []edtypes.Mark {
			return transform.RemoveMarkFromSet(marks, t)
		})
	}
}

// ToggleMark снимает метку, если она строго активна, иначе ставит.
func ToggleMark(t edtypes.MarkType) surface.Command {
	return func(st surface.State) *surface.Transaction {
		if IsMarkActive(st, t) {
			return UnsetMark(t)(st)
		}
		return SetMark(t, nil)(st)
	}
}

func ToggleBold() surface.Command      { return ToggleMark(edtypes.BoldMark) }
func ToggleItalic() surface.Command    { return ToggleMark(edtypes.ItalicMark) }
func ToggleUnderline() surface.Command { return ToggleMark(edtypes.UnderlineMark) }
func ToggleStrike() surface.Command    { return ToggleMark(edtypes.StrikeMark) }

// setTextStyle меняет один атрибут textStyle. Метка без атрибутов удаляется.
func setTextStyle(key string, value any) surface.Command {
	return func(st surface.State) *surface.Transaction {
		if IsCodeBlockActive(st) {
			return nil
		}
		return mapMarks(st, func(marks []edtypes.Mark) []edtypes.Mark {
			var attrs edtypes.Attrs
			for _, m := range marks {
				if m.Type == edtypes.TextStyleMark {
					attrs = m.Attrs
				}
			}
			attrs = attrs.With(key, value)
			if len(attrs) == 0 {
				return transform.RemoveMarkFromSet(marks, edtypes.TextStyleMark)
			}
			return transform.AddMarkToSet(marks, edtypes.Mark{Type: edtypes.TextStyleMark, Attrs: attrs})
		})
	}
}

// SetFontSize задает размер шрифта. Пустой размер снимает его.
func SetFontSize(size string) surface.Command {
	if size == "" {
		return UnsetFontSize()
	}
	return setTextStyle("fontSize", size)
}

func UnsetFontSize() surface.Command {
	return setTextStyle("fontSize", nil)
}

// SetColor задает цвет текста.
func SetColor(color string) surface.Command {
	if color == "" {
		return UnsetColor()
	}
	return setTextStyle("color", color)
}

func UnsetColor() surface.Command {
	return setTextStyle("color", nil)
}

// ToggleHighlight снимает маркер того же цвета или ставит маркер цвета color.
func ToggleHighlight(color string) surface.Command {
	return func(st surface.State) *surface.Transaction {
		if IsMarkActive(st, edtypes.HighlightMark) && ActiveAttrs(st, edtypes.HighlightMark).String("color") == color {
			return UnsetHighlight()(st)
		}
		return SetMark(edtypes.HighlightMark, edtypes.Attrs{"color": color})(st)
	}
}

func UnsetHighlight() surface.Command {
	return UnsetMark(edtypes.HighlightMark)
}
