package edtypes

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Attrs - атрибуты узла или метки в том виде, в котором они пришли из JSON.
// Числа обычно float64, но код может класть и int.
type Attrs map[string]any

// String безопасно извлекает строковый атрибут.
func (a Attrs) String(key string) string {
	if a == nil {
		return ""
	}
	val, ok := a[key]
	if !ok {
		return ""
	}
	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// Int извлекает целочисленный атрибут. Строки с числом тоже принимаются.
func (a Attrs) Int(key string) (int, bool) {
	if a == nil {
		return 0, false
	}
	f, ok := toFloat(a[key])
	if ok {
		return int(f), true
	}
	if s, ok := a[key].(string); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// Bool безопасно извлекает булевый атрибут.
func (a Attrs) Bool(key string) bool {
	if a == nil {
		return false
	}
	b, _ := a[key].(bool)
	return b
}

// Map возвращает вложенный объект (например style).
func (a Attrs) Map(key string) map[string]any {
	if a == nil {
		return nil
	}
	m, _ := a[key].(map[string]any)
	return m
}

// Scalar возвращает строковое представление строки или числа, пустую строку для остального.
func (a Attrs) Scalar(key string) string {
	if a == nil {
		return ""
	}
	switch v := a[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	}
	return ""
}

// With возвращает копию атрибутов с установленным значением. nil удаляет ключ.
func (a Attrs) With(key string, val any) Attrs {
	c := a.Clone()
	if c == nil {
		c = Attrs{}
	}
	if val == nil {
		delete(c, key)
	} else {
		c[key] = val
	}
	if len(c) == 0 {
		return nil
	}
	return c
}

func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	c := make(Attrs, len(a))
	for k, v := range a {
		c[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	case Attrs:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv)
		}
		return s
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// equalAttrs сравнивает атрибуты структурно. Отсутствующий ключ равен ключу со значением nil.
func equalAttrs(a, b map[string]any) bool {
	for k, va := range a {
		if !equalValue(va, b[k]) {
			return false
		}
	}
	for k, vb := range b {
		if _, ok := a[k]; !ok && vb != nil {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && (fa == fb || (math.IsNaN(fa) && math.IsNaN(fb)))
	}
	switch va := a.(type) {
	case nil:
		return b == nil
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	case bool:
		vb, ok := b.(bool)
		return ok && va == vb
	case Attrs:
		return equalValue(map[string]any(va), b)
	case map[string]any:
		var vb map[string]any
		switch t := b.(type) {
		case map[string]any:
			vb = t
		case Attrs:
			vb = t
		default:
			return false
		}
		return equalAttrs(va, vb)
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !equalValue(va[i], vb[i]) {
				return false
			}
		}
		return true
	}
	return false
}
