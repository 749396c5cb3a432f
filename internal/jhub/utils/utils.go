// Вспомогательные функции, используемые в разных частях редактора.
//
// Основные возможности:
//   - Преобразование слайсов в множества и проверка вхождения.
//   - Разбор и сборка CSS-строки style.
//   - Подготовка HTML к выводу простым текстом.
package utils

import (
	"fmt"
	"regexp"
	"strings"
)

func SliceToSet[T comparable](ids []T) map[T]struct{} {
	res := make(map[T]struct{})
	for _, id := range ids {
		res[id] = struct{}{}
	}
	return res
}

func CheckInSet[T comparable](set map[T]struct{}, all ...T) bool {
	for _, el := range all {
		if _, ok := set[el]; ok {
			return true
		}
	}
	return false
}

func CheckInSlice[T comparable](in []T, all ...T) bool {
	set := SliceToSet(in)
	return CheckInSet(set, all...)
}

// ParseStyleAttr парсит CSS style строку в map key-value пар.
// Например: "background-color: red; color: blue;" -> {"background-color": "red", "color": "blue"}
func ParseStyleAttr(style string) map[string]string {
	result := make(map[string]string)
	if style == "" {
		return result
	}

	parts := strings.Split(style, ";")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		if key != "" && value != "" {
			result[key] = value
		}
	}

	return result
}

var numberReg = regexp.MustCompile(`^\d+(\.\d+)?$`)

// ToCSSSize приводит размер к CSS: числа и числовые строки получают px.
// Пустая строка означает, что размер не задан.
func ToCSSSize(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%gpx", s)
	case int:
		return fmt.Sprintf("%dpx", s)
	case string:
		if numberReg.MatchString(s) {
			return s + "px"
		}
		return s
	}
	return ""
}

// Style - упорядоченный набор CSS свойств.
type Style struct {
	keys   []string
	values map[string]string
}

// Set задает свойство. Пустое значение пропускается, повторная установка заменяет значение на месте.
func (s *Style) Set(key, value string) *Style {
	if value == "" {
		return s
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	return s
}

// Merge добавляет свойства other поверх текущих.
func (s *Style) Merge(other Style) *Style {
	for _, k := range other.keys {
		s.Set(k, other.values[k])
	}
	return s
}

func (s Style) Empty() bool {
	return len(s.keys) == 0
}

func (s Style) Get(key string) string {
	return s.values[key]
}

// String собирает style атрибут: "color:red;font-size:12px".
func (s Style) String() string {
	parts := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		parts = append(parts, k+":"+s.values[k])
	}
	return strings.Join(parts, ";")
}
