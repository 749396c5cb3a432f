// Пакет youtube разбирает ссылки на ролики YouTube.
package youtube

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const embedBase = "https://www.youtube.com/embed/"

var (
	idReg = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	// Формат ссылки, принимаемый при сохранении контента.
	urlReg = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com/(watch\?v=|embed/)|youtu\.be/)[\w-]{11}($|[?&])`)
)

// ExtractID достает идентификатор ролика из ссылки watch, youtu.be, shorts, embed
// или возвращает сам ввод, если это похоже на голый идентификатор.
func ExtractID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	u, err := url.Parse(input)
	if err == nil && u.Host == "" && strings.Contains(strings.ToLower(input), "youtu") {
		u, err = url.Parse("https://" + input)
	}
	if err != nil || u.Host == "" {
		if idReg.MatchString(input) {
			return input, true
		}
		return "", false
	}

	var id string
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "youtu.be":
		id = strings.Split(strings.TrimPrefix(u.Path, "/"), "/")[0]
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"), strings.HasPrefix(u.Path, "/shorts/"):
			parts := strings.Split(u.Path, "/")
			if len(parts) > 2 {
				id = parts[2]
			}
		}
	}

	if id == "" || !idReg.MatchString(id) {
		return "", false
	}
	return id, true
}

// EmbedURL строит каноническую ссылку для встраивания.
// start < 0 означает отсутствие времени начала. Для ссылки embed остальные
// параметры запроса сохраняются, а start берется из нее, если не задан явно.
func EmbedURL(input string, start int) (string, bool) {
	id, ok := ExtractID(input)
	if !ok {
		return "", false
	}

	extra := embedQuery(input)
	if start < 0 {
		if v, err := strconv.Atoi(extra.Get("start")); err == nil && v >= 0 {
			start = v
		}
	}
	extra.Del("start")
	extra.Del("rel")
	extra.Del("modestbranding")

	var b strings.Builder
	b.WriteString(embedBase)
	b.WriteString(url.PathEscape(id))
	b.WriteString("?rel=0&modestbranding=1")
	if start >= 0 {
		b.WriteString("&start=")
		b.WriteString(strconv.Itoa(start))
	}
	if len(extra) > 0 {
		b.WriteByte('&')
		b.WriteString(extra.Encode())
	}
	return b.String(), true
}

// embedQuery возвращает параметры запроса, если input уже ссылка embed.
func embedQuery(input string) url.Values {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil || !strings.HasPrefix(u.Path, "/embed/") {
		return url.Values{}
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "youtube.com" && !strings.HasSuffix(host, ".youtube.com") {
		return url.Values{}
	}
	return u.Query()
}

// IsValidURL проверяет ссылку по формату, допустимому для сохранения.
func IsValidURL(s string) bool {
	return urlReg.MatchString(strings.TrimSpace(s))
}
