package utils

import (
	"fmt"
	"regexp"
	"strings"

	policy "github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/redactor-policy"
	"github.com/microcosm-cc/bluemonday"
)

var (
	imgTagRegex   = regexp.MustCompile(`<img[^>]*alt="([^"]*)"[^>]*>`)
	imgRegex      = regexp.MustCompile(`image:\s+\(alt:\s*([^)]*)\)`)
	tableRegex    = regexp.MustCompile(`(?s)<table[^>]*>(.*?)</table>`)
	rowRegex      = regexp.MustCompile(`(?s)<tr[^>]*>(.*?)</tr>`)
	cellRegex     = regexp.MustCompile(`(?s)<td[^>]*>|<th[^>]*>`)
	tableSizeRe   = regexp.MustCompile(`table\s*\(size:\s*(\d+)x(\d+)\)`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// HtmlToText превращает отрендеренный документ в короткий простой текст:
// таблицы и изображения заменяются пометками, теги вырезаются, длина ограничивается limit рунами.
func HtmlToText(text string, limit int) string {
	res := replaceTablesToText(text)
	res = replaceImageToText(res)
	res = policy.ProcessEmbeds(res)
	res = prepareHtmlBody(policy.StripTagsPolicy, res)
	res = multiNewlines.ReplaceAllString(res, "\n\n")
	return Substr(ReplaceImgToEmoj(res), 0, limit)
}

func ReplaceImgToEmoj(body string) string {
	body = imgRegex.ReplaceAllStringFunc(body, func(imgTag string) string {
		matches := imgRegex.FindStringSubmatch(imgTag)
		altText := "image"
		if len(matches) > 1 && matches[1] != "" {
			altText = matches[1]
		}
		return fmt.Sprintf("%s(%s)", "🖼", altText)
	})

	body = tableSizeRe.ReplaceAllStringFunc(body, func(tableTag string) string {
		matches := tableSizeRe.FindStringSubmatch(tableTag)
		if len(matches) == 3 {
			return fmt.Sprintf("%s(%sx%s)", "📊", matches[1], matches[2])
		}
		return tableTag
	})
	return strings.ReplaceAll(body, "&#34;", "\"")
}

func Substr(input string, start int, length int) string {
	asRunes := []rune(input)

	if start >= len(asRunes) {
		return ""
	}

	if length < 0 || start+length > len(asRunes) {
		length = len(asRunes) - start
	}

	return string(asRunes[start : start+length])
}

func prepareHtmlBody(stripPolicy *bluemonday.Policy, html string) string {
	res := html
	for _, tag := range []string{"<p", "<li", "<h1", "<h2", "<h3", "<br"} {
		res = strings.ReplaceAll(res, tag, "\n"+tag)
	}
	res = stripPolicy.Sanitize(res)
	res = strings.TrimSpace(res)
	return res
}

func replaceImageToText(str string) string {
	return imgTagRegex.ReplaceAllStringFunc(str, func(imgTag string) string {
		matches := imgTagRegex.FindStringSubmatch(imgTag)
		altText := "image"
		if len(matches) > 1 {
			altText = matches[1]
		}
		return fmt.Sprintf("%s: (alt: %s)", "image", altText)
	})
}

func replaceTablesToText(html string) string {
	return tableRegex.ReplaceAllStringFunc(html, func(table string) string {
		rows := rowRegex.FindAllStringSubmatch(table, -1)
		numRows := len(rows)
		numCols := 0

		for _, row := range rows {
			cells := cellRegex.FindAllString(row[1], -1)
			if len(cells) > numCols {
				numCols = len(cells)
			}
		}

		return fmt.Sprintf("<p>table (size: %dx%d)</p>", numRows, numCols)
	})
}
