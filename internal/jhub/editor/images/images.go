// Пакет images разрешает токены изображений документа в готовые data URL.
//
// Основные возможности:
//   - Resolver получает изображение по токену из API или из MinIO.
//   - Cache отдает результат рендеру без блокировки и загружает недостающее в фоне.
//   - Неудачные загрузки запоминаются, рендер показывает для них заглушку.
package images

import (
	"context"
	"encoding/base64"
	"errors"
	"path"
	"strings"
)

const DataImagePrefix = "data:image/"

var (
	ErrEmptyPayload = errors.New("image payload is empty")
	ErrTooLarge     = errors.New("image is too large")
	ErrNotFound     = errors.New("image not found")
)

// Resolver получает src изображения по токену хранилища.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// ResolverFunc позволяет использовать функцию как Resolver.
type ResolverFunc func(ctx context.Context, token string) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

// MimeByName определяет MIME тип по расширению имени файла.
func MimeByName(name string) string {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	}
	return "application/octet-stream"
}

// ToDataURL дополняет голый base64 префиксом data URL. Готовый data URL возвращается как есть.
func ToDataURL(payload, name string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", ErrEmptyPayload
	}
	if strings.HasPrefix(payload, DataImagePrefix) {
		return payload, nil
	}
	return "data:" + MimeByName(name) + ";base64," + payload, nil
}

// EncodeDataURL кодирует содержимое файла в data URL.
func EncodeDataURL(data []byte, name string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyPayload
	}
	return "data:" + MimeByName(name) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DataURLPayloadSize оценивает размер декодированных данных data URL в байтах.
// Для строк, не являющихся base64 data URL, возвращает 0.
func DataURLPayloadSize(src string) int {
	if !strings.HasPrefix(src, "data:") {
		return 0
	}
	i := strings.IndexByte(src, ',')
	if i < 0 || !strings.HasSuffix(src[:i], ";base64") {
		return 0
	}
	payload := strings.TrimSpace(src[i+1:])
	padding := len(payload) - len(strings.TrimRight(payload, "="))
	size := len(payload)*3/4 - padding
	if size < 0 {
		return 0
	}
	return size
}
