// Пакет validation проверяет документ перед сохранением.
//
// Основные возможности:
//   - Наличие текста, лимиты изображений и роликов, размер встроенных изображений.
//   - Формат ссылок на YouTube.
//   - Структурная проверка JSON документа по JSON Schema до разбора.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/images"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/youtube"
)

const (
	CodeEmpty          = "content.isEmpty"
	CodeTooLong        = "content.tooLong"
	CodeTooManyImages  = "content.permission"
	CodeImageSize      = "image.size"
	CodeTooManyVideos  = "youtube.limit"
	CodeInvalidYoutube = "youtube.invalid"
)

// Limits - ограничения содержимого. MaxChars = 0 отключает лимит символов.
type Limits struct {
	MaxChars      int `validate:"gte=0"`
	MaxImages     int `validate:"gte=0"`
	MaxImageBytes int `validate:"gt=0"`
	MaxYoutube    int `validate:"gte=0"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxChars:      20000,
		MaxImages:     3,
		MaxImageBytes: 5 * 1024 * 1024,
		MaxYoutube:    1,
	}
}

var validate = validator.New()

// FieldError - одно нарушение с машинным кодом.
type FieldError struct {
	Code    string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Errors - все найденные нарушения.
type Errors []*FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has сообщает, есть ли нарушение с кодом code.
func (e Errors) Has(code string) bool {
	for _, fe := range e {
		if fe.Code == code {
			return true
		}
	}
	return false
}

// Validate проверяет документ. Возвращает Errors со всеми нарушениями или nil.
func Validate(doc *edtypes.Document, limits Limits) error {
	if err := validate.Struct(limits); err != nil {
		return fmt.Errorf("invalid limits: %w", err)
	}

	var errs Errors
	add := func(code, format string, args ...any) {
		errs = append(errs, &FieldError{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	var (
		hasText    bool
		imageCount int
		videoCount int
		bigImage   bool
		badVideo   bool
	)
	doc.Walk(func(n *edtypes.Node) bool {
		switch n.Type {
		case edtypes.TextNode:
			if strings.TrimSpace(n.Text) != "" {
				hasText = true
			}
		case edtypes.ImageNode:
			imageCount++
			if src := n.Attrs.String("src"); strings.HasPrefix(src, "data:") && images.DataURLPayloadSize(src) > limits.MaxImageBytes {
				bigImage = true
			}
		case edtypes.YoutubeNode:
			videoCount++
			if !youtube.IsValidURL(n.Attrs.String("src")) {
				badVideo = true
			}
		}
		return true
	})

	if !hasText {
		add(CodeEmpty, "content must contain text")
	}
	if chars := doc.CharCount(); limits.MaxChars > 0 && chars > limits.MaxChars {
		add(CodeTooLong, "content is too long: %d of %d characters", chars, limits.MaxChars)
	}
	if imageCount > limits.MaxImages {
		add(CodeTooManyImages, "content may contain at most %d images", limits.MaxImages)
	}
	if bigImage {
		add(CodeImageSize, "embedded image exceeds %d bytes", limits.MaxImageBytes)
	}
	if videoCount > limits.MaxYoutube {
		add(CodeTooManyVideos, "content may contain at most %d videos", limits.MaxYoutube)
	}
	if badVideo {
		add(CodeInvalidYoutube, "video link is not a valid YouTube URL")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
