// Конфигурация редактора и рендера из переменных окружения.
//
// Основные возможности:
//   - Загрузка значений по тегам env, в том числе во вложенные структуры.
//   - Значения по умолчанию для лимита символов, языка блока кода и заглушки изображения.
//   - Маскировка секретов (ключи MinIO) в логах.
//   - Проверка значений через go-playground/validator.
package config

import (
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

const (
	DefaultMaxChars            = 20000
	DefaultCodeLanguage        = "plaintext"
	DefaultImagePlaceholder    = "/assets/NOIMAGE.png"
	DefaultReadingCharsPerMin  = 500
	DefaultImageResolveSeconds = 15
	DefaultMaxImageBytes       = 5 * 1024 * 1024
)

// Editor - параметры поверхностей редактирования и рендера.
type Editor struct {
	// MaxChars - лимит символов документа, 0 отключает ограничение.
	MaxChars            int    `env:"EDITOR_MAX_CHARS" validate:"gte=0"`
	DefaultCodeLanguage string `env:"EDITOR_DEFAULT_CODE_LANGUAGE" validate:"required"`
	ImagePlaceholder    string `env:"EDITOR_IMAGE_PLACEHOLDER" validate:"required"`
	ReadingCharsPerMin  int    `env:"EDITOR_READING_CHARS_PER_MINUTE" validate:"gt=0"`
}

type Config struct {
	Editor Editor

	ImageAPIURL          string `env:"IMAGE_API_URL" validate:"omitempty,url"`
	ImageResolveSeconds  int    `env:"IMAGE_RESOLVE_TIMEOUT" validate:"gt=0"`
	MaxImageBytes        int    `env:"IMAGE_MAX_BYTES" validate:"gt=0"`
	ImagePrefetchDisable bool   `env:"IMAGE_PREFETCH_DISABLED"`

	MinioEndpoint   string `env:"MINIO_ENDPOINT"`
	MinioAccessKey  string `env:"MINIO_ACCESS_KEY" validate:"required_with=MinioEndpoint"`
	MinioSecretKey  string `env:"MINIO_SECRET_KEY" validate:"required_with=MinioEndpoint"`
	MinioBucketName string `env:"MINIO_BUCKET_NAME" validate:"required_with=MinioEndpoint"`
	MinioUseSSL     bool   `env:"MINIO_USE_SSL"`
}

// DefaultEditor возвращает параметры редактора по умолчанию.
func DefaultEditor() Editor {
	return Editor{
		MaxChars:            DefaultMaxChars,
		DefaultCodeLanguage: DefaultCodeLanguage,
		ImagePlaceholder:    DefaultImagePlaceholder,
		ReadingCharsPerMin:  DefaultReadingCharsPerMin,
	}
}

func Default() *Config {
	return &Config{
		Editor:              DefaultEditor(),
		ImageResolveSeconds: DefaultImageResolveSeconds,
		MaxImageBytes:       DefaultMaxImageBytes,
	}
}

// ReadConfig загружает конфигурацию поверх значений по умолчанию и проверяет ее.
func ReadConfig() (*Config, error) {
	config := Default()

	envConfig("env", config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate проверяет значения конфигурации.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// Validate проверяет параметры редактора.
func (e Editor) Validate() error {
	return validate.Struct(e)
}

func (c *Config) ImageResolveTimeout() time.Duration {
	return time.Duration(c.ImageResolveSeconds) * time.Second
}

func (c *Config) MinioEnabled() bool {
	return c.MinioEndpoint != ""
}

var validate = validator.New()

// Присваивает полям в переданной структуре значения переменных. Название переменной для каждого поля лежит в теге этого поля.
// Вложенные структуры без тега заполняются рекурсивно.
func envConfig(key string, s interface{}) {
	v := reflect.ValueOf(s).Elem()
	typeParam := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fName := typeParam.Field(i).Name
		fEnvTag := typeParam.Field(i).Tag.Get(key)

		if fEnvTag == "" && v.Field(i).Kind() == reflect.Struct {
			envConfig(key, v.Field(i).Addr().Interface())
			continue
		}

		if !Exist(fEnvTag) {
			continue
		}

		logValue := GetEnv(fEnvTag)
		if logValue == "" {
			continue
		}

		if isSecret(fName) {
			logValue = mask(logValue)
		}
		slog.Info("Set config value",
			slog.String("key", typeParam.Name()+"."+fName),
			slog.String("value", logValue),
			slog.String("source", "ENVIRONMENT"),
		)

		switch v.Field(i).Interface().(type) {
		case string:
			v.Field(i).SetString(GetEnv(fEnvTag))
		case int:
			v.Field(i).SetInt(int64(GetIntEnv(fEnvTag)))
		case bool:
			v.Field(i).SetBool(GetBoolEnv(fEnvTag))
		}
	}
}

func isSecret(field string) bool {
	f := strings.ToLower(field)
	for _, s := range []string{"pass", "secret", "token", "accesskey"} {
		if strings.Contains(f, s) {
			return true
		}
	}
	return false
}

// mask оставляет первый и последний символы значения.
func mask(val string) string {
	r := []rune(val)
	if len(r) <= 2 {
		return strings.Repeat("*", len(r))
	}
	return string(r[0]) + strings.Repeat("*", len(r)-2) + string(r[len(r)-1])
}
