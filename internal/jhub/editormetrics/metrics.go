// Счетчики редактора. Регистрируются в реестре по умолчанию при инициализации пакета.
package editormetrics

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	SizeGuardRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jhub_editor_size_guard_rejections_total",
		Help: "Total count of edits rejected by the character limit",
	})

	DecodeFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jhub_editor_decode_fallbacks_total",
		Help: "Total count of malformed documents replaced with the empty document",
	})

	ImageResolveFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jhub_editor_image_resolve_failures_total",
		Help: "Total count of image tokens that could not be resolved",
	})

	Renders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jhub_editor_renders_total",
		Help: "Total count of static document renders",
	}, []string{"format"})
)

// Register регистрирует счетчики. Повторная регистрация не считается ошибкой.
func Register(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{SizeGuardRejections, DecodeFallbacks, ImageResolveFailures, Renders} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			slog.Error("Register editor metric", "err", err)
		}
	}
}

func init() {
	Register(prometheus.DefaultRegisterer)
}
