package stack_error

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
)

// TrackerError накапливает места прохождения ошибки и контекст для лога.
type TrackerError struct {
	Context  map[string]any
	ErrStack []slog.Attr
	cause    error
}

func TrackErrorStack(err error) *TrackerError {
	var te *TrackerError
	if errors.As(err, &te) {
		te.ErrStack = append(te.ErrStack, getCallerFile(err))
		return te
	}

	newTe := newTrackError(err)
	newTe.ErrStack = append(newTe.ErrStack, getCallerFile(err))
	return newTe
}

func newTrackError(err error) *TrackerError {
	return &TrackerError{
		Context:  make(map[string]any),
		ErrStack: make([]slog.Attr, 0),
		cause:    err,
	}
}

// AddContext добавляет пару в контекст, существующий ключ не перезаписывается.
func (te *TrackerError) AddContext(k string, v any) *TrackerError {
	if _, ok := te.Context[k]; !ok {
		te.Context[k] = v
	}
	return te
}

// Warn пишет ошибку в лог уровнем warn. Используется там, где ошибка
// обработана деградацией (пустой документ, заглушка изображения).
func Warn(msg string, err error, attrs ...any) {
	logError(slog.LevelWarn, msg, err, attrs)
}

// Error пишет ошибку в лог уровнем error вместе с трассой.
func Error(msg string, err error, attrs ...any) {
	logError(slog.LevelError, msg, err, attrs)
}

func logError(level slog.Level, msg string, err error, extra []any) {
	if err == nil {
		return
	}
	var trackerError *TrackerError
	var attrs []any

	if errors.As(err, &trackerError) {
		trackerError.traceOut()
		attrs = trackerError.getAttrs()
		attrs = append(attrs, "err", trackerError.Error())
	} else {
		attrs = []any{slog.String("raw_error", err.Error())}
	}
	attrs = append(attrs, extra...)

	slog.Log(context.Background(), level, msg, attrs...)
}

func (te *TrackerError) Error() string {
	if te.cause != nil {
		return te.cause.Error()
	}
	return "TrackerError"
}

func (te *TrackerError) Unwrap() error {
	return te.cause
}

func (te *TrackerError) getAttrs() []any {
	keys := make([]string, 0, len(te.Context))
	for k := range te.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := make([]any, 0, len(te.Context))
	for _, k := range keys {
		res = append(res, slog.Any(k, te.Context[k]))
	}
	return res
}

func (te *TrackerError) traceOut() {
	for _, attr := range te.ErrStack {
		slog.Debug("trace:", attr)
	}
}

func getCallerFile(err error) slog.Attr {
	_, path, no, ok := runtime.Caller(2)
	if !ok {
		return slog.String("trace", "unknown")
	}
	_, file := filepath.Split(path)
	return slog.String("trace", fmt.Sprintf("%s:%d %s", file, no, err.Error()))
}
