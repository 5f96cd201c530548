package autoreview

import (
	"errors"
	"fmt"

	"github.com/kovalyov-valentin/blog-auto-review/internal/article"
)

// Kind шаг, на котором упал вызов.
type Kind string

const (
	KindPayload Kind = "payload"
	KindFetch   Kind = "fetch"
	KindModel   Kind = "model"
	KindSecret  Kind = "secret"
	KindChat    Kind = "chat"
)

// UpstreamError ошибка внешнего сервиса или входных данных.
type UpstreamError struct {
	Kind Kind
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstream(kind Kind, err error) error {
	return &UpstreamError{Kind: kind, Err: err}
}

type Status string

const (
	StatusSuccess       Status = "success"
	StatusNotFound      Status = "not_found"
	StatusUpstreamError Status = "upstream_error"
)

// Result итог одного вызова reviewer.
type Result struct {
	Status Status
	Text   string
	// Заполнен только для StatusUpstreamError
	Kind Kind
}

// ResultOf сводит ответ Handle к Result.
func ResultOf(text string, err error) Result {
	if err == nil {
		return Result{Status: StatusSuccess, Text: text}
	}

	if errors.Is(err, article.ErrNotFound) {
		return Result{Status: StatusNotFound}
	}

	var ue *UpstreamError
	if errors.As(err, &ue) {
		return Result{Status: StatusUpstreamError, Kind: ue.Kind}
	}

	return Result{Status: StatusUpstreamError}
}
