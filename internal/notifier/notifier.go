package notifier

import (
	"context"
	"errors"
)

// Заголовок сообщения с результатом ревью
const headerText = "以下のブログをレビューしました"

// Notifier публикует результат ревью в чат.
type Notifier interface {
	Notify(ctx context.Context, url, review string) error
}

// TokenSource отдает токен бота на момент вызова.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenError не удалось получить токен, до чата дело не дошло.
type TokenError struct {
	Err error
}

func (e *TokenError) Error() string {
	return "get bot token: " + e.Err.Error()
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

func IsTokenError(err error) bool {
	var te *TokenError
	return errors.As(err, &te)
}
