// Package blogreview регистрирует облачные функции блога:
// CheckFeed опрашивает ленту, AutoReview проверяет статью и пишет в чат.
package blogreview

import (
	"context"
	"fmt"
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/kovalyov-valentin/blog-auto-review/internal/app"
	"github.com/kovalyov-valentin/blog-auto-review/internal/autoreview"
	"github.com/kovalyov-valentin/blog-auto-review/internal/config"
	"github.com/kovalyov-valentin/blog-auto-review/internal/fetcher"
	"github.com/kovalyov-valentin/blog-auto-review/internal/logging"
	"github.com/kovalyov-valentin/blog-auto-review/internal/queue"
)

func init() {
	functions.HTTP("CheckFeed", CheckFeed)
	functions.CloudEvent("AutoReview", AutoReview)
}

type poller interface {
	Poll(ctx context.Context) (fetcher.Stats, error)
}

type buildPoller func(ctx context.Context, logger *logging.Logger) (poller, func(), error)

// CheckFeed вызывается планировщиком раз в час. Тело и метод запроса не важны.
func CheckFeed(w http.ResponseWriter, r *http.Request) {
	cfg := config.Get()
	logger := app.InvocationLogger(cfg, "check-feed")

	checkFeed(func(ctx context.Context, logger *logging.Logger) (poller, func(), error) {
		return app.NewPoller(ctx, cfg, logger)
	}, logger)(w, r)
}

func checkFeed(build buildPoller, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, cleanup, err := build(r.Context(), logger)
		if err != nil {
			logger.Error("failed to init poller", logging.Err(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		defer cleanup()

		if _, err := p.Poll(r.Context()); err != nil {
			logger.Error("poll failed", logging.Err(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		fmt.Fprint(w, "OK")
	}
}

// AutoReview вызывается на каждое сообщение из топика. Ошибка означает
// неуспешную обработку, повтор решает подписка.
func AutoReview(ctx context.Context, e event.Event) error {
	cfg := config.Get()
	logger := app.InvocationLogger(cfg, "auto-review").With(logging.Field{Key: "event_id", Val: e.ID()})

	env, err := queue.EnvelopeFromEvent(e)
	if err != nil {
		logger.Error("bad event", logging.Err(err))
		return err
	}

	pipeline, cleanup, err := app.NewPipeline(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init reviewer", logging.Err(err))
		return err
	}
	defer cleanup()

	text, err := pipeline.Handle(ctx, env)

	return LogResult(logger, text, err)
}

// LogResult пишет итог вызова reviewer и возвращает его ошибку.
func LogResult(logger *logging.Logger, text string, err error) error {
	res := autoreview.ResultOf(text, err)
	fields := []logging.Field{{Key: "status", Val: res.Status}}

	if err != nil {
		if res.Kind != "" {
			fields = append(fields, logging.Field{Key: "kind", Val: res.Kind})
		}
		logger.Error("review failed", append(fields, logging.Err(err))...)
		return err
	}

	logger.Info("review finished", fields...)
	return nil
}

// LogConsumed то же, что LogResult, но для консьюмера с offset.
// Статьи нет или payload битый: повтор ничего не изменит, поэтому
// сообщение считается обработанным и offset коммитится.
func LogConsumed(logger *logging.Logger, text string, err error) error {
	err = LogResult(logger, text, err)
	if err == nil {
		return nil
	}

	res := autoreview.ResultOf(text, err)
	if res.Status == autoreview.StatusNotFound || res.Kind == autoreview.KindPayload {
		logger.Warn("message dropped", logging.Field{Key: "status", Val: res.Status})
		return nil
	}

	return err
}
