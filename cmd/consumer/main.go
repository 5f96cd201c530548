package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	blogreview "github.com/kovalyov-valentin/blog-auto-review"
	"github.com/kovalyov-valentin/blog-auto-review/internal/app"
	"github.com/kovalyov-valentin/blog-auto-review/internal/config"
	"github.com/kovalyov-valentin/blog-auto-review/internal/logging"
	"github.com/kovalyov-valentin/blog-auto-review/internal/model"
	"github.com/kovalyov-valentin/blog-auto-review/internal/queue"
)

// Reviewer поверх kafka, когда очередь не pubsub.
func main() {
	cfg := config.Get()
	logger := logging.New(cfg.LogJSON).With(logging.Field{Key: "function", Val: "auto-review"})

	if cfg.QueueDriver != "kafka" || len(cfg.KafkaBrokers) == 0 || cfg.TopicName == "" {
		logger.Error("consumer needs queue_driver = kafka, kafka_brokers and TOPIC_NAME")
		os.Exit(1)
	}

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	consumer := queue.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.TopicName)

	err := consumer.Run(ctx, func(ctx context.Context, env model.Envelope) error {
		logger := app.InvocationLogger(cfg, "auto-review")

		pipeline, cleanup, err := app.NewPipeline(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		text, err := pipeline.Handle(ctx, env)

		return blogreview.LogConsumed(logger, text, err)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", logging.Err(err))
		os.Exit(1)
	}

	logger.Info("consumer stopped")
}
