package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kovalyov-valentin/blog-auto-review/internal/model"
	"github.com/segmentio/kafka-go"
)

// Части kafka.Writer и kafka.Reader, которые нам нужны
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
			// Сообщений за опрос единицы, не ждем наполнения батча
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, data []byte) Result {
	res := newAsyncResult()

	go func() {
		err := p.writer.WriteMessages(ctx, kafka.Message{Value: data})
		res.set("", err)
	}()

	return res
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Handler обрабатывает одно сообщение из очереди
type Handler func(ctx context.Context, env model.Envelope) error

// KafkaConsumer читает топик в consumer group и коммитит offset только
// после успешной обработки.
type KafkaConsumer struct {
	reader messageReader
}

func NewKafkaConsumer(brokers []string, groupID, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

// Run блокируется до отмены ctx или до первой ошибки обработчика.
// Необработанное сообщение остается незакоммиченным и придет снова
// после перезапуска консьюмера.
func (c *KafkaConsumer) Run(ctx context.Context, handle Handler) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		env := model.Envelope{SourceKind: model.SourceKindKafka, Payload: msg.Value}
		if err := handle(ctx, env); err != nil {
			return fmt.Errorf("handle message %s/%d: %w", msg.Topic, msg.Offset, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}
