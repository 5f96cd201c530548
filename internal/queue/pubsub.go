package queue

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
)

type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func NewPubSubPublisher(ctx context.Context, projectID, topicName string) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &PubSubPublisher{
		client: client,
		topic:  client.Topic(topicName),
	}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, data []byte) Result {
	return p.topic.Publish(ctx, &pubsub.Message{Data: data})
}

// Close дожидается отправки буфера и закрывает клиент.
func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
