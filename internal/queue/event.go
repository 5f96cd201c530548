package queue

import (
	"errors"
	"fmt"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/kovalyov-valentin/blog-auto-review/internal/model"
)

// Тело CloudEvent google.cloud.pubsub.topic.v1.messagePublished
type MessagePublishedData struct {
	Message      PubSubMessage `json:"message"`
	Subscription string        `json:"subscription"`
}

type PubSubMessage struct {
	// base64, декодируется в model.Envelope.URL
	Data       string            `json:"data"`
	Attributes map[string]string `json:"attributes,omitempty"`
	MessageID  string            `json:"messageId,omitempty"`
}

// EnvelopeFromEvent разбирает CloudEvent от pubsub в конверт.
func EnvelopeFromEvent(e event.Event) (model.Envelope, error) {
	var data MessagePublishedData
	if err := e.DataAs(&data); err != nil {
		return model.Envelope{}, fmt.Errorf("decode event %s: %w", e.ID(), err)
	}

	if data.Message.Data == "" {
		return model.Envelope{}, errors.New("event carries no message data")
	}

	return model.Envelope{
		SourceKind: model.SourceKindPubSub,
		Payload:    []byte(data.Message.Data),
	}, nil
}
