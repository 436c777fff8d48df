package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/segmentio/kafka-go"
)

// Publisher writes sync triggers to the catalog-sync topic.
type Publisher struct {
	writer *kafka.Writer
	now    func() time.Time
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		now: time.Now,
	}
}

func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event.Type), Value: value}); err != nil {
		return errors.Wrapf(err, "publish %s", event.Type)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Decode parses a message value into an Event.
func Decode(value []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(value, &event); err != nil {
		return Event{}, errors.Wrap(err, "decode event")
	}
	return event, nil
}

// Brokers splits a comma separated broker list. An empty list disables
// messaging.
func Brokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
