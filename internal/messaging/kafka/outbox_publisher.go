package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/groupone/webshop/internal/domain"
)

// EventEnvelope — формат сообщения в topic событий: метаданные outbox
// плюс исходный payload события без изменений.
type EventEnvelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishedAt   time.Time       `json:"published_at"`
}

// OrderEvent декодирует payload конверта как событие заказа.
func (e *EventEnvelope) OrderEvent() (*OrderEvent, error) {
	var event OrderEvent
	if err := json.Unmarshal(e.Payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order event: %w", err)
	}
	return &event, nil
}

// CustomerEvent декодирует payload конверта как событие покупателя.
func (e *EventEnvelope) CustomerEvent() (*CustomerEvent, error) {
	var event CustomerEvent
	if err := json.Unmarshal(e.Payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer event: %w", err)
	}
	return &event, nil
}

// OutboxTopicPublisher публикует outbox-сообщения в заданный Kafka topic.
type OutboxTopicPublisher struct {
	producer *Producer
	topic    string
}

// NewOutboxPublisher создаёт Kafka-паблишер для transactional outbox.
func NewOutboxPublisher(producer *Producer, topic string) domain.OutboxPublisher {
	if topic == "" {
		topic = TopicOrderEvents
	}
	return &OutboxTopicPublisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *OutboxTopicPublisher) Publish(event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka outbox publisher is not initialized")
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}

	envelope := EventEnvelope{
		ID:            event.ID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Payload:       json.RawMessage(event.Payload),
		PublishedAt:   time.Now().UTC(),
	}

	return p.producer.PublishEvent(p.topic, key, envelope)
}

var _ domain.OutboxPublisher = (*OutboxTopicPublisher)(nil)
