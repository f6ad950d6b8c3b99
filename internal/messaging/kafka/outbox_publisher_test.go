package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/groupone/webshop/internal/domain"
)

func TestOutboxPublisher_Publish(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndSucceed()

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer, TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-1",
		AggregateType: "order",
		AggregateID:   "order-123",
		EventType:     "order.created",
		Payload:       []byte(`{"order_id":1}`),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishProducerError(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer, TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-2",
		AggregateType: "order",
		AggregateID:   "order-234",
		EventType:     "order.created",
		Payload:       []byte(`{"order_id":2}`),
	})
	if err == nil {
		t.Fatal("expected publish error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishNilProducer(t *testing.T) {
	t.Parallel()

	publisher := NewOutboxPublisher(nil, TopicOrderEvents)
	if err := publisher.Publish(domain.OutboxMessage{ID: "outbox-3"}); err == nil {
		t.Fatal("expected error for nil producer")
	}
}

func TestParseEventEnvelope(t *testing.T) {
	t.Parallel()

	message := &sarama.ConsumerMessage{
		Value: []byte(`{"id":"outbox-9","aggregate_type":"order","aggregate_id":"7","event_type":"order.created","payload":{"order_id":7}}`),
	}

	envelope, err := ParseEventEnvelope(message)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if envelope.EventType != "order.created" || envelope.AggregateID != "7" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
	if string(envelope.Payload) != `{"order_id":7}` {
		t.Fatalf("unexpected payload: %s", envelope.Payload)
	}

	if _, err := ParseEventEnvelope(&sarama.ConsumerMessage{Value: []byte("not-json")}); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestEventEnvelope_DecodesTypedEvents(t *testing.T) {
	t.Parallel()

	orderEnvelope := &EventEnvelope{
		AggregateType: "order",
		Payload:       []byte(`{"event_type":"order.created","order_id":7,"username":"alice","product_ids":[1,1,2],"timestamp":"2026-08-30T12:00:00Z"}`),
	}
	orderEvent, err := orderEnvelope.OrderEvent()
	if err != nil {
		t.Fatalf("decode order event: %v", err)
	}
	if orderEvent.EventType != EventTypeOrderCreated || orderEvent.OrderID != 7 || orderEvent.Username != "alice" {
		t.Fatalf("unexpected order event: %+v", orderEvent)
	}
	if len(orderEvent.ProductIDs) != 3 {
		t.Fatalf("unexpected product ids: %v", orderEvent.ProductIDs)
	}

	customerEnvelope := &EventEnvelope{
		AggregateType: "customer",
		Payload:       []byte(`{"event_type":"customer.registered","username":"bob","timestamp":"2026-08-30T12:00:00Z"}`),
	}
	customerEvent, err := customerEnvelope.CustomerEvent()
	if err != nil {
		t.Fatalf("decode customer event: %v", err)
	}
	if customerEvent.EventType != EventTypeCustomerRegistered || customerEvent.Username != "bob" {
		t.Fatalf("unexpected customer event: %+v", customerEvent)
	}

	broken := &EventEnvelope{Payload: []byte("{")}
	if _, err := broken.OrderEvent(); err == nil {
		t.Fatal("expected order decode error")
	}
	if _, err := broken.CustomerEvent(); err == nil {
		t.Fatal("expected customer decode error")
	}
}
