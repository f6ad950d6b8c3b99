package kafka

import (
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndSucceed()

	event := NewOrderEvent(EventTypeOrderCreated, 1, "alice", []int{1, 2})

	err := producer.PublishEvent(TopicOrderEvents, "1", event)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewOrderEvent(EventTypeOrderRemoved, 2, "alice", nil)

	err := producer.PublishEvent(TopicOrderEvents, "2", event)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestWithClientID(t *testing.T) {
	config := sarama.NewConfig()
	WithClientID("webshop-test")(config)
	if config.ClientID != "webshop-test" {
		t.Fatalf("expected client id webshop-test, got %s", config.ClientID)
	}

	config = sarama.NewConfig()
	original := config.ClientID
	WithClientID("")(config)
	if config.ClientID != original {
		t.Fatalf("empty client id must not override default, got %s", config.ClientID)
	}
}

func TestNewOrderEvent(t *testing.T) {
	event := NewOrderEvent(EventTypeOrderCreated, 42, "alice", []int{1, 1, 2})

	if event.EventType != EventTypeOrderCreated {
		t.Errorf("expected event type %s, got %s", EventTypeOrderCreated, event.EventType)
	}

	if event.OrderID != 42 {
		t.Errorf("expected order id 42, got %d", event.OrderID)
	}

	if event.Username != "alice" {
		t.Errorf("expected username alice, got %s", event.Username)
	}

	if len(event.ProductIDs) != 3 {
		t.Errorf("expected 3 product ids, got %d", len(event.ProductIDs))
	}

	if event.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}

	if time.Since(event.Timestamp) > time.Second {
		t.Error("timestamp should be close to current time")
	}
}

func TestNewCustomerEvent(t *testing.T) {
	event := NewCustomerEvent(EventTypeCustomerRegistered, "bob")

	if event.EventType != EventTypeCustomerRegistered {
		t.Errorf("expected event type %s, got %s", EventTypeCustomerRegistered, event.EventType)
	}

	if event.Username != "bob" {
		t.Errorf("expected username bob, got %s", event.Username)
	}

	if event.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}
}
