package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

const defaultProducerClientID = "webshop-producer"

// Producer публикует события магазина в Kafka синхронно: вызов
// возвращается после подтверждения всеми in-sync репликами.
type Producer struct {
	producer sarama.SyncProducer
	logger   *log.Entry
}

// ProducerOption настраивает sarama-конфигурацию producer'а.
type ProducerOption func(*sarama.Config)

// WithClientID задаёт client id, под которым producer виден брокеру.
// Пустое значение оставляет id по умолчанию.
func WithClientID(id string) ProducerOption {
	return func(config *sarama.Config) {
		if id != "" {
			config.ClientID = id
		}
	}
}

// NewProducer создаёт идемпотентный Kafka producer для событий магазина.
func NewProducer(brokers []string, opts ...ProducerOption) (*Producer, error) {
	config := sarama.NewConfig()
	config.ClientID = defaultProducerClientID
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1 // требование идемпотентного режима

	for _, opt := range opts {
		opt(config)
	}

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		logger:   log.WithFields(log.Fields{"component": "kafka-producer", "client_id": config.ClientID}),
	}, nil
}

// PublishEvent сериализует событие в JSON и отправляет его в topic
func (p *Producer) PublishEvent(topic string, key string, event interface{}) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(eventData),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"topic": topic,
			"key":   key,
		}).Error("failed to send message to kafka")
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":     topic,
		"key":       key,
		"partition": partition,
		"offset":    offset,
	}).Debug("message sent to kafka")

	return nil
}

// Close закрывает соединение с брокерами.
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}
