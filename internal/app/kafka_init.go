package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/groupone/webshop/internal/config"
	"github.com/groupone/webshop/internal/messaging/kafka"
	"github.com/groupone/webshop/internal/service/outbox"
)

// initKafkaProducer инициализирует Kafka producer, если задан хотя бы
// один брокер. Возвращает nil, nil при пустом списке брокеров.
func initKafkaProducer(brokers []string, logger *log.Entry) (*kafka.Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	producer, err := kafka.NewProducer(brokers, kafka.WithClientID("webshop-outbox"))
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, err
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer, nil
}

// createOutboxWorker собирает воркер публикации outbox-событий поверх
// Kafka producer: основной топик плюс DLQ для исчерпанных попыток.
func createOutboxWorker(
	deps *Dependencies,
	producer *kafka.Producer,
	cfg config.OutboxConfig,
	logger *log.Entry,
) *outbox.Worker {
	publisher := kafka.NewOutboxPublisher(producer, kafka.TopicOrderEvents)
	dlqPublisher := kafka.NewOutboxPublisher(producer, kafka.TopicDeadLetterQueue)

	return outbox.NewWorker(
		deps.Outbox,
		publisher,
		outbox.WithLogger(logger.WithField("component", "outbox-worker")),
		outbox.WithDLQPublisher(dlqPublisher),
		outbox.WithPollInterval(cfg.PollInterval),
		outbox.WithBatchSize(cfg.BatchSize),
		outbox.WithMaxAttempts(cfg.MaxAttempts),
	)
}

// closeKafka закрывает Kafka producer, если он был создан.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}
