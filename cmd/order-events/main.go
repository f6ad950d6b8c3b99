package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/groupone/webshop/internal/messaging/kafka"
)

// Утилита для наблюдения за потоком событий магазина: подписывается на
// topic событий (или DLQ) и печатает конверты в лог.
func main() {
	var (
		brokers string
		topic   string
		groupID string
	)

	flag.StringVar(&brokers, "brokers", "", "kafka brokers, comma-separated (fallback: WEBSHOP_KAFKA_BROKERS)")
	flag.StringVar(&topic, "topic", kafka.TopicOrderEvents, "topic to tail")
	flag.StringVar(&groupID, "group", "webshop-order-events-tail", "consumer group id")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if strings.TrimSpace(brokers) == "" {
		brokers = strings.TrimSpace(os.Getenv("WEBSHOP_KAFKA_BROKERS"))
	}
	if brokers == "" {
		log.Fatal("WEBSHOP_KAFKA_BROKERS (or -brokers) is required")
	}

	logger := log.WithFields(log.Fields{"component": "order-events", "topic": topic})

	handler := func(_ context.Context, message *sarama.ConsumerMessage) error {
		envelope, err := kafka.ParseEventEnvelope(message)
		if err != nil {
			logger.WithError(err).WithField("offset", message.Offset).Warn("skipping unparsable message")
			return nil
		}

		fields := log.Fields{
			"event_type":   envelope.EventType,
			"aggregate":    envelope.AggregateType,
			"aggregate_id": envelope.AggregateID,
			"published_at": envelope.PublishedAt,
			"partition":    message.Partition,
			"offset":       message.Offset,
		}

		switch envelope.AggregateType {
		case "order":
			event, err := envelope.OrderEvent()
			if err != nil {
				logger.WithError(err).WithField("offset", message.Offset).Warn("skipping malformed order event")
				return nil
			}
			fields["order_id"] = event.OrderID
			fields["username"] = event.Username
			fields["product_ids"] = event.ProductIDs
		case "customer":
			event, err := envelope.CustomerEvent()
			if err != nil {
				logger.WithError(err).WithField("offset", message.Offset).Warn("skipping malformed customer event")
				return nil
			}
			fields["username"] = event.Username
		default:
			fields["payload"] = string(envelope.Payload)
		}

		logger.WithFields(fields).Info("event")
		return nil
	}

	consumer, err := kafka.NewConsumer(strings.Split(brokers, ","), groupID, []string{topic}, handler)
	if err != nil {
		log.WithError(err).Fatal("failed to create consumer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		log.WithError(err).Fatal("consumer failed to start")
	}
	logger.Info("tailing events, press Ctrl+C to stop")

	<-ctx.Done()
	if err := consumer.Stop(); err != nil {
		log.WithError(err).Warn("consumer stopped with error")
	}
}
