package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderCreated EventType = "order.created"
	EventTypeOrderShipped EventType = "order.shipped"
	EventTypeOrderRemoved EventType = "order.removed"

	// Customer события
	EventTypeCustomerRegistered EventType = "customer.registered"
	EventTypeCustomerRemoved    EventType = "customer.removed"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "webshop.order.events"
	TopicDeadLetterQueue = "webshop.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// OrderEvent представляет событие заказа
type OrderEvent struct {
	EventType  EventType `json:"event_type"`
	OrderID    int       `json:"order_id"`
	Username   string    `json:"username"`
	ProductIDs []int     `json:"product_ids,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// CustomerEvent представляет событие покупателя
type CustomerEvent struct {
	EventType EventType `json:"event_type"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID int, username string, productIDs []int) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		Username:   username,
		ProductIDs: productIDs,
		Timestamp:  time.Now().UTC(),
	}
}

// NewCustomerEvent создает новое событие покупателя
func NewCustomerEvent(eventType EventType, username string) *CustomerEvent {
	return &CustomerEvent{
		EventType: eventType,
		Username:  username,
		Timestamp: time.Now().UTC(),
	}
}

// TypedEvent — событие, знающее свой тип. Тип попадает в метаданные
// outbox-сообщения, а само событие — в payload конверта.
type TypedEvent interface {
	Type() EventType
}

func (e *OrderEvent) Type() EventType { return e.EventType }

func (e *CustomerEvent) Type() EventType { return e.EventType }
