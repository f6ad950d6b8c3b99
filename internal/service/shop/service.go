package shop

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/groupone/webshop/internal/domain"
	"github.com/groupone/webshop/internal/messaging/kafka"
	"github.com/groupone/webshop/internal/metrics"
)

// Service реализует операции магазина поверх репозиториев.
type Service struct {
	products  domain.ProductRepository
	customers domain.CustomerRepository
	orders    domain.OrderRepository
	placer    domain.OrderPlacer
	outbox    domain.OutboxRepository
	metrics   *metrics.ShopMetrics
	logger    *log.Entry
}

// Options задаёт необязательные зависимости сервиса.
type Options struct {
	Outbox  domain.OutboxRepository
	Metrics *metrics.ShopMetrics
	Logger  *log.Entry
}

// NewService создаёт сервис магазина.
func NewService(
	products domain.ProductRepository,
	customers domain.CustomerRepository,
	orders domain.OrderRepository,
	placer domain.OrderPlacer,
	opts Options,
) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "shop-service")
	}

	return &Service{
		products:  products,
		customers: customers,
		orders:    orders,
		placer:    placer,
		outbox:    opts.Outbox,
		metrics:   opts.Metrics,
		logger:    logger,
	}
}

// AddProduct назначает товару следующий свободный идентификатор и сохраняет его.
func (s *Service) AddProduct(params domain.ProductParams) (domain.Product, error) {
	const op = "add product"
	defer s.observe("add_product", time.Now())

	highest, err := s.products.HighestID()
	if err != nil {
		return domain.Product{}, wrap(op, err)
	}

	product := domain.NewProduct(highest+1, params)
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, wrap(op, errors.Join(errs...))
	}

	if err := s.products.Add(product); err != nil {
		return domain.Product{}, wrap(op, err)
	}

	return product, nil
}

// Product возвращает товар по идентификатору.
func (s *Service) Product(id int) (domain.Product, error) {
	defer s.observe("get_product", time.Now())

	product, err := s.products.Get(id)
	if err != nil {
		return domain.Product{}, wrap("get product", err)
	}
	return product, nil
}

// Products возвращает весь каталог.
func (s *Service) Products() ([]domain.Product, error) {
	defer s.observe("list_products", time.Now())

	products, err := s.products.List()
	if err != nil {
		return nil, wrap("list products", err)
	}
	return products, nil
}

// UpdateProduct целиком заменяет атрибуты товара.
func (s *Service) UpdateProduct(product domain.Product) error {
	const op = "update product"
	defer s.observe("update_product", time.Now())

	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return wrap(op, errors.Join(errs...))
	}
	return wrap(op, s.products.Update(product))
}

// RemoveProduct удаляет товар из каталога.
func (s *Service) RemoveProduct(id int) error {
	defer s.observe("remove_product", time.Now())
	return wrap("remove product", s.products.Remove(id))
}

// AddCustomer регистрирует покупателя.
func (s *Service) AddCustomer(customer domain.Customer) error {
	const op = "add customer"
	defer s.observe("add_customer", time.Now())

	if errs := customer.ValidateInvariants(); len(errs) > 0 {
		return wrap(op, errors.Join(errs...))
	}
	if err := s.customers.Add(customer); err != nil {
		return wrap(op, err)
	}

	s.enqueueEvent("customer", customer.Username,
		kafka.NewCustomerEvent(kafka.EventTypeCustomerRegistered, customer.Username))

	return nil
}

// Customer возвращает покупателя вместе с корзиной.
func (s *Service) Customer(username string) (domain.Customer, error) {
	defer s.observe("get_customer", time.Now())

	customer, err := s.customers.Get(username)
	if err != nil {
		return domain.Customer{}, wrap("get customer", err)
	}
	return customer, nil
}

// Customers возвращает всех покупателей.
func (s *Service) Customers() ([]domain.Customer, error) {
	defer s.observe("list_customers", time.Now())

	customers, err := s.customers.List()
	if err != nil {
		return nil, wrap("list customers", err)
	}
	return customers, nil
}

// UpdateCustomer заменяет атрибуты покупателя и его корзину.
func (s *Service) UpdateCustomer(customer domain.Customer) error {
	const op = "update customer"
	defer s.observe("update_customer", time.Now())

	if errs := customer.ValidateInvariants(); len(errs) > 0 {
		return wrap(op, errors.Join(errs...))
	}
	return wrap(op, s.customers.Update(customer))
}

// RemoveCustomer удаляет покупателя и его корзину.
func (s *Service) RemoveCustomer(username string) error {
	const op = "remove customer"
	defer s.observe("remove_customer", time.Now())

	if err := s.customers.Remove(username); err != nil {
		return wrap(op, err)
	}

	s.enqueueEvent("customer", username,
		kafka.NewCustomerEvent(kafka.EventTypeCustomerRemoved, username))

	return nil
}

// AddProductToCustomer кладёт amount единиц товара в корзину покупателя.
// amount <= 0 трактуется как одна единица. Если остатка не хватает,
// корзина не меняется и ошибки нет: отказ виден по содержимому корзины.
func (s *Service) AddProductToCustomer(productID int, username string, amount int) error {
	const op = "add product to cart"
	defer s.observe("add_to_cart", time.Now())

	if amount <= 0 {
		amount = 1
	}

	product, err := s.products.Get(productID)
	if err != nil {
		return wrap(op, err)
	}
	customer, err := s.customers.Get(username)
	if err != nil {
		return wrap(op, err)
	}

	if product.Quantity < amount {
		s.logger.WithFields(log.Fields{
			"product_id": productID,
			"username":   username,
			"amount":     amount,
			"quantity":   product.Quantity,
		}).Info("not enough stock, cart unchanged")
		return nil
	}

	for i := 0; i < amount; i++ {
		customer.AddToCart(productID)
	}

	return wrap(op, s.customers.Update(customer))
}

// CreateOrder размещает заказ из корзины покупателя: заголовок, позиции,
// списание остатков и очистка корзины в одной транзакции размещения.
func (s *Service) CreateOrder(username string) (domain.Order, error) {
	const op = "create order"
	started := time.Now()
	defer s.observe("create_order", started)

	customer, err := s.customers.Get(username)
	if err != nil {
		return domain.Order{}, wrap(op, err)
	}
	if len(customer.Cart) == 0 {
		return domain.Order{}, wrap(op, domain.ErrEmptyCart)
	}

	highest, err := s.orders.HighestID()
	if err != nil {
		return domain.Order{}, wrap(op, err)
	}

	order := domain.NewOrder(highest+1, username, customer.Cart)
	if err := s.placer.Place(order); err != nil {
		if s.metrics != nil {
			s.metrics.RecordOrderFailed()
		}
		return domain.Order{}, wrap(op, err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderPlaced()
		s.metrics.RecordPlacementDuration(time.Since(started))
	}

	s.enqueueEvent("order", strconv.Itoa(order.ID),
		kafka.NewOrderEvent(kafka.EventTypeOrderCreated, order.ID, order.Username, order.ProductIDs))

	return order, nil
}

// Order возвращает заказ по идентификатору.
func (s *Service) Order(id int) (domain.Order, error) {
	defer s.observe("get_order", time.Now())

	order, err := s.orders.Get(id)
	if err != nil {
		return domain.Order{}, wrap("get order", err)
	}
	return order, nil
}

// Orders возвращает заказы покупателя. Покупатель обязан существовать.
func (s *Service) Orders(username string) ([]domain.Order, error) {
	const op = "list orders"
	defer s.observe("list_orders", time.Now())

	if _, err := s.customers.Get(username); err != nil {
		return nil, wrap(op, err)
	}

	orders, err := s.orders.ListByCustomer(username)
	if err != nil {
		return nil, wrap(op, err)
	}
	return orders, nil
}

// UpdateOrder заменяет метки времени и позиции заказа. Владелец неизменен.
// Первая установка метки отгрузки порождает событие order.shipped.
func (s *Service) UpdateOrder(order domain.Order) error {
	const op = "update order"
	defer s.observe("update_order", time.Now())

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return wrap(op, errors.Join(errs...))
	}

	previous, err := s.orders.Get(order.ID)
	if err != nil {
		return wrap(op, err)
	}
	if err := s.orders.Update(order); err != nil {
		return wrap(op, err)
	}

	if previous.Shipped == nil && order.Shipped != nil {
		s.enqueueEvent("order", strconv.Itoa(order.ID),
			kafka.NewOrderEvent(kafka.EventTypeOrderShipped, order.ID, order.Username, order.ProductIDs))
	}
	return nil
}

// RemoveOrder удаляет заказ. Остатки товаров не восстанавливаются.
func (s *Service) RemoveOrder(id int) error {
	const op = "remove order"
	defer s.observe("remove_order", time.Now())

	owner := ""
	if order, err := s.orders.Get(id); err == nil {
		owner = order.Username
	}

	if err := s.orders.Remove(id); err != nil {
		return wrap(op, err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderRemoved()
	}
	s.enqueueEvent("order", strconv.Itoa(id),
		kafka.NewOrderEvent(kafka.EventTypeOrderRemoved, id, owner, nil))

	return nil
}

// enqueueEvent кладёт типизированное событие в outbox best effort: отказ
// логируется и не ломает основную операцию. Payload — сериализованный
// kafka.OrderEvent или kafka.CustomerEvent, его и ждут потребители topic.
func (s *Service) enqueueEvent(aggregateType, aggregateID string, event kafka.TypedEvent) {
	if s.outbox == nil {
		return
	}

	eventType := string(event.Type())
	encoded, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("failed to marshal outbox payload")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       encoded,
	}); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("failed to enqueue outbox event")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}

func (s *Service) observe(operation string, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOperationDuration(operation, time.Since(started))
}
