package integration

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/groupone/webshop/internal/domain"
	"github.com/groupone/webshop/internal/service/shop"
	"github.com/groupone/webshop/internal/storage/memory"
)

// OrderLifecycleTestSuite тестирует полный жизненный цикл заказа:
// каталог → регистрация → корзина → оформление → отгрузка → удаление.
type OrderLifecycleTestSuite struct {
	suite.Suite
	service *shop.Service
	outbox  domain.OutboxRepository
}

func (suite *OrderLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	products := memory.NewProductRepository()
	customers := memory.NewCustomerRepository()
	orders := memory.NewOrderRepository(products)
	placer := memory.NewOrderPlacer(orders, customers)
	suite.outbox = memory.NewOutboxRepository()

	suite.service = shop.NewService(products, customers, orders, placer, shop.Options{
		Outbox: suite.outbox,
		Logger: logger,
	})
}

func (suite *OrderLifecycleTestSuite) seedCatalogAndCustomer(quantity int) int {
	product, err := suite.service.AddProduct(domain.ProductParams{
		Title:      "ssd drive",
		Category:   "storage",
		PriceMinor: 12990,
		Quantity:   quantity,
	})
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.service.AddCustomer(domain.Customer{
		Username: "alice",
		Password: "secret",
		Email:    "alice@example.com",
	}))

	return product.ID
}

func (suite *OrderLifecycleTestSuite) TestFullLifecycle() {
	t := suite.T()
	productID := suite.seedCatalogAndCustomer(5)

	require.NoError(t, suite.service.AddProductToCustomer(productID, "alice", 2))

	order, err := suite.service.CreateOrder("alice")
	require.NoError(t, err)
	require.Equal(t, 1, order.ID)
	require.Equal(t, []int{productID, productID}, order.ProductIDs)

	// остаток списан, корзина очищена
	product, err := suite.service.Product(productID)
	require.NoError(t, err)
	require.Equal(t, 3, product.Quantity)

	customer, err := suite.service.Customer("alice")
	require.NoError(t, err)
	require.Empty(t, customer.Cart)

	// отгрузка
	shipped := time.Now().UTC()
	order.Shipped = &shipped
	require.NoError(t, suite.service.UpdateOrder(order))

	got, err := suite.service.Order(order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Shipped)

	// удаление заказа не возвращает остаток
	require.NoError(t, suite.service.RemoveOrder(order.ID))
	_, err = suite.service.Order(order.ID)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	product, err = suite.service.Product(productID)
	require.NoError(t, err)
	require.Equal(t, 3, product.Quantity)
}

func (suite *OrderLifecycleTestSuite) TestInsufficientStockKeepsState() {
	t := suite.T()
	productID := suite.seedCatalogAndCustomer(3)

	require.NoError(t, suite.service.AddProductToCustomer(productID, "alice", 3))

	// снижаем остаток ниже размера корзины
	product, err := suite.service.Product(productID)
	require.NoError(t, err)
	product.Quantity = 1
	require.NoError(t, suite.service.UpdateProduct(product))

	_, err = suite.service.CreateOrder("alice")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	customer, err := suite.service.Customer("alice")
	require.NoError(t, err)
	require.Len(t, customer.Cart, 3)

	product, err = suite.service.Product(productID)
	require.NoError(t, err)
	require.Equal(t, 1, product.Quantity)
}

func (suite *OrderLifecycleTestSuite) TestOutboxCollectsLifecycleEvents() {
	t := suite.T()
	productID := suite.seedCatalogAndCustomer(5)

	require.NoError(t, suite.service.AddProductToCustomer(productID, "alice", 1))
	order, err := suite.service.CreateOrder("alice")
	require.NoError(t, err)
	require.NoError(t, suite.service.RemoveOrder(order.ID))

	pending, err := suite.outbox.PullPending(10)
	require.NoError(t, err)

	var types []string
	for _, msg := range pending {
		types = append(types, msg.EventType)
	}
	require.Contains(t, types, "customer.registered")
	require.Contains(t, types, "order.created")
	require.Contains(t, types, "order.removed")
}

func TestOrderLifecycleSuite(t *testing.T) {
	suite.Run(t, new(OrderLifecycleTestSuite))
}
