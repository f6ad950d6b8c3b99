package memory

import (
	"fmt"

	"github.com/groupone/webshop/internal/domain"
)

// orderPlacerInMemory размещает заказ и очищает корзину покупателя.
// Аналог SQL-реализации, где оба шага выполняются в одной транзакции.
type orderPlacerInMemory struct {
	orders    *orderRepositoryInMemory
	customers *customerRepositoryInMemory
}

// NewOrderPlacer возвращает in-memory реализацию OrderPlacer.
func NewOrderPlacer(orders *orderRepositoryInMemory, customers *customerRepositoryInMemory) *orderPlacerInMemory {
	return &orderPlacerInMemory{
		orders:    orders,
		customers: customers,
	}
}

// Place сохраняет заказ со списанием остатков и опустошает корзину владельца.
// При ошибке очистки корзины заказ и остатки возвращаются в исходное состояние.
func (p *orderPlacerInMemory) Place(order domain.Order) error {
	customer, err := p.customers.Get(order.Username)
	if err != nil {
		return err
	}

	if err := p.orders.Add(order); err != nil {
		return err
	}

	customer.ClearCart()
	if err := p.customers.Update(customer); err != nil {
		// Компенсация: убираем заказ и возвращаем списанные остатки.
		_ = p.orders.Remove(order.ID)
		_ = p.orders.products.AdjustQuantity(order.ProductIDs, 1)
		return fmt.Errorf("clear cart for %s: %w", order.Username, err)
	}

	return nil
}

var _ domain.OrderPlacer = (*orderPlacerInMemory)(nil)
