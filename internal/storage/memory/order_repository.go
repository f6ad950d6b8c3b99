package memory

import (
	"sort"
	"sync"

	"github.com/groupone/webshop/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository.
// Списание остатков делегируется репозиторию товаров, как и в SQL-реализации.
type orderRepositoryInMemory struct {
	mu       sync.RWMutex
	items    map[int]domain.Order
	highest  int
	products *productRepositoryInMemory
}

// NewOrderRepository возвращает in-memory репозиторий заказов поверх каталога товаров.
func NewOrderRepository(products *productRepositoryInMemory) *orderRepositoryInMemory {
	return &orderRepositoryInMemory{
		items:    make(map[int]domain.Order),
		products: products,
	}
}

// Add сохраняет заказ и списывает по единице остатка на каждую позицию.
// Либо применяется всё, либо ничего.
func (r *orderRepositoryInMemory) Add(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrDuplicate
	}

	if err := r.products.AdjustQuantity(order.ProductIDs, -1); err != nil {
		return err
	}

	r.items[order.ID] = cloneOrder(order)
	if order.ID > r.highest {
		r.highest = order.ID
	}
	return nil
}

// Get возвращает заказ или ErrOrderNotFound; заказ без позиций считается несуществующим.
func (r *orderRepositoryInMemory) Get(id int) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok || len(order.ProductIDs) == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// ListByCustomer возвращает заказы покупателя по возрастанию id или ErrNoOrders.
func (r *orderRepositoryInMemory) ListByCustomer(username string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, order := range r.items {
		if order.Username != username || len(order.ProductIDs) == 0 {
			continue
		}
		result = append(result, cloneOrder(order))
	}
	if len(result) == 0 {
		return nil, domain.ErrNoOrders
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

// Update заменяет метки времени и позиции заказа. Остатки не пересчитываются.
func (r *orderRepositoryInMemory) Update(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}

	// Владелец заказа зафиксирован при создании.
	order.Username = current.Username
	r.items[order.ID] = cloneOrder(order)
	return nil
}

// Remove удаляет заказ. Остатки товаров не восстанавливаются.
func (r *orderRepositoryInMemory) Remove(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.items, id)
	return nil
}

// HighestID возвращает наибольший когда-либо занятый идентификатор,
// 0 если заказов не было. Удаление заказа идентификатор не освобождает.
func (r *orderRepositoryInMemory) HighestID() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.highest, nil
}

// Reset удаляет все заказы (используется admin-сбросом и тестами).
func (r *orderRepositoryInMemory) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[int]domain.Order)
	r.highest = 0
}

func cloneOrder(order domain.Order) domain.Order {
	items := make([]int, len(order.ProductIDs))
	copy(items, order.ProductIDs)
	order.ProductIDs = items

	if order.Shipped != nil {
		shipped := *order.Shipped
		order.Shipped = &shipped
	}
	return order
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
