package memory

import (
	"sort"
	"sync"

	"github.com/groupone/webshop/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu      sync.RWMutex
	items   map[int]domain.Product
	highest int
}

// NewProductRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewProductRepository() *productRepositoryInMemory {
	return &productRepositoryInMemory{
		items: make(map[int]domain.Product),
	}
}

// Add сохраняет новый товар, если id ещё не занят.
func (r *productRepositoryInMemory) Add(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return domain.ErrDuplicate
	}
	r.items[product.ID] = product
	if product.ID > r.highest {
		r.highest = product.ID
	}
	return nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepositoryInMemory) Get(id int) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// List возвращает все товары по возрастанию id или ErrNoProducts.
func (r *productRepositoryInMemory) List() ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.items) == 0 {
		return nil, domain.ErrNoProducts
	}

	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

// Update целиком заменяет атрибуты существующего товара.
func (r *productRepositoryInMemory) Update(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.items[product.ID] = product
	return nil
}

// Remove удаляет товар по id.
func (r *productRepositoryInMemory) Remove(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

// HighestID возвращает наибольший когда-либо занятый идентификатор,
// 0 для пустого каталога. Удаление товара идентификатор не освобождает.
func (r *productRepositoryInMemory) HighestID() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.highest, nil
}

// AdjustQuantity применяет delta к остатку каждого товара под одной блокировкой:
// либо все изменения применяются, либо ни одно.
func (r *productRepositoryInMemory) AdjustQuantity(ids []int, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.adjustQuantityLocked(ids, delta)
}

// adjustQuantityLocked проверяет применимость всех изменений до записи.
// Вызывающий обязан держать r.mu.
func (r *productRepositoryInMemory) adjustQuantityLocked(ids []int, delta int) error {
	// Суммируем delta по id: один товар может встречаться несколько раз.
	totals := make(map[int]int, len(ids))
	for _, id := range ids {
		if _, ok := r.items[id]; !ok {
			return domain.ErrProductNotFound
		}
		totals[id] += delta
	}

	for id, total := range totals {
		if r.items[id].Quantity+total < 0 {
			return domain.ErrInsufficientStock
		}
	}

	for id, total := range totals {
		product := r.items[id]
		product.Quantity += total
		r.items[id] = product
	}

	return nil
}

// Reset удаляет все товары (используется admin-сбросом и тестами).
func (r *productRepositoryInMemory) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[int]domain.Product)
	r.highest = 0
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
