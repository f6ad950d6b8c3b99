package memory

import (
	"sort"
	"sync"

	"github.com/groupone/webshop/internal/domain"
)

// customerRepositoryInMemory — простая in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Customer
}

// NewCustomerRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewCustomerRepository() *customerRepositoryInMemory {
	return &customerRepositoryInMemory{
		items: make(map[string]domain.Customer),
	}
}

// Add сохраняет нового покупателя, если username ещё не занят.
func (r *customerRepositoryInMemory) Add(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[customer.Username]; exists {
		return domain.ErrDuplicate
	}
	r.items[customer.Username] = cloneCustomer(customer)
	return nil
}

// Get возвращает покупателя вместе с корзиной или ErrCustomerNotFound.
func (r *customerRepositoryInMemory) Get(username string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[username]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return cloneCustomer(customer), nil
}

// List возвращает всех покупателей по возрастанию username или ErrNoCustomers.
func (r *customerRepositoryInMemory) List() ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.items) == 0 {
		return nil, domain.ErrNoCustomers
	}

	result := make([]domain.Customer, 0, len(r.items))
	for _, customer := range r.items {
		result = append(result, cloneCustomer(customer))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })

	return result, nil
}

// Update заменяет атрибуты покупателя вместе с корзиной.
func (r *customerRepositoryInMemory) Update(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[customer.Username]; !ok {
		return domain.ErrCustomerNotFound
	}
	r.items[customer.Username] = cloneCustomer(customer)
	return nil
}

// Remove удаляет покупателя вместе с его корзиной.
func (r *customerRepositoryInMemory) Remove(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[username]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.items, username)
	return nil
}

// cloneCustomer копирует покупателя вместе с корзиной,
// чтобы избежать непредсказуемых мутаций извне.
func cloneCustomer(customer domain.Customer) domain.Customer {
	if customer.Cart == nil {
		return customer
	}
	cart := make([]int, len(customer.Cart))
	copy(cart, customer.Cart)
	customer.Cart = cart
	return customer
}

// Reset удаляет всех покупателей (используется admin-сбросом и тестами).
func (r *customerRepositoryInMemory) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[string]domain.Customer)
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
