package domain

import "errors"

var (
	// ErrProductNotFound возвращается, если товар не найден в хранилище.
	ErrProductNotFound = errors.New("product not found")
	// ErrCustomerNotFound возвращается, если покупатель не найден в хранилище.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrOrderNotFound возвращается, если заказ не найден или не содержит ни одной позиции.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNoProducts — в каталоге нет ни одного товара.
	ErrNoProducts = errors.New("no products in catalog")
	// ErrNoCustomers — в базе нет ни одного покупателя.
	ErrNoCustomers = errors.New("no customers registered")
	// ErrNoOrders — у покупателя нет ни одного заказа.
	ErrNoOrders = errors.New("no orders for customer")
	// ErrEmptyCart — попытка оформить заказ с пустой корзиной.
	ErrEmptyCart = errors.New("shopping cart is empty")
	// ErrInsufficientStock — остатка товара не хватает для списания.
	ErrInsufficientStock = errors.New("insufficient product stock")
	// ErrDuplicate — запись с таким ключом уже существует (unique violation).
	ErrDuplicate = errors.New("record already exists")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")

	// Ошибки валидации входных данных.
	ErrProductIDInvalid   = errors.New("product id must be positive")
	ErrProductTitleEmpty  = errors.New("product title is required")
	ErrPriceNegative      = errors.New("price_minor must be non-negative")
	ErrQuantityNegative   = errors.New("quantity must be non-negative")
	ErrUsernameRequired   = errors.New("username is required")
	ErrOrderIDInvalid     = errors.New("order id must be positive")
	ErrOrderItemsRequired = errors.New("order must contain at least one item")
)

// IsNotFound проверяет, относится ли ошибка к семейству "не найдено".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrNoProducts) ||
		errors.Is(err, ErrNoCustomers) ||
		errors.Is(err, ErrNoOrders)
}
