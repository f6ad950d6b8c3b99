package domain

import "time"

// Order агрегирует заголовок заказа и его позиции.
// Владелец заказа фиксируется при создании и не меняется.
type Order struct {
	ID       int
	Username string
	Created  time.Time
	// Shipped заполняется после отгрузки; nil, пока заказ не отгружен.
	Shipped *time.Time
	// ProductIDs — упорядоченный список идентификаторов товаров,
	// одна запись на каждую заказанную единицу.
	ProductIDs []int
}

// NewOrder создаёт заказ с текущим моментом создания.
func NewOrder(id int, username string, productIDs []int) Order {
	items := make([]int, len(productIDs))
	copy(items, productIDs)

	return Order{
		ID:         id,
		Username:   username,
		Created:    time.Now().UTC(),
		ProductIDs: items,
	}
}

// ValidateInvariants проверяет базовые инварианты заказа.
func (o Order) ValidateInvariants() []error {
	var errs []error

	if o.ID <= 0 {
		errs = append(errs, ErrOrderIDInvalid)
	}
	if o.Username == "" {
		errs = append(errs, ErrUsernameRequired)
	}
	if len(o.ProductIDs) == 0 {
		errs = append(errs, ErrOrderItemsRequired)
	}
	for _, id := range o.ProductIDs {
		if id <= 0 {
			errs = append(errs, ErrProductIDInvalid)
			break
		}
	}

	return errs
}
