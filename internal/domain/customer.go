package domain

// Customer описывает покупателя вместе с его корзиной.
// Username — неизменяемый первичный ключ.
type Customer struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Address   string
	Phone     string
	// Cart — упорядоченный мультисет идентификаторов товаров:
	// одна запись на каждую желаемую единицу, дубликаты допустимы.
	// При обновлении покупателя корзина заменяется целиком.
	Cart []int
}

// AddToCart добавляет одну единицу товара в конец корзины.
func (c *Customer) AddToCart(productID int) {
	c.Cart = append(c.Cart, productID)
}

// ClearCart опустошает корзину.
func (c *Customer) ClearCart() {
	c.Cart = nil
}

// ValidateInvariants проверяет базовые инварианты покупателя.
func (c Customer) ValidateInvariants() []error {
	var errs []error

	if c.Username == "" {
		errs = append(errs, ErrUsernameRequired)
	}
	for _, id := range c.Cart {
		if id <= 0 {
			errs = append(errs, ErrProductIDInvalid)
			break
		}
	}

	return errs
}
