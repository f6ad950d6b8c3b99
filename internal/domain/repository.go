package domain

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Add сохраняет новый товар. Возвращает ErrDuplicate, если id уже занят.
	Add(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id int) (Product, error)
	// List возвращает все товары или ErrNoProducts, если каталог пуст.
	List() ([]Product, error)
	// Update целиком заменяет атрибуты товара по id.
	Update(product Product) error
	// Remove физически удаляет товар.
	Remove(id int) error
	// HighestID возвращает наибольший когда-либо выданный идентификатор
	// (0 для пустого каталога). Удаление товара идентификатор не освобождает.
	HighestID() (int, error)
	// AdjustQuantity применяет delta к остатку каждого из товаров, по одному
	// атомарному обновлению на id. Остаток не может стать отрицательным:
	// при нехватке возвращается ErrInsufficientStock.
	AdjustQuantity(ids []int, delta int) error
}

// CustomerRepository описывает требования к хранилищу покупателей.
type CustomerRepository interface {
	// Add сохраняет нового покупателя с его корзиной.
	Add(customer Customer) error
	// Get возвращает покупателя вместе с корзиной или ErrCustomerNotFound.
	Get(username string) (Customer, error)
	// List возвращает всех покупателей или ErrNoCustomers, если их нет.
	List() ([]Customer, error)
	// Update заменяет атрибуты покупателя и целиком пересоздаёт корзину
	// в одной транзакции.
	Update(customer Customer) error
	// Remove физически удаляет покупателя и его корзину.
	Remove(username string) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Add в одной транзакции вставляет заголовок заказа, его позиции и
	// списывает по единице остатка на каждую позицию.
	Add(order Order) error
	// Get возвращает заказ с позициями; заказ без позиций считается
	// несуществующим (ErrOrderNotFound).
	Get(id int) (Order, error)
	// ListByCustomer возвращает заказы покупателя или ErrNoOrders.
	ListByCustomer(username string) ([]Order, error)
	// Update заменяет метки времени и пересоздаёт позиции в одной транзакции.
	Update(order Order) error
	// Remove удаляет позиции, затем заголовок.
	Remove(id int) error
	// HighestID возвращает наибольший когда-либо выданный идентификатор
	// (0, если заказов ещё не было). Удаление заказа идентификатор не освобождает.
	HighestID() (int, error)
}

// OrderPlacer выполняет размещение заказа целиком: заголовок, позиции,
// списание остатков и очистка корзины покупателя — в одной транзакции.
type OrderPlacer interface {
	Place(order Order) error
}
