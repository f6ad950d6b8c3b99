package domain

// ProductParams содержит изменяемые атрибуты товара без идентификатора.
// Идентификатор назначается сервисным слоем при создании.
type ProductParams struct {
	Title        string
	Category     string
	Manufacturer string
	Description  string
	ImageURL     string
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	Quantity   int
}

// Product описывает товар каталога.
type Product struct {
	ID           int
	Title        string
	Category     string
	Manufacturer string
	Description  string
	ImageURL     string
	PriceMinor   int64
	// Quantity — доступный остаток; после успешной транзакции никогда не отрицателен.
	Quantity int
}

// NewProduct собирает товар из параметров и назначенного идентификатора.
func NewProduct(id int, params ProductParams) Product {
	return Product{
		ID:           id,
		Title:        params.Title,
		Category:     params.Category,
		Manufacturer: params.Manufacturer,
		Description:  params.Description,
		ImageURL:     params.ImageURL,
		PriceMinor:   params.PriceMinor,
		Quantity:     params.Quantity,
	}
}

// ValidateInvariants проверяет базовые инварианты товара и возвращает список замечаний.
func (p Product) ValidateInvariants() []error {
	var errs []error

	if p.ID <= 0 {
		errs = append(errs, ErrProductIDInvalid)
	}
	if p.Title == "" {
		errs = append(errs, ErrProductTitleEmpty)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if p.Quantity < 0 {
		errs = append(errs, ErrQuantityNegative)
	}

	return errs
}
