package domain_test

import (
	"testing"

	"github.com/groupone/webshop/internal/domain"
)

// helper для создания базового заказа с двумя позициями.
func makeOrder() domain.Order {
	return domain.NewOrder(1, "alice", []int{10, 10})
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "zero id",
			mut: func(o *domain.Order) {
				o.ID = 0
			},
		},
		{
			name: "no username",
			mut: func(o *domain.Order) {
				o.Username = ""
			},
		},
		{
			name: "no items",
			mut: func(o *domain.Order) {
				o.ProductIDs = nil
			},
		},
		{
			name: "invalid product id",
			mut: func(o *domain.Order) {
				o.ProductIDs = []int{-5}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)
			if errs := order.ValidateInvariants(); len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}
		})
	}
}

func TestNewOrderCopiesProductIDs(t *testing.T) {
	cart := []int{5, 6}
	order := domain.NewOrder(2, "bob", cart)

	cart[0] = 99
	if order.ProductIDs[0] != 5 {
		t.Fatalf("expected order items to be detached from the source slice, got %v", order.ProductIDs)
	}
}

func TestCustomerAddToCart(t *testing.T) {
	customer := domain.Customer{Username: "alice"}
	customer.AddToCart(7)
	customer.AddToCart(7)
	customer.AddToCart(8)

	if len(customer.Cart) != 3 {
		t.Fatalf("expected 3 cart entries, got %d", len(customer.Cart))
	}

	customer.ClearCart()
	if len(customer.Cart) != 0 {
		t.Fatalf("expected empty cart, got %v", customer.Cart)
	}
}

func TestProductValidateInvariants(t *testing.T) {
	product := domain.NewProduct(1, domain.ProductParams{Title: "keyboard", PriceMinor: 4900, Quantity: 10})
	if errs := product.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}

	bad := domain.NewProduct(0, domain.ProductParams{PriceMinor: -1, Quantity: -1})
	if errs := bad.ValidateInvariants(); len(errs) != 4 {
		t.Fatalf("expected 4 validation errors, got %v", errs)
	}
}
