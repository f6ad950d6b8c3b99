package postgres

import (
	"errors"
	"testing"

	"github.com/groupone/webshop/internal/domain"
)

func TestCustomerRepositoryIntegration_CRUD(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	products := NewProductRepository(store)
	customers := NewCustomerRepository(store)

	if err := products.Add(integrationProduct(1, 5)); err != nil {
		t.Fatalf("add product: %v", err)
	}

	if err := customers.Add(domain.Customer{Username: "alice", Cart: []int{1, 1}}); err != nil {
		t.Fatalf("add customer: %v", err)
	}
	if err := customers.Add(domain.Customer{Username: "alice"}); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	stored, err := customers.Get("alice")
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if len(stored.Cart) != 2 || stored.Cart[0] != 1 || stored.Cart[1] != 1 {
		t.Fatalf("unexpected cart: %v", stored.Cart)
	}

	// Update целиком пересоздаёт корзину.
	stored.Cart = []int{1}
	if err := customers.Update(stored); err != nil {
		t.Fatalf("update customer: %v", err)
	}
	updated, err := customers.Get("alice")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if len(updated.Cart) != 1 {
		t.Fatalf("expected cart of one item, got %v", updated.Cart)
	}

	if err := customers.Update(domain.Customer{Username: "ghost"}); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}

	if err := customers.Remove("alice"); err != nil {
		t.Fatalf("remove customer: %v", err)
	}
	if _, err := customers.Get("alice"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCustomerRepositoryIntegration_List(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	customers := NewCustomerRepository(store)

	if _, err := customers.List(); !errors.Is(err, domain.ErrNoCustomers) {
		t.Fatalf("expected ErrNoCustomers, got %v", err)
	}

	for _, name := range []string{"bob", "alice"} {
		if err := customers.Add(domain.Customer{Username: name}); err != nil {
			t.Fatalf("add customer %s: %v", name, err)
		}
	}

	list, err := customers.List()
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(list) != 2 || list[0].Username != "alice" || list[1].Username != "bob" {
		t.Fatalf("unexpected customer list: %+v", list)
	}
}
