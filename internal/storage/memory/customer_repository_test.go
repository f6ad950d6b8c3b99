package memory_test

import (
	"errors"
	"testing"

	"github.com/groupone/webshop/internal/domain"
	"github.com/groupone/webshop/internal/storage/memory"
)

func TestCustomerRepository_AddGet(t *testing.T) {
	repo := memory.NewCustomerRepository()

	if err := repo.Add(newCustomer("alice", 1, 1, 2)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	stored, err := repo.Get("alice")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(stored.Cart) != 3 {
		t.Fatalf("expected 3 cart entries, got %v", stored.Cart)
	}

	if err := repo.Add(newCustomer("alice")); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCustomerRepository_GetIsDetached(t *testing.T) {
	repo := memory.NewCustomerRepository()
	if err := repo.Add(newCustomer("alice", 1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	first, _ := repo.Get("alice")
	first.Cart[0] = 99

	second, _ := repo.Get("alice")
	if second.Cart[0] != 1 {
		t.Fatalf("expected stored cart to be unaffected, got %v", second.Cart)
	}
}

func TestCustomerRepository_UpdateReplacesCart(t *testing.T) {
	repo := memory.NewCustomerRepository()
	if err := repo.Add(newCustomer("alice", 1, 2)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	updated := newCustomer("alice", 7)
	updated.Email = "new@example.com"
	if err := repo.Update(updated); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stored, _ := repo.Get("alice")
	if stored.Email != "new@example.com" {
		t.Fatalf("expected updated email, got %s", stored.Email)
	}
	if len(stored.Cart) != 1 || stored.Cart[0] != 7 {
		t.Fatalf("expected cart [7], got %v", stored.Cart)
	}

	if err := repo.Update(newCustomer("ghost")); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCustomerRepository_ListAndRemove(t *testing.T) {
	repo := memory.NewCustomerRepository()

	if _, err := repo.List(); !errors.Is(err, domain.ErrNoCustomers) {
		t.Fatalf("expected ErrNoCustomers, got %v", err)
	}

	if err := repo.Add(newCustomer("bob")); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := repo.Add(newCustomer("alice")); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 || list[0].Username != "alice" {
		t.Fatalf("expected sorted list starting with alice, got %+v", list)
	}

	if err := repo.Remove("bob"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := repo.Get("bob"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound after remove, got %v", err)
	}
}
