package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/groupone/webshop/internal/domain"
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

func (r *customerRepository) Add(customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO customer (
			username, password, email, first_name, last_name, address, phone
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		customer.Username, customer.Password, customer.Email,
		customer.FirstName, customer.LastName, customer.Address, customer.Phone,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	if err = insertCartTx(ctx, tx, customer.Username, customer.Cart); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit add customer: %w", err)
	}

	return nil
}

func (r *customerRepository) Get(username string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var customer domain.Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT username, password, email, first_name, last_name, address, phone
		FROM customer
		WHERE username = $1
	`, username).Scan(
		&customer.Username, &customer.Password, &customer.Email,
		&customer.FirstName, &customer.LastName, &customer.Address, &customer.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}

	cart, err := r.loadCart(ctx, customer.Username)
	if err != nil {
		return domain.Customer{}, err
	}
	customer.Cart = cart

	return customer, nil
}

func (r *customerRepository) List() ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT username, password, email, first_name, last_name, address, phone
		FROM customer
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.Username, &customer.Password, &customer.Email,
			&customer.FirstName, &customer.LastName, &customer.Address, &customer.Phone,
		); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}

	if len(customers) == 0 {
		return nil, domain.ErrNoCustomers
	}

	for i := range customers {
		cart, err := r.loadCart(ctx, customers[i].Username)
		if err != nil {
			return nil, err
		}
		customers[i].Cart = cart
	}

	return customers, nil
}

// Update пересоздаёт корзину покупателя: старые строки удаляются и
// вставляются заново в одной транзакции.
func (r *customerRepository) Update(customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE customer
		SET password = $1,
		    email = $2,
		    first_name = $3,
		    last_name = $4,
		    address = $5,
		    phone = $6
		WHERE username = $7
	`,
		customer.Password, customer.Email, customer.FirstName,
		customer.LastName, customer.Address, customer.Phone, customer.Username,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCustomerNotFound
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM customer_cart WHERE username = $1`, customer.Username); err != nil {
		return fmt.Errorf("clear customer cart: %w", err)
	}

	if err = insertCartTx(ctx, tx, customer.Username, customer.Cart); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update customer: %w", err)
	}

	return nil
}

func (r *customerRepository) Remove(username string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM customer WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

func (r *customerRepository) loadCart(ctx context.Context, username string) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id_product
		FROM customer_cart
		WHERE username = $1
		ORDER BY id ASC
	`, username)
	if err != nil {
		return nil, fmt.Errorf("load customer cart: %w", err)
	}
	defer rows.Close()

	cart := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		cart = append(cart, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart rows: %w", err)
	}

	return cart, nil
}

func insertCartTx(ctx context.Context, tx *sql.Tx, username string, cart []int) error {
	for _, id := range cart {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO customer_cart (username, id_product) VALUES ($1, $2)
		`, username, id); err != nil {
			return fmt.Errorf("insert cart row: %w", err)
		}
	}
	return nil
}

func customerExistsTx(ctx context.Context, tx *sql.Tx, username string) (bool, error) {
	var got string
	err := tx.QueryRowContext(ctx,
		`SELECT username FROM customer WHERE username = $1`, username).Scan(&got)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check customer exists: %w", err)
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
