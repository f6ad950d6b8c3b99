package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/groupone/webshop/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Add вставляет заголовок заказа и его позиции и списывает по единице
// остатка на каждую позицию, всё в одной транзакции.
func (r *orderRepository) Add(order domain.Order) error {
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

	if err = insertOrderTx(ctx, tx, order); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit add order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id int) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var order domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id_order, username, created_at, shipped_at
		FROM orders
		WHERE id_order = $1
	`, id).Scan(&order.ID, &order.Username, &order.Created, &order.Shipped)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	// Заказ без позиций неотличим от отсутствующего.
	if len(items) == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	order.ProductIDs = items

	return order, nil
}

func (r *orderRepository) ListByCustomer(username string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id_order, username, created_at, shipped_at
		FROM orders
		WHERE username = $1
		ORDER BY id_order ASC
	`, username)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.Username, &order.Created, &order.Shipped); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	kept := orders[:0]
	for _, order := range orders {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			continue
		}
		order.ProductIDs = items
		kept = append(kept, order)
	}

	if len(kept) == 0 {
		return nil, domain.ErrNoOrders
	}

	return kept, nil
}

// Update заменяет метки времени заказа и пересоздаёт позиции. Владелец
// заказа не меняется.
func (r *orderRepository) Update(order domain.Order) error {
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
		UPDATE orders
		SET created_at = $1,
		    shipped_at = $2
		WHERE id_order = $3
	`, order.Created, order.Shipped, order.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM product_order WHERE id_order = $1`, order.ID); err != nil {
		return fmt.Errorf("clear order items: %w", err)
	}
	if err = insertOrderItemsTx(ctx, tx, order.ID, order.ProductIDs); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update order: %w", err)
	}

	return nil
}

// Remove удаляет позиции заказа, затем заголовок. Остатки товаров при этом
// не восстанавливаются.
func (r *orderRepository) Remove(id int) error {
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

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM product_order WHERE id_order = $1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id_order = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit remove order: %w", err)
	}

	return nil
}

// HighestID возвращает наибольший когда-либо выданный идентификатор заказа.
func (r *orderRepository) HighestID() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return highestAllocatedID(ctx, r.db, entityOrder, "id_order", "orders")
}

func (r *orderRepository) loadItems(ctx context.Context, orderID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id_product
		FROM product_order
		WHERE id_order = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

// insertOrderTx вставляет заголовок и позиции заказа и списывает остатки.
// Используется и репозиторием заказов, и размещением заказа из корзины.
func insertOrderTx(ctx context.Context, tx *sql.Tx, order domain.Order) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id_order, username, created_at, shipped_at)
		VALUES ($1,$2,$3,$4)
	`, order.ID, order.Username, order.Created, order.Shipped)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}

	if err := bumpHighwaterTx(ctx, tx, entityOrder, order.ID); err != nil {
		return err
	}

	if err := insertOrderItemsTx(ctx, tx, order.ID, order.ProductIDs); err != nil {
		return err
	}

	return adjustQuantityTx(ctx, tx, order.ProductIDs, -1)
}

func insertOrderItemsTx(ctx context.Context, tx *sql.Tx, orderID int, productIDs []int) error {
	for _, productID := range productIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_order (id_order, id_product) VALUES ($1, $2)
		`, orderID, productID); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
