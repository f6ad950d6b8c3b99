package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/groupone/webshop/internal/domain"
)

type orderPlacer struct {
	db *sql.DB
}

// NewOrderPlacer создаёт PostgreSQL-реализацию OrderPlacer: заголовок
// заказа, позиции, списание остатков и очистка корзины фиксируются одной
// транзакцией, либо не фиксируются вовсе.
func NewOrderPlacer(store *Store) domain.OrderPlacer {
	return &orderPlacer{db: store.DB()}
}

func (p *orderPlacer) Place(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	exists, err := customerExistsTx(ctx, tx, order.Username)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrCustomerNotFound
	}

	if err = insertOrderTx(ctx, tx, order); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM customer_cart WHERE username = $1`, order.Username); err != nil {
		return fmt.Errorf("clear customer cart: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit place order: %w", err)
	}

	return nil
}

var _ domain.OrderPlacer = (*orderPlacer)(nil)
