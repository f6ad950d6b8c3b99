package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/groupone/webshop/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Add(product domain.Product) error {
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
		INSERT INTO product (
			id_product, title, category, manufacturer, description, image_url, price_minor, quantity
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		product.ID, product.Title, product.Category, product.Manufacturer,
		product.Description, product.ImageURL, product.PriceMinor, product.Quantity,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}

	if err = bumpHighwaterTx(ctx, tx, entityProduct, product.ID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *productRepository) Get(id int) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id_product, title, category, manufacturer, description, image_url, price_minor, quantity
		FROM product
		WHERE id_product = $1
	`, id).Scan(
		&product.ID, &product.Title, &product.Category, &product.Manufacturer,
		&product.Description, &product.ImageURL, &product.PriceMinor, &product.Quantity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}

	return product, nil
}

func (r *productRepository) List() ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id_product, title, category, manufacturer, description, image_url, price_minor, quantity
		FROM product
		ORDER BY id_product ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Title, &product.Category, &product.Manufacturer,
			&product.Description, &product.ImageURL, &product.PriceMinor, &product.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if len(products) == 0 {
		return nil, domain.ErrNoProducts
	}

	return products, nil
}

func (r *productRepository) Update(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE product
		SET title = $1,
		    category = $2,
		    manufacturer = $3,
		    description = $4,
		    image_url = $5,
		    price_minor = $6,
		    quantity = $7
		WHERE id_product = $8
	`,
		product.Title, product.Category, product.Manufacturer, product.Description,
		product.ImageURL, product.PriceMinor, product.Quantity, product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Remove(id int) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM product WHERE id_product = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// HighestID возвращает наибольший когда-либо выданный идентификатор товара.
func (r *productRepository) HighestID() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return highestAllocatedID(ctx, r.db, entityProduct, "id_product", "product")
}

func (r *productRepository) AdjustQuantity(ids []int, delta int) error {
	if len(ids) == 0 {
		return nil
	}

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

	if err = adjustQuantityTx(ctx, tx, ids, delta); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit adjust quantity: %w", err)
	}

	return nil
}

// adjustQuantityTx применяет delta к остатку каждого товара одним условным
// UPDATE на id: БД сама отклоняет уход остатка в минус, без чтения перед
// записью. Нулевое число затронутых строк означает либо отсутствие товара,
// либо нехватку остатка.
func adjustQuantityTx(ctx context.Context, tx *sql.Tx, ids []int, delta int) error {
	for _, id := range ids {
		res, err := tx.ExecContext(ctx, `
			UPDATE product
			SET quantity = quantity + $1
			WHERE id_product = $2
			  AND quantity + $1 >= 0
		`, delta, id)
		if err != nil {
			return fmt.Errorf("adjust product quantity: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			exists, err := productExistsTx(ctx, tx, id)
			if err != nil {
				return err
			}
			if !exists {
				return domain.ErrProductNotFound
			}
			return domain.ErrInsufficientStock
		}
	}

	return nil
}

func productExistsTx(ctx context.Context, tx *sql.Tx, id int) (bool, error) {
	var got int
	err := tx.QueryRowContext(ctx, `SELECT id_product FROM product WHERE id_product = $1`, id).Scan(&got)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check product exists: %w", err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.ProductRepository = (*productRepository)(nil)
