package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Сущности, для которых ведётся high-water mark идентификаторов.
// Удаление строки идентификатор не освобождает: HighestID монотонно растёт.
const (
	entityProduct = "product"
	entityOrder   = "order"
)

// bumpHighwaterTx поднимает наибольший выданный идентификатор сущности.
// Выполняется в той же транзакции, что и вставка строки.
func bumpHighwaterTx(ctx context.Context, tx *sql.Tx, entity string, id int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO id_highwater (entity, highest) VALUES ($1, $2)
		ON CONFLICT (entity) DO UPDATE
		SET highest = GREATEST(id_highwater.highest, EXCLUDED.highest)
	`, entity, id)
	if err != nil {
		return fmt.Errorf("bump %s id highwater: %w", entity, err)
	}
	return nil
}

// highestAllocatedID возвращает наибольший когда-либо выданный идентификатор
// сущности. Берётся максимум из high-water mark и живых строк: таблица строк
// страхует от данных, загруженных мимо репозитория.
func highestAllocatedID(ctx context.Context, db *sql.DB, entity, idColumn, table string) (int, error) {
	var highest int
	query := fmt.Sprintf(`
		SELECT GREATEST(
			COALESCE((SELECT highest FROM id_highwater WHERE entity = $1), 0),
			COALESCE((SELECT MAX(%s) FROM %s), 0)
		)
	`, idColumn, table)

	if err := db.QueryRowContext(ctx, query, entity).Scan(&highest); err != nil {
		return 0, fmt.Errorf("select %s id highwater: %w", entity, err)
	}
	return highest, nil
}
