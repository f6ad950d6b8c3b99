package shop

import "fmt"

// Error описывает ошибку сервисного слоя с именем операции.
// Исходная ошибка доступна через errors.Is/errors.As.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("shop: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrap заворачивает err в *Error; nil проходит насквозь.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
