package slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("slots.service: invalid input data")

	// ErrConflict возвращается, когда транзакция не зафиксировалась из-за конкуренции
	ErrConflict = errors.New("slots.service: write conflict, try again")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots.service: internal error")
)
