package create_booking

import "errors"

var (
	// ErrProductNotFound возвращается, когда продукт не найден в каталоге
	ErrProductNotFound = errors.New("create_booking: product not found")

	// ErrAccessDenied возвращается, когда пользователь не является владельцем продукта
	ErrAccessDenied = errors.New("create_booking: access denied")

	// ErrDuplicateBooking возвращается, когда продукт уже занимает слот запуска
	ErrDuplicateBooking = errors.New("create_booking: product already has a booking")

	// ErrSlotUnavailable возвращается, когда запрошенная дата закрыта
	// (все места заняты или исчерпана non-premium квота)
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrNoAvailability возвращается, когда автоподбор не нашел открытой даты
	// в пределах горизонта
	ErrNoAvailability = errors.New("create_booking: no availability within horizon")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrConflict возвращается, когда транзакция не зафиксировалась из-за
	// конкуренции даже после внутренних повторов
	ErrConflict = errors.New("create_booking: write conflict, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
