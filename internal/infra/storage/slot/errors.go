package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот на указанную дату не найден
	ErrSlotNotFound = errors.New("slot.repository: launch slot not found")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("slot.repository: booking not found")

	// ErrSlotFull возвращается, когда все места на дату заняты
	ErrSlotFull = errors.New("slot.repository: slot is full")

	// ErrQuotaExceeded возвращается, когда non-premium суб-квота на дату исчерпана
	ErrQuotaExceeded = errors.New("slot.repository: non-premium quota exceeded")

	// ErrDuplicateProduct возвращается, когда продукт уже занимает слот (любой даты)
	ErrDuplicateProduct = errors.New("slot.repository: product already booked")

	// ErrNoTransaction возвращается при вызове мутирующего метода вне транзакции
	ErrNoTransaction = errors.New("slot.repository: mutation requires an active transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
