package get_availability

import "github.com/m04kA/TLP-LaunchService/pkg/types"

// Request модель запроса доступности слотов
type Request struct {
	// ProductID ID продукта для поиска его текущего бронирования (0 - не указан)
	ProductID int64
	// Days размер окна в днях (0 - окно по умолчанию из политики)
	Days int
}

// Response модель ответа с доступностью по датам
type Response struct {
	From types.DateString // Первый день окна
	To   types.DateString // Последний день окна

	// Availability остаток non-premium мест по каждой дате окна
	// Дата без слота в store отдаёт полную квоту
	Availability map[types.DateString]int

	// PremiumOpen даты окна, открытые для premium-бронирования
	// (есть свободное место независимо от non-premium квоты)
	PremiumOpen map[types.DateString]bool

	// CurrentProductDate дата существующего бронирования продукта, если есть
	CurrentProductDate *types.DateString
}
