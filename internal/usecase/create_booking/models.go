package create_booking

import (
	"time"

	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// Request модель запроса на бронирование слота запуска
type Request struct {
	ProductID int64            // ID продукта в каталоге
	UserID    int64            // ID пользователя (владелец продукта)
	Date      types.DateString // Желаемая дата запуска (опционально; пустая - автоподбор)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ProductID   int64            // ID продукта
	UserID      int64            // ID владельца
	Date        types.DateString // Назначенная дата запуска
	Position    int              // Позиция в списке дня (порядок отображения)
	ProductName string           // Название продукта (денормализовано)
	IsPremium   bool             // Премиальный тариф
	BookedAt    time.Time        // Время создания бронирования
}
