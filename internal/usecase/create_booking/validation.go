package create_booking

import (
	"fmt"

	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ProductID <= 0 {
		return fmt.Errorf("%w: productID must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	// Дата опциональна, но если указана - формат должен быть корректным
	if !req.Date.IsZero() {
		if err := req.Date.Validate(); err != nil {
			return fmt.Errorf("%w: invalid date format: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// validateDate проверяет, что явно запрошенная дата попадает в окно бронирования
func validateDate(date, firstDay, horizonEnd types.DateString) error {
	if date.IsBefore(firstDay) {
		return ErrInvalidDate
	}

	if date.IsAfter(horizonEnd) {
		return fmt.Errorf("%w: last bookable date is %s", ErrDateTooFarInFuture, horizonEnd)
	}

	return nil
}
