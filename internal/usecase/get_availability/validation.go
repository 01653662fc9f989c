package get_availability

import (
	"fmt"

	"github.com/m04kA/TLP-LaunchService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ProductID < 0 {
		return fmt.Errorf("%w: productID must not be negative", ErrInvalidInput)
	}

	if req.Days < 0 || req.Days > domain.MaxWindowDays {
		return fmt.Errorf("%w: days must be in [0, %d]", ErrInvalidInput, domain.MaxWindowDays)
	}

	return nil
}
