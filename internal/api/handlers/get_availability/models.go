package get_availability

import (
	getAvailability "github.com/m04kA/TLP-LaunchService/internal/usecase/get_availability"
	"github.com/m04kA/TLP-LaunchService/pkg/ptr"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	From string `json:"from"`
	To   string `json:"to"`

	// Availability остаток non-premium мест по датам окна
	Availability map[string]int `json:"availability"`

	// PremiumOpen даты, открытые для premium-бронирования
	PremiumOpen map[string]bool `json:"premiumOpen"`

	// CurrentProductDate дата существующего бронирования продукта (null, если нет)
	CurrentProductDate *string `json:"currentProductDate"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	availability := make(map[string]int, len(resp.Availability))
	for date, remaining := range resp.Availability {
		availability[date.String()] = remaining
	}

	premiumOpen := make(map[string]bool, len(resp.PremiumOpen))
	for date, open := range resp.PremiumOpen {
		premiumOpen[date.String()] = open
	}

	result := &AvailabilityResponse{
		From:         resp.From.String(),
		To:           resp.To.String(),
		Availability: availability,
		PremiumOpen:  premiumOpen,
	}

	if resp.CurrentProductDate != nil {
		result.CurrentProductDate = ptr.Ptr(resp.CurrentProductDate.String())
	}

	return result
}
