package create_booking

import (
	"time"

	createBooking "github.com/m04kA/TLP-LaunchService/internal/usecase/create_booking"
	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ProductID int64   `json:"productId"`
	Date      *string `json:"date,omitempty"` // "2025-10-15"; nil - автоподбор даты
}

// BookingResponse HTTP response model
type BookingResponse struct {
	Success     bool   `json:"success"`
	ProductID   int64  `json:"productId"`
	Date        string `json:"date"`
	Position    int    `json:"position"`
	ProductName string `json:"productName"`
	IsPremium   bool   `json:"isPremium"`
	BookedAt    string `json:"bookedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	req := &createBooking.Request{
		ProductID: r.ProductID,
		UserID:    userID,
	}

	if r.Date != nil && *r.Date != "" {
		date, err := types.NewDateStringFromString(*r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = date
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		Success:     true,
		ProductID:   resp.ProductID,
		Date:        resp.Date.String(),
		Position:    resp.Position,
		ProductName: resp.ProductName,
		IsPremium:   resp.IsPremium,
		BookedAt:    resp.BookedAt.Format(time.RFC3339),
	}
}
