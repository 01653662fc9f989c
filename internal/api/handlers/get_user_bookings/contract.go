package get_user_bookings

import (
	"context"

	"github.com/m04kA/TLP-LaunchService/internal/service/slots/models"
)

type SlotService interface {
	GetUserBookings(ctx context.Context, userID int64) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
