package cancel_booking

import (
	"context"

	"github.com/m04kA/TLP-LaunchService/internal/service/slots/models"
)

type SlotService interface {
	Cancel(ctx context.Context, productID int64) (*models.CancelResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
