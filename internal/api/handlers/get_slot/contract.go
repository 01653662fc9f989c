package get_slot

import (
	"context"

	"github.com/m04kA/TLP-LaunchService/internal/service/slots/models"
	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

type SlotService interface {
	GetSlot(ctx context.Context, date types.DateString) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
