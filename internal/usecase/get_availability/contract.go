package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/TLP-LaunchService/internal/domain"
	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов запуска
type SlotRepository interface {
	GetRange(ctx context.Context, from, to types.DateString) ([]*domain.LaunchSlot, error)
	FindBookingByProduct(ctx context.Context, productID int64) (*domain.SlotBooking, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
