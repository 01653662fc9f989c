package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/TLP-LaunchService/internal/domain"
	"github.com/m04kA/TLP-LaunchService/internal/integrations/productservice"
	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов запуска
type SlotRepository interface {
	FindBookingByProduct(ctx context.Context, productID int64) (*domain.SlotBooking, error)
	GetRange(ctx context.Context, from, to types.DateString) ([]*domain.LaunchSlot, error)
	InsertBooking(ctx context.Context, date types.DateString, policy domain.SlotPolicy, booking *domain.SlotBooking) (*domain.SlotBooking, error)
}

// ProductServiceClient интерфейс клиента для ProductService
type ProductServiceClient interface {
	GetProduct(ctx context.Context, productID int64) (*productservice.Product, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
