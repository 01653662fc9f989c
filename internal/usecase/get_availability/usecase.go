package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TLP-LaunchService/internal/domain"
	slotRepo "github.com/m04kA/TLP-LaunchService/internal/infra/storage/slot"
	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// UseCase use case расчёта доступности слотов запуска
//
// Чистое чтение по снимку store: на каждую дату окна отдаёт остаток
// non-premium мест и признак открытости для premium. Побочных эффектов нет
type UseCase struct {
	slotRepo     SlotRepository
	policy       domain.SlotPolicy
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, policy domain.SlotPolicy, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		policy:       policy.Normalize(),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case расчёта доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: product=%d, days=%d", req.ProductID, req.Days)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Вычисляем окно: сегодня (со сдвигом политики) и N дней вперед
	days := req.Days
	if days == 0 {
		days = uc.policy.WindowDays
	}

	today := types.NewDateString(uc.timeProvider.Now())
	from, err := today.AddDays(uc.policy.MinLeadDays)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compute window start: %v", ErrInternal, err)
	}
	to, err := from.AddDays(days - 1)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compute window end: %v", ErrInternal, err)
	}

	// 3. Читаем снимок слотов окна
	slots, err := uc.slotRepo.GetRange(ctx, from, to)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get slots [%s, %s]: %v", from, to, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}

	byDate := make(map[types.DateString]*domain.LaunchSlot, len(slots))
	for _, s := range slots {
		byDate[s.Date] = s
	}

	// 4. Раскладываем доступность по каждой дате окна
	availability := make(map[types.DateString]int, days)
	premiumOpen := make(map[types.DateString]bool, days)

	for d := from; !d.IsAfter(to); {
		slot, exists := byDate[d]
		if !exists {
			// Слот создается лениво: дата без строки полностью открыта
			availability[d] = uc.policy.NonPremiumCap
			premiumOpen[d] = true
		} else {
			remaining := slot.RemainingNonPremium(uc.policy.NonPremiumCap)
			if slot.IsFull() {
				remaining = 0
			}
			availability[d] = remaining
			premiumOpen[d] = !slot.IsFull()
		}

		next, err := d.AddDays(1)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to advance window date: %v", ErrInternal, err)
		}
		d = next
	}

	resp := &Response{
		From:         from,
		To:           to,
		Availability: availability,
		PremiumOpen:  premiumOpen,
	}

	// 5. Текущее бронирование продукта, если продукт указан
	if req.ProductID > 0 {
		booking, err := uc.slotRepo.FindBookingByProduct(ctx, req.ProductID)
		switch {
		case err == nil:
			resp.CurrentProductDate = &booking.SlotDate
		case errors.Is(err, slotRepo.ErrBookingNotFound):
			// Продукт еще не бронировал запуск
		default:
			uc.logger.Error("GetAvailability: failed to find booking for product=%d: %v", req.ProductID, err)
			return nil, fmt.Errorf("%w: failed to find product booking: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("GetAvailability: window [%s, %s], %d dates", from, to, len(availability))
	return resp, nil
}
