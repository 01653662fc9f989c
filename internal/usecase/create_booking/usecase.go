package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TLP-LaunchService/internal/domain"
	slotRepo "github.com/m04kA/TLP-LaunchService/internal/infra/storage/slot"
	productClient "github.com/m04kA/TLP-LaunchService/internal/integrations/productservice"
	"github.com/m04kA/TLP-LaunchService/pkg/txmanager"
	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// UseCase use case бронирования слота запуска
//
// Назначает продукту дату запуска под фиксированную дневную ёмкость с
// premium/non-premium квотами. Продукт запускается не более одного раза
type UseCase struct {
	slotRepo      SlotRepository
	productClient ProductServiceClient
	txManager     TransactionManager
	policy        domain.SlotPolicy
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	productClient ProductServiceClient,
	txManager TransactionManager,
	policy domain.SlotPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:      slotRepo,
		productClient: productClient,
		txManager:     txManager,
		policy:        policy.Normalize(),
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case бронирования
//
// Если дата указана - проверяет её и пишет атомарно (предикат ёмкости
// перепроверяется на момент записи под блокировкой строки слота).
// Если дата не указана - сканирует календарь вперед и занимает первую
// открытую дату; кандидат, заполнившийся между сканированием и записью,
// не роняет запрос - сканирование продолжается со следующего дня
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: product=%d, user=%d, date=%q", req.ProductID, req.UserID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем продукт: название и premium-признак берутся из каталога,
	// а не из запроса
	product, err := uc.productClient.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, productClient.ErrProductNotFound) {
			uc.logger.Warn("CreateBooking: product id=%d not found", req.ProductID)
			return nil, ErrProductNotFound
		}
		uc.logger.Error("CreateBooking: failed to get product id=%d: %v", req.ProductID, err)
		return nil, fmt.Errorf("%w: failed to get product: %v", ErrInternal, err)
	}

	// 4. Бронировать запуск может только владелец продукта
	if product.OwnerID != req.UserID {
		uc.logger.Warn("CreateBooking: user=%d is not the owner of product=%d", req.UserID, req.ProductID)
		return nil, ErrAccessDenied
	}

	// 5. Быстрая проверка дубля до транзакции
	// UNIQUE-ограничение в store остается страховкой от гонки
	if existing, err := uc.slotRepo.FindBookingByProduct(ctx, req.ProductID); err == nil {
		uc.logger.Warn("CreateBooking: product=%d already booked on %s", req.ProductID, existing.SlotDate)
		return nil, ErrDuplicateBooking
	} else if !errors.Is(err, slotRepo.ErrBookingNotFound) {
		uc.logger.Error("CreateBooking: failed to check existing booking for product=%d: %v", req.ProductID, err)
		return nil, fmt.Errorf("%w: failed to check existing booking: %v", ErrInternal, err)
	}

	firstDay, horizonEnd, err := uc.bookableRange(now)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compute bookable range: %v", ErrInternal, err)
	}

	booking := &domain.SlotBooking{
		ProductID:   req.ProductID,
		UserID:      req.UserID,
		ProductName: product.Name,
		IsPremium:   product.IsPremium,
	}

	// 6. Явная дата или автоподбор
	if !req.Date.IsZero() {
		if err := validateDate(req.Date, firstDay, horizonEnd); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed for product=%d: %v", req.ProductID, err)
			return nil, err
		}
		return uc.bookExact(ctx, req.Date, booking)
	}

	return uc.bookFirstOpen(ctx, firstDay, horizonEnd, booking)
}

// bookExact бронирует указанную дату
func (uc *UseCase) bookExact(ctx context.Context, date types.DateString, booking *domain.SlotBooking) (*Response, error) {
	var created *domain.SlotBooking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		created, err = uc.slotRepo.InsertBooking(txCtx, date, uc.policy, booking)
		return err
	})

	if err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotFull), errors.Is(err, slotRepo.ErrQuotaExceeded):
			uc.logger.Warn("CreateBooking: date %s not available for product=%d: %v", date, booking.ProductID, err)
			return nil, ErrSlotUnavailable
		case errors.Is(err, slotRepo.ErrDuplicateProduct):
			uc.logger.Warn("CreateBooking: product=%d already booked (lost race)", booking.ProductID)
			return nil, ErrDuplicateBooking
		case errors.Is(err, txmanager.ErrSerialization):
			uc.logger.Warn("CreateBooking: serialization conflict for product=%d on %s", booking.ProductID, date)
			return nil, ErrConflict
		default:
			uc.logger.Error("CreateBooking: failed to book %s for product=%d: %v", date, booking.ProductID, err)
			return nil, fmt.Errorf("%w: failed to insert booking: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("CreateBooking: product=%d booked on %s, position=%d",
		created.ProductID, created.SlotDate, created.Position)
	return toResponse(created), nil
}

// bookFirstOpen сканирует календарь от firstDay и занимает первую открытую дату
//
// Сканирование не транзакционно: атомарна только запись на выбранную дату,
// предикат перепроверяется в store на момент записи. Проигранная гонка
// двигает кандидата на следующий день, поэтому цикл завершается не позже
// конца горизонта
func (uc *UseCase) bookFirstOpen(ctx context.Context, firstDay, horizonEnd types.DateString, booking *domain.SlotBooking) (*Response, error) {
	candidate := firstDay

	for !candidate.IsAfter(horizonEnd) {
		open, err := uc.firstOpenDate(ctx, candidate, horizonEnd, booking.IsPremium)
		if err != nil {
			return nil, err
		}
		if open.IsZero() {
			break
		}

		var created *domain.SlotBooking
		err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			var err error
			created, err = uc.slotRepo.InsertBooking(txCtx, open, uc.policy, booking)
			return err
		})

		if err != nil {
			// Дата заполнилась между сканированием и записью либо транзакция
			// проиграла гонку - продолжаем со следующего дня
			if errors.Is(err, slotRepo.ErrSlotFull) ||
				errors.Is(err, slotRepo.ErrQuotaExceeded) ||
				errors.Is(err, txmanager.ErrSerialization) {
				uc.logger.Info("CreateBooking: candidate %s filled under race for product=%d, advancing", open, booking.ProductID)
				next, aerr := open.AddDays(1)
				if aerr != nil {
					return nil, fmt.Errorf("%w: failed to advance candidate date: %v", ErrInternal, aerr)
				}
				candidate = next
				continue
			}
			if errors.Is(err, slotRepo.ErrDuplicateProduct) {
				uc.logger.Warn("CreateBooking: product=%d already booked (lost race)", booking.ProductID)
				return nil, ErrDuplicateBooking
			}
			uc.logger.Error("CreateBooking: failed to book %s for product=%d: %v", open, booking.ProductID, err)
			return nil, fmt.Errorf("%w: failed to insert booking: %v", ErrInternal, err)
		}

		uc.logger.Info("CreateBooking: product=%d auto-assigned to %s, position=%d",
			created.ProductID, created.SlotDate, created.Position)
		return toResponse(created), nil
	}

	uc.logger.Warn("CreateBooking: no availability for product=%d within %d days", booking.ProductID, uc.policy.HorizonDays)
	return nil, ErrNoAvailability
}

// firstOpenDate возвращает первую открытую дату в [from, to] по снимку store,
// либо пустую дату, если таких нет
//
// Даты без строки слота считаются открытыми: слот создается лениво при записи
func (uc *UseCase) firstOpenDate(ctx context.Context, from, to types.DateString, isPremium bool) (types.DateString, error) {
	slots, err := uc.slotRepo.GetRange(ctx, from, to)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to scan slots [%s, %s]: %v", from, to, err)
		return "", fmt.Errorf("%w: failed to scan slots: %v", ErrInternal, err)
	}

	byDate := make(map[types.DateString]*domain.LaunchSlot, len(slots))
	for _, s := range slots {
		byDate[s.Date] = s
	}

	for d := from; !d.IsAfter(to); {
		slot, exists := byDate[d]
		if !exists || slot.OpenFor(isPremium, uc.policy) {
			return d, nil
		}

		next, err := d.AddDays(1)
		if err != nil {
			return "", fmt.Errorf("%w: failed to advance scan date: %v", ErrInternal, err)
		}
		d = next
	}

	return "", nil
}

// bookableRange возвращает первый доступный день и конец горизонта бронирования
func (uc *UseCase) bookableRange(now time.Time) (types.DateString, types.DateString, error) {
	today := types.NewDateString(now)

	firstDay, err := today.AddDays(uc.policy.MinLeadDays)
	if err != nil {
		return "", "", err
	}

	horizonEnd, err := firstDay.AddDays(uc.policy.HorizonDays - 1)
	if err != nil {
		return "", "", err
	}

	return firstDay, horizonEnd, nil
}

func toResponse(b *domain.SlotBooking) *Response {
	return &Response{
		ProductID:   b.ProductID,
		UserID:      b.UserID,
		Date:        b.SlotDate,
		Position:    b.Position,
		ProductName: b.ProductName,
		IsPremium:   b.IsPremium,
		BookedAt:    b.BookedAt,
	}
}
