package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TLP-LaunchService/internal/domain"
	slotRepo "github.com/m04kA/TLP-LaunchService/internal/infra/storage/slot"
	"github.com/m04kA/TLP-LaunchService/internal/service/slots/models"
	"github.com/m04kA/TLP-LaunchService/pkg/txmanager"
	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// Service сервис для работы со слотами запуска: отмена бронирований,
// просмотр слотов и поддержание окна предсозданных слотов
type Service struct {
	slotRepo     SlotRepository
	txManager    TransactionManager
	policy       domain.SlotPolicy
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	txManager TransactionManager,
	policy domain.SlotPolicy,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:     slotRepo,
		txManager:    txManager,
		policy:       policy.Normalize(),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Cancel отменяет бронирование продукта
//
// Идемпотентна: если продукт не занимает слот, возвращает Cancelled=false
// без ошибки. Удаление и декремент счётчиков слота - один атомарный переход
func (s *Service) Cancel(ctx context.Context, productID int64) (*models.CancelResult, error) {
	s.logger.Info("Cancel: cancelling booking for product=%d", productID)

	if productID <= 0 {
		return nil, fmt.Errorf("%w: productID must be positive", ErrInvalidInput)
	}

	var removed *domain.SlotBooking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		removed, err = s.slotRepo.RemoveBooking(txCtx, productID)
		return err
	})

	if err != nil {
		if errors.Is(err, slotRepo.ErrBookingNotFound) {
			s.logger.Info("Cancel: product=%d has no booking, nothing to do", productID)
			return &models.CancelResult{Cancelled: false}, nil
		}
		if errors.Is(err, txmanager.ErrSerialization) {
			s.logger.Warn("Cancel: serialization conflict for product=%d", productID)
			return nil, ErrConflict
		}
		s.logger.Error("Cancel: repository error for product=%d: %v", productID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: product=%d removed from slot %s", productID, removed.SlotDate)
	return &models.CancelResult{Cancelled: true, Date: removed.SlotDate}, nil
}

// GetSlot получает слот на дату вместе с бронированиями в порядке отображения
//
// Для даты без слота возвращает пустой слот с ёмкостью из политики:
// с точки зрения клиента такая дата полностью открыта
func (s *Service) GetSlot(ctx context.Context, date types.DateString) (*models.SlotResponse, error) {
	s.logger.Info("GetSlot: fetching slot for date=%s", date)

	if err := date.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	slot, err := s.slotRepo.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return models.FromDomainSlot(&domain.LaunchSlot{
				Date:     date,
				Capacity: s.policy.Capacity,
			}), nil
		}
		s.logger.Error("GetSlot: repository error for date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: GetSlot - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlot(slot), nil
}

// GetUserBookings получает бронирования пользователя, новые даты первыми
func (s *Service) GetUserBookings(ctx context.Context, userID int64) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d", userID)

	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	bookings, err := s.slotRepo.GetBookingsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), userID)
	return models.FromDomainBookingList(bookings), nil
}

// EnsureWindow предсоздает строки слотов на days дней вперед
//
// Бронирование работает и без предсоздания (слот создается лениво при
// записи), но заранее созданные строки делают календарь видимым в БД
// для админки и отчётов. Вызывается при старте и ежедневно по тикеру
func (s *Service) EnsureWindow(ctx context.Context, days int) error {
	if days <= 0 {
		days = s.policy.WindowDays
	}

	today := types.NewDateString(s.timeProvider.Now())
	date, err := today.AddDays(s.policy.MinLeadDays)
	if err != nil {
		return fmt.Errorf("%w: EnsureWindow - compute window start: %v", ErrInternal, err)
	}

	created := 0
	for i := 0; i < days; i++ {
		if err := s.slotRepo.CreateIfAbsent(ctx, date, s.policy.Capacity); err != nil {
			s.logger.Error("EnsureWindow: failed to ensure slot for %s: %v", date, err)
			return fmt.Errorf("%w: EnsureWindow - ensure slot %s: %v", ErrInternal, date, err)
		}
		created++

		date, err = date.AddDays(1)
		if err != nil {
			return fmt.Errorf("%w: EnsureWindow - advance date: %v", ErrInternal, err)
		}
	}

	s.logger.Info("EnsureWindow: ensured %d slot rows starting from today", created)
	return nil
}
