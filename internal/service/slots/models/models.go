package models

import (
	"time"

	"github.com/m04kA/TLP-LaunchService/internal/domain"
	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// BookingResponse модель бронирования для выдачи наружу
type BookingResponse struct {
	ProductID   int64            // ID продукта
	UserID      int64            // ID владельца
	Date        types.DateString // Дата запуска
	Position    int              // Позиция в списке дня
	ProductName string           // Название продукта
	IsPremium   bool             // Премиальный тариф
	BookedAt    time.Time        // Время создания бронирования
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse
}

// SlotResponse модель слота с бронированиями в порядке отображения
type SlotResponse struct {
	Date            types.DateString
	Capacity        int
	BookingCount    int
	NonPremiumCount int
	Bookings        []BookingResponse
}

// CancelResult результат отмены бронирования
type CancelResult struct {
	// Cancelled true, если бронирование существовало и было удалено
	Cancelled bool
	// Date дата слота, который занимал продукт (пустая, если бронирования не было)
	Date types.DateString
}

// FromDomainBooking конвертирует доменное бронирование в response-модель
func FromDomainBooking(b *domain.SlotBooking) BookingResponse {
	return BookingResponse{
		ProductID:   b.ProductID,
		UserID:      b.UserID,
		Date:        b.SlotDate,
		Position:    b.Position,
		ProductName: b.ProductName,
		IsPremium:   b.IsPremium,
		BookedAt:    b.BookedAt,
	}
}

// FromDomainBookingList конвертирует список доменных бронирований
func FromDomainBookingList(bookings []*domain.SlotBooking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		result.Bookings = append(result.Bookings, FromDomainBooking(b))
	}
	return result
}

// FromDomainSlot конвертирует доменный слот в response-модель
func FromDomainSlot(s *domain.LaunchSlot) *SlotResponse {
	resp := &SlotResponse{
		Date:            s.Date,
		Capacity:        s.Capacity,
		BookingCount:    s.BookingCount,
		NonPremiumCount: s.NonPremiumCount,
		Bookings:        make([]BookingResponse, 0, len(s.Bookings)),
	}
	for _, b := range s.Bookings {
		resp.Bookings = append(resp.Bookings, FromDomainBooking(b))
	}
	return resp
}
