package domain

import (
	"time"

	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// SlotBooking represents one product occupying a seat in a launch slot
// ProductID is unique across all dates: a product launches at most once
type SlotBooking struct {
	ID       int64
	SlotDate types.DateString
	// ID продукта в каталоге (глобально уникален среди всех бронирований)
	ProductID int64
	// ID пользователя, создавшего бронирование (владелец продукта)
	UserID int64

	// Denormalized for the launch-day listing, no join to the product service
	ProductName string

	IsPremium bool
	// Position порядковый номер внутри дня, задаёт порядок отображения
	Position int

	BookedAt time.Time
}
