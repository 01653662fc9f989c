package domain

import (
	"time"

	"github.com/m04kA/TLP-LaunchService/pkg/types"
)

// LaunchSlot represents the booking record for one calendar date (UTC day)
// A slot is created lazily on first booking or eagerly by the window job;
// it is never deleted and accumulates as historical record
type LaunchSlot struct {
	Date            types.DateString
	Capacity        int
	BookingCount    int
	NonPremiumCount int

	// Bookings in display order (by Position); populated only when the slot
	// is loaded together with its bookings
	Bookings []*SlotBooking

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFull returns true if the slot has no free seats left
func (s *LaunchSlot) IsFull() bool {
	return s.BookingCount >= s.Capacity
}

// RemainingSeats returns the number of free seats regardless of tier
func (s *LaunchSlot) RemainingSeats() int {
	remaining := s.Capacity - s.BookingCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingNonPremium returns how many non-premium seats are left under the
// given sub-quota
func (s *LaunchSlot) RemainingNonPremium(nonPremiumCap int) int {
	remaining := nonPremiumCap - s.NonPremiumCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// OpenFor reports whether the slot can accept one more booking of the given tier
// Premium bookings only need a free seat; non-premium bookings are additionally
// capped by the sub-quota unless the overflow policy relaxes it
func (s *LaunchSlot) OpenFor(isPremium bool, policy SlotPolicy) bool {
	if s.IsFull() {
		return false
	}
	if isPremium || policy.AllowNonPremiumOverflow {
		return true
	}
	return s.RemainingNonPremium(policy.NonPremiumCap) > 0
}
