package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLaunchSlot_OpenFor(t *testing.T) {
	policy := SlotPolicy{Capacity: 3, NonPremiumCap: 1}.Normalize()

	tests := []struct {
		name      string
		slot      LaunchSlot
		isPremium bool
		want      bool
	}{
		{
			name:      "empty slot open for non-premium",
			slot:      LaunchSlot{Capacity: 3},
			isPremium: false,
			want:      true,
		},
		{
			name:      "empty slot open for premium",
			slot:      LaunchSlot{Capacity: 3},
			isPremium: true,
			want:      true,
		},
		{
			name:      "quota exhausted rejects non-premium with free seats",
			slot:      LaunchSlot{Capacity: 3, BookingCount: 2, NonPremiumCount: 1},
			isPremium: false,
			want:      false,
		},
		{
			name:      "quota exhausted still accepts premium",
			slot:      LaunchSlot{Capacity: 3, BookingCount: 2, NonPremiumCount: 1},
			isPremium: true,
			want:      true,
		},
		{
			name:      "full slot rejects premium",
			slot:      LaunchSlot{Capacity: 3, BookingCount: 3, NonPremiumCount: 1},
			isPremium: true,
			want:      false,
		},
		{
			name:      "full slot rejects non-premium",
			slot:      LaunchSlot{Capacity: 3, BookingCount: 3, NonPremiumCount: 0},
			isPremium: false,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slot.OpenFor(tt.isPremium, policy))
		})
	}
}

func TestLaunchSlot_OpenFor_Overflow(t *testing.T) {
	// При включенном overflow non-premium занимает premium-места
	policy := SlotPolicy{Capacity: 3, NonPremiumCap: 1, AllowNonPremiumOverflow: true}.Normalize()

	slot := LaunchSlot{Capacity: 3, BookingCount: 2, NonPremiumCount: 1}
	assert.True(t, slot.OpenFor(false, policy))

	full := LaunchSlot{Capacity: 3, BookingCount: 3, NonPremiumCount: 2}
	assert.False(t, full.OpenFor(false, policy))
}

func TestLaunchSlot_RemainingNonPremium(t *testing.T) {
	slot := LaunchSlot{Capacity: 3, BookingCount: 1, NonPremiumCount: 1}

	assert.Equal(t, 0, slot.RemainingNonPremium(1))
	assert.Equal(t, 1, slot.RemainingNonPremium(2))

	// Отрицательный остаток невозможен
	over := LaunchSlot{Capacity: 3, BookingCount: 3, NonPremiumCount: 3}
	assert.Equal(t, 0, over.RemainingNonPremium(1))
}

func TestLaunchSlot_RemainingSeats(t *testing.T) {
	assert.Equal(t, 3, (&LaunchSlot{Capacity: 3}).RemainingSeats())
	assert.Equal(t, 1, (&LaunchSlot{Capacity: 3, BookingCount: 2}).RemainingSeats())
	assert.Equal(t, 0, (&LaunchSlot{Capacity: 3, BookingCount: 3}).RemainingSeats())
}

func TestSlotPolicy_Normalize(t *testing.T) {
	// Нулевые значения заменяются дефолтами
	p := SlotPolicy{}.Normalize()
	assert.Equal(t, DefaultCapacity, p.Capacity)
	assert.Equal(t, DefaultNonPremiumCap, p.NonPremiumCap)
	assert.Equal(t, DefaultWindowDays, p.WindowDays)
	assert.Equal(t, DefaultHorizonDays, p.HorizonDays)

	// Квота не может превышать ёмкость
	p = SlotPolicy{Capacity: 2, NonPremiumCap: 5}.Normalize()
	assert.Equal(t, 2, p.NonPremiumCap)
}
