package domain

// SlotPolicy booking policy applied to every launch slot
// Values come from service configuration, not from the database;
// per-date capacity overrides live on the slot row itself
type SlotPolicy struct {
	// Capacity число мест в новом слоте (для существующих берется из строки слота)
	Capacity int
	// NonPremiumCap суб-квота мест для non-premium продуктов, NonPremiumCap <= Capacity
	NonPremiumCap int
	// AllowNonPremiumOverflow если true, non-premium бронирования могут занимать
	// зарезервированные premium-места, пока есть свободная ёмкость
	AllowNonPremiumOverflow bool
	// WindowDays размер окна по умолчанию для выдачи доступности
	WindowDays int
	// HorizonDays максимальная глубина сканирования при автоподборе даты
	HorizonDays int
	// MinLeadDays смещение первого доступного дня от сегодняшнего (0 = сегодня)
	MinLeadDays int
}

// Normalize подставляет дефолты вместо нулевых значений
func (p SlotPolicy) Normalize() SlotPolicy {
	if p.Capacity <= 0 {
		p.Capacity = DefaultCapacity
	}
	if p.NonPremiumCap <= 0 {
		p.NonPremiumCap = DefaultNonPremiumCap
	}
	if p.NonPremiumCap > p.Capacity {
		p.NonPremiumCap = p.Capacity
	}
	if p.WindowDays <= 0 {
		p.WindowDays = DefaultWindowDays
	}
	if p.HorizonDays <= 0 {
		p.HorizonDays = DefaultHorizonDays
	}
	if p.MinLeadDays < 0 {
		p.MinLeadDays = 0
	}
	return p
}
