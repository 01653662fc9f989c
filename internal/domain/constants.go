package domain

// Default configuration values
const (
	DefaultCapacity      = 3
	DefaultNonPremiumCap = 1
	DefaultWindowDays    = 30
	DefaultHorizonDays   = 60
	DefaultMinLeadDays   = 0
)

// Business validation constants
const (
	MinCapacity          = 1
	MaxCapacity          = 100
	MinWindowDays        = 1
	MaxWindowDays        = 365
	MinHorizonDays       = 1
	MaxHorizonDays       = 365
	MaxProductNameLength = 200
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
