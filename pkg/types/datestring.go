package types

import (
	"fmt"
	"time"
)

// dateLayout формат календарной даты (UTC, без времени)
const dateLayout = "2006-01-02"

// DateString календарная дата в формате YYYY-MM-DD (UTC)
// Используется как ключ слота запуска: сутки - минимальная гранулярность системы
type DateString string

// NewDateString создает DateString из time.Time (время отбрасывается, дата берется в UTC)
func NewDateString(t time.Time) DateString {
	return DateString(t.UTC().Format(dateLayout))
}

// NewDateStringFromString парсит строку вида "2025-10-15"
func NewDateStringFromString(s string) (DateString, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date string format: %v", err)
	}
	return DateString(s), nil
}

// Validate проверяет корректность формата даты
func (d DateString) Validate() error {
	if _, err := time.Parse(dateLayout, string(d)); err != nil {
		return fmt.Errorf("invalid date string format: %v", err)
	}
	return nil
}

// IsZero возвращает true, если дата не задана
func (d DateString) IsZero() bool {
	return d == ""
}

// Time возвращает полночь этой даты в UTC
func (d DateString) Time() (time.Time, error) {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date string format: %v", err)
	}
	return t, nil
}

// AddDays возвращает дату, сдвинутую на n дней вперед (n может быть отрицательным)
func (d DateString) AddDays(n int) (DateString, error) {
	t, err := d.Time()
	if err != nil {
		return "", err
	}
	return NewDateString(t.AddDate(0, 0, n)), nil
}

// IsBefore возвращает true, если d строго раньше other
// Лексикографическое сравнение корректно для формата YYYY-MM-DD
func (d DateString) IsBefore(other DateString) bool {
	return string(d) < string(other)
}

// IsAfter возвращает true, если d строго позже other
func (d DateString) IsAfter(other DateString) bool {
	return string(d) > string(other)
}

// String возвращает строковое представление даты
func (d DateString) String() string {
	return string(d)
}
