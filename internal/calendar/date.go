package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout: формат календарной даты в API и в логах.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate      = errors.New("invalid calendar date")
	ErrInvalidDateRange = errors.New("end date is before start date")
)

// ParseDate разбирает дату вида YYYY-MM-DD и возвращает полночь UTC.
// Берётся только префикс из 10 символов, поэтому "2025-01-03T15:00:00+03:00"
// тоже даёт 2025-01-03, без сдвига на соседний день из-за часового пояса.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) < len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.ParseInLocation(DateLayout, s[:len(DateLayout)], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DateOf приводит момент времени к полуночи UTC по его собственной дате (Y/M/D в t.Location()).
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FormatDate печатает дату в DateLayout.
func FormatDate(t time.Time) string {
	return DateOf(t).Format(DateLayout)
}

// DateRange: включительный интервал календарных дней [Start, End].
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange нормализует границы и проверяет, что End не раньше Start.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, ErrInvalidDate
	}
	r := DateRange{Start: DateOf(start), End: DateOf(end)}
	if r.End.Before(r.Start) {
		return DateRange{}, fmt.Errorf("%w: %s..%s", ErrInvalidDateRange, FormatDate(r.Start), FormatDate(r.End))
	}
	return r, nil
}

// ParseDateRange: NewDateRange для строковых дат.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(s, e)
}

// Day: интервал из одного дня.
func Day(d time.Time) DateRange {
	d = DateOf(d)
	return DateRange{Start: d, End: d}
}

func (r DateRange) String() string {
	return FormatDate(r.Start) + ".." + FormatDate(r.End)
}

// RangesOverlap: [aStart, aEnd] и [bStart, bEnd] пересекаются,
// если aStart <= bEnd && bStart <= aEnd. Сравнение идёт по дням в UTC.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	aStart, aEnd = DateOf(aStart), DateOf(aEnd)
	bStart, bEnd = DateOf(bStart), DateOf(bEnd)
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}
