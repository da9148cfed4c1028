package availability

import (
	"time"

	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/model"
)

// Snapshot: состояние одного календарного дня.
type Snapshot struct {
	Date           time.Time
	ActiveBookings []model.Booking
	Table          []Result
}

// DaySnapshot собирает активные в день date брони и таблицу остатков на этот день.
// Дату передаёт вызывающий код, часы здесь не читаются.
func DaySnapshot(date time.Time, items []model.Item, bookings []model.Booking) Snapshot {
	day := calendar.Day(date)

	active := reserving(day, bookings, nil)
	activeBookings := make([]model.Booking, 0, len(active))
	for _, b := range active {
		activeBookings = append(activeBookings, *b)
	}

	return Snapshot{
		Date:           day.Start,
		ActiveBookings: activeBookings,
		Table:          Calculate(items, day, bookings, nil),
	}
}
