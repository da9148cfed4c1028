package availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/model"
)

// Overlaps: включительные интервалы пересекаются, если aStart <= bEnd && bStart <= aEnd.
// Границы сравниваются по дням в UTC.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return calendar.RangesOverlap(aStart, aEnd, bStart, bEnd)
}

// reserving отбирает брони, которые занимают инвентарь в интервале r:
// активный статус, не исключённая бронь, пересечение по датам.
func reserving(r calendar.DateRange, bookings []model.Booking, exclude *uuid.UUID) []*model.Booking {
	out := make([]*model.Booking, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		if !b.Status.IsActive() {
			continue
		}
		if exclude != nil && b.ID == *exclude {
			continue
		}
		br := b.Range()
		if !Overlaps(br.Start, br.End, r.Start, r.End) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ReservedQuantity: сколько единиц itemID занято активными бронями, пересекающими r.
// excludeBookingID позволяет посчитать занятость "без этой брони" при редактировании.
func ReservedQuantity(itemID uuid.UUID, r calendar.DateRange, bookings []model.Booking, excludeBookingID *uuid.UUID) int {
	return sumReserved(itemID, reserving(r, bookings, excludeBookingID))
}

func sumReserved(itemID uuid.UUID, active []*model.Booking) int {
	total := 0
	for _, b := range active {
		total += b.QuantityOf(itemID)
	}
	return total
}
