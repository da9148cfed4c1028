package availability

import (
	"github.com/google/uuid"

	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/model"
)

// Result: остаток одной позиции за интервал. Remaining = Total - Reserved и не обрезается нулём:
// отрицательное значение означает перебронирование.
type Result struct {
	ItemID    uuid.UUID
	ItemName  string
	Unit      string
	Total     int
	Reserved  int
	Remaining int
}

func (r Result) Overbooked() bool {
	return r.Remaining < 0
}

// Query: "что свободно в этом окне", опционально без одной брони.
type Query struct {
	Range calendar.DateRange
	// nil: все позиции; пустой срез: ни одной.
	ItemIDs          []uuid.UUID
	ExcludeBookingID *uuid.UUID
}

// Calculate считает остаток по каждой позиции из items в порядке входного среза.
// Пустой items даёт пустой результат.
func Calculate(items []model.Item, r calendar.DateRange, bookings []model.Booking, excludeBookingID *uuid.UUID) []Result {
	results := make([]Result, 0, len(items))
	if len(items) == 0 {
		return results
	}

	active := reserving(r, bookings, excludeBookingID)
	for _, item := range items {
		reserved := sumReserved(item.ID, active)
		results = append(results, Result{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Unit:      item.Unit,
			Total:     item.TotalQuantity,
			Reserved:  reserved,
			Remaining: item.TotalQuantity - reserved,
		})
	}
	return results
}

// Check выполняет Query: проверяет интервал, выбирает подмножество позиций и считает остатки.
// Неизвестный id в q.ItemIDs: NotFoundError.
func Check(q Query, items []model.Item, bookings []model.Booking) ([]Result, error) {
	if err := validateRange(q.Range); err != nil {
		return nil, err
	}

	selected := items
	if q.ItemIDs != nil {
		byID := indexItems(items)
		selected = make([]model.Item, 0, len(q.ItemIDs))
		for _, id := range q.ItemIDs {
			item, ok := byID[id]
			if !ok {
				return nil, NewNotFound("item", id)
			}
			selected = append(selected, item)
		}
	}

	return Calculate(selected, q.Range, bookings, q.ExcludeBookingID), nil
}

// Overbooked возвращает строки с отрицательным остатком.
func Overbooked(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Overbooked() {
			out = append(out, r)
		}
	}
	return out
}

func indexItems(items []model.Item) map[uuid.UUID]model.Item {
	byID := make(map[uuid.UUID]model.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID
}

func validateRange(r calendar.DateRange) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidRange
	}
	if calendar.DateOf(r.End).Before(calendar.DateOf(r.Start)) {
		return ErrInvalidRange
	}
	return nil
}
