package availability

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/model"
)

type LineRequest struct {
	ItemID   uuid.UUID
	Quantity int
}

// Request: предлагаемая бронь. ExcludeBookingID задаётся при редактировании,
// чтобы бронь не конкурировала сама с собой.
type Request struct {
	Range            calendar.DateRange
	Lines            []LineRequest
	ExcludeBookingID *uuid.UUID
}

type LineReason string

const (
	ReasonNone         LineReason = ""
	ReasonItemNotFound LineReason = "item_not_found"
	ReasonInsufficient LineReason = "insufficient"
)

// LineDecision: решение по одной строке запроса.
type LineDecision struct {
	ItemID      uuid.UUID
	ItemName    string
	Requested   int
	Available   int
	Total       int
	Reserved    int
	Satisfiable bool
	Reason      LineReason
}

// Message: текст для интерфейса: "Chair: requested 5, only 4 available (10 total, 6 rented)".
func (l LineDecision) Message() string {
	switch l.Reason {
	case ReasonItemNotFound:
		return fmt.Sprintf("item %s not found", l.ItemID)
	case ReasonInsufficient:
		return fmt.Sprintf("%s: requested %d, only %d available (%d total, %d rented)",
			l.ItemName, l.Requested, l.Available, l.Total, l.Reserved)
	default:
		return fmt.Sprintf("%s: requested %d, %d available", l.ItemName, l.Requested, l.Available)
	}
}

type Decision struct {
	AllSatisfiable bool
	Lines          []LineDecision
}

// Unsatisfied: строки, которые нельзя выполнить.
func (d Decision) Unsatisfied() []LineDecision {
	var out []LineDecision
	for _, l := range d.Lines {
		if !l.Satisfiable {
			out = append(out, l)
		}
	}
	return out
}

// MissingItems: id позиций, которых нет в справочнике.
func (d Decision) MissingItems() []uuid.UUID {
	var out []uuid.UUID
	for _, l := range d.Lines {
		if l.Reason == ReasonItemNotFound {
			out = append(out, l.ItemID)
		}
	}
	return out
}

// Err возвращает nil для положительного решения и *UnsatisfiableError иначе.
func (d Decision) Err() error {
	if d.AllSatisfiable {
		return nil
	}
	return &UnsatisfiableError{Lines: d.Unsatisfied()}
}

// Validate решает, можно ли выполнить запрос целиком.
// Структурные ошибки (интервал, дубли позиций, количество < 1) возвращаются как error,
// нехватка остатка: как обычное решение с AllSatisfiable=false.
// Пустой запрос никогда не выполним.
func Validate(req Request, items []model.Item, bookings []model.Booking) (Decision, error) {
	if err := ValidateRequest(req); err != nil {
		return Decision{}, err
	}

	byID := indexItems(items)
	active := reserving(req.Range, bookings, req.ExcludeBookingID)

	decision := Decision{
		AllSatisfiable: len(req.Lines) > 0,
		Lines:          make([]LineDecision, 0, len(req.Lines)),
	}

	for _, line := range req.Lines {
		item, ok := byID[line.ItemID]
		if !ok {
			decision.Lines = append(decision.Lines, LineDecision{
				ItemID:    line.ItemID,
				Requested: line.Quantity,
				Reason:    ReasonItemNotFound,
			})
			decision.AllSatisfiable = false
			continue
		}

		reserved := sumReserved(item.ID, active)
		available := item.TotalQuantity - reserved
		ld := LineDecision{
			ItemID:      item.ID,
			ItemName:    item.Name,
			Requested:   line.Quantity,
			Available:   available,
			Total:       item.TotalQuantity,
			Reserved:    reserved,
			Satisfiable: available >= line.Quantity,
		}
		if !ld.Satisfiable {
			ld.Reason = ReasonInsufficient
			decision.AllSatisfiable = false
		}
		decision.Lines = append(decision.Lines, ld)
	}

	return decision, nil
}

// ValidateRequest: только структурная проверка запроса, без расчёта остатков.
func ValidateRequest(req Request) error {
	if err := validateRange(req.Range); err != nil {
		return err
	}
	seen := make(map[uuid.UUID]struct{}, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity < 1 {
			return fmt.Errorf("%w: item %s quantity %d", ErrInvalidQuantity, line.ItemID, line.Quantity)
		}
		if _, dup := seen[line.ItemID]; dup {
			return fmt.Errorf("%w: item %s", ErrDuplicateItem, line.ItemID)
		}
		seen[line.ItemID] = struct{}{}
	}
	return nil
}
