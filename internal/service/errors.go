package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/rental-inventory/internal/availability"
)

var (
	// ErrConflict: операция противоречит текущему состоянию записи.
	ErrConflict = errors.New("conflict")

	ErrIllegalTransition = fmt.Errorf("%w: illegal status transition", ErrConflict)
	ErrBookingClosed     = fmt.Errorf("%w: booking is returned or cancelled", ErrConflict)
	ErrItemInUse         = fmt.Errorf("%w: item is referenced by bookings", ErrConflict)
)

var (
	ErrInvalidStatus    = fmt.Errorf("%w: unknown booking status", availability.ErrStructural)
	ErrInvalidEventType = fmt.Errorf("%w: unknown event type", availability.ErrStructural)
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive", availability.ErrStructural)
	ErrInvalidQuantity  = fmt.Errorf("%w: total quantity must not be negative", availability.ErrStructural)
	ErrNameRequired     = fmt.Errorf("%w: name is required", availability.ErrStructural)
)

// notFound переводит gorm.ErrRecordNotFound в NotFoundError, остальное отдаёт как есть.
func notFound(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return availability.NewNotFound(entity, id)
	}
	return err
}
