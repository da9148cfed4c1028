package availability

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrStructural: некорректный запрос, исправляется вызывающей стороной и не ретраится.
var ErrStructural = errors.New("invalid booking request")

var (
	ErrInvalidRange    = fmt.Errorf("%w: end date is before start date", ErrStructural)
	ErrDuplicateItem   = fmt.Errorf("%w: item listed more than once", ErrStructural)
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be at least 1", ErrStructural)
	ErrNoLineItems     = fmt.Errorf("%w: at least one item must be selected", ErrStructural)
)

// IsStructural сообщает, что ошибку вызвал сам запрос.
func IsStructural(err error) bool {
	return errors.Is(err, ErrStructural)
}

var (
	ErrNotFound      = errors.New("not found")
	ErrUnsatisfiable = errors.New("requested quantities are not available")
)

// NotFoundError: ссылка на несуществующую позицию, бронь или клиента.
type NotFoundError struct {
	Entity string
	ID     string
}

func NewNotFound(entity string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id.String()}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UnsatisfiableError: отрицательное решение, превращённое в ошибку на стороне записи.
type UnsatisfiableError struct {
	Lines []LineDecision
}

func (e *UnsatisfiableError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, l.Message())
	}
	if len(parts) == 0 {
		return ErrUnsatisfiable.Error()
	}
	return ErrUnsatisfiable.Error() + ": " + strings.Join(parts, "; ")
}

func (e *UnsatisfiableError) Is(target error) bool {
	return target == ErrUnsatisfiable
}
