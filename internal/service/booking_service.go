package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Leganyst/rental-inventory/internal/availability"
	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/lock"
	"github.com/Leganyst/rental-inventory/internal/model"
	"github.com/Leganyst/rental-inventory/internal/repository"
)

// BookingInput: данные брони от клиента (создание и редактирование).
type BookingInput struct {
	CustomerID uuid.UUID
	Range      calendar.DateRange
	Lines      []availability.LineRequest

	TotalPrice     *float64
	AdvancePayment *float64
	PaymentDueDate *time.Time
	Notes          string
	Color          string
}

func (in BookingInput) request(exclude *uuid.UUID) availability.Request {
	return availability.Request{Range: in.Range, Lines: in.Lines, ExcludeBookingID: exclude}
}

func (in BookingInput) itemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(in.Lines))
	for _, l := range in.Lines {
		ids = append(ids, l.ItemID)
	}
	return ids
}

func (in BookingInput) apply(b *model.Booking) {
	b.CustomerID = in.CustomerID
	b.SetRange(in.Range)
	b.TotalPrice = in.TotalPrice
	b.AdvancePayment = in.AdvancePayment
	b.PaymentDueDate = nil
	if in.PaymentDueDate != nil {
		d := datatypes.Date(calendar.DateOf(*in.PaymentDueDate))
		b.PaymentDueDate = &d
	}
	b.Notes = in.Notes
	b.Color = in.Color

	b.LineItems = make([]model.BookingLineItem, 0, len(in.Lines))
	for _, l := range in.Lines {
		b.LineItems = append(b.LineItems, model.BookingLineItem{BookingID: b.ID, ItemID: l.ItemID, Quantity: l.Quantity})
	}
}

type PaymentInput struct {
	Amount float64
	PaidAt time.Time
	Method string
	Notes  string
}

// Summary: остатки всех позиций за интервал с отдельным списком перебронированных.
type Summary struct {
	Range      calendar.DateRange
	Items      []availability.Result
	Overbooked []availability.Result
}

type BookingService struct {
	store  *repository.Store
	locker lock.Locker
	log    *zap.Logger
	now    func() time.Time
}

func NewBookingService(store *repository.Store, locker lock.Locker, log *zap.Logger) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{
		store:  store,
		locker: locker,
		log:    log.Named("booking"),
		now:    time.Now,
	}
}

// CreateBooking проверяет доступность и сохраняет бронь атомарно:
// блокировки позиций, затем в одной транзакции перечитывание остатков, Validate и запись.
func (s *BookingService) CreateBooking(ctx context.Context, in BookingInput) (*model.Booking, error) {
	if len(in.Lines) == 0 {
		return nil, availability.ErrNoLineItems
	}
	req := in.request(nil)
	if err := availability.ValidateRequest(req); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, lock.ItemKeys(in.itemIDs())...)
	if err != nil {
		return nil, fmt.Errorf("lock items: %w", err)
	}
	defer unlock()

	booking := &model.Booking{ID: uuid.New(), Status: model.BookingStatusConfirmed}
	in.apply(booking)

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Customers.GetByID(ctx, in.CustomerID); err != nil {
			return notFound(err, "customer", in.CustomerID)
		}
		if err := s.validate(ctx, tx, req); err != nil {
			return err
		}
		if err := tx.Bookings.Create(ctx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		return tx.Events.Create(ctx, bookingEvent(model.EventTypeBookingCreated, booking.ID, booking.Range().String()))
	})
	if err != nil {
		s.log.Info("booking rejected", zap.Stringer("range", in.Range), zap.Error(err))
		return nil, err
	}

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("customer_id", booking.CustomerID.String()),
		zap.Stringer("range", booking.Range()),
		zap.Int("lines", len(booking.LineItems)),
	)
	return booking, nil
}

// UpdateBooking перепроверяет бронь без учёта её самой и целиком заменяет даты и позиции.
func (s *BookingService) UpdateBooking(ctx context.Context, id uuid.UUID, in BookingInput) (*model.Booking, error) {
	if len(in.Lines) == 0 {
		return nil, availability.ErrNoLineItems
	}
	req := in.request(&id)
	if err := availability.ValidateRequest(req); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, lock.ItemKeys(in.itemIDs())...)
	if err != nil {
		return nil, fmt.Errorf("lock items: %w", err)
	}
	defer unlock()

	var booking *model.Booking
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.Bookings.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "booking", id)
		}
		if !existing.Status.IsActive() {
			return fmt.Errorf("%w: %s", ErrBookingClosed, existing.Status)
		}
		if _, err := tx.Customers.GetByID(ctx, in.CustomerID); err != nil {
			return notFound(err, "customer", in.CustomerID)
		}
		if err := s.validate(ctx, tx, req); err != nil {
			return err
		}

		in.apply(existing)
		if err := tx.Bookings.Update(ctx, existing); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		booking = existing
		return tx.Events.Create(ctx, bookingEvent(model.EventTypeBookingUpdated, id, existing.Range().String()))
	})
	if err != nil {
		s.log.Info("booking update rejected", zap.String("booking_id", id.String()), zap.Error(err))
		return nil, err
	}

	s.log.Info("booking updated", zap.String("booking_id", id.String()), zap.Stringer("range", booking.Range()))
	return booking, nil
}

// validate выполняется внутри транзакции записи: позиции и активные брони читаются заново.
func (s *BookingService) validate(ctx context.Context, tx *repository.Store, req availability.Request) error {
	ids := make([]uuid.UUID, 0, len(req.Lines))
	for _, l := range req.Lines {
		ids = append(ids, l.ItemID)
	}

	items, err := tx.Items.LockByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	bookings, err := tx.Bookings.ListActiveOverlapping(ctx, req.Range)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}

	decision, err := availability.Validate(req, items, bookings)
	if err != nil {
		return err
	}
	if missing := decision.MissingItems(); len(missing) > 0 {
		return availability.NewNotFound("item", missing[0])
	}
	return decision.Err()
}

// ChangeStatus переводит бронь по машине состояний. Отмена проставляет cancelled_at.
func (s *BookingService) ChangeStatus(ctx context.Context, id uuid.UUID, next model.BookingStatus) (*model.Booking, error) {
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}

	var booking *model.Booking
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		b, err := tx.Bookings.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "booking", id)
		}
		if !b.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, b.Status, next)
		}

		var cancelledAt *time.Time
		eventType := model.EventTypeBookingStatusChanged
		if next == model.BookingStatusCancelled {
			now := s.now().UTC()
			cancelledAt = &now
			eventType = model.EventTypeBookingCancelled
		}
		if err := tx.Bookings.UpdateStatus(ctx, id, next, cancelledAt); err != nil {
			return notFound(err, "booking", id)
		}

		details := fmt.Sprintf("%s -> %s", b.Status, next)
		b.Status = next
		if cancelledAt != nil {
			b.CancelledAt = cancelledAt
		}
		booking = b
		return tx.Events.Create(ctx, bookingEvent(eventType, id, details))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking status changed", zap.String("booking_id", id.String()), zap.String("status", string(next)))
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, err := s.store.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "booking", id)
	}
	return b, nil
}

// ListBookings: при nil все брони, иначе брони любого статуса, пересекающие интервал.
func (s *BookingService) ListBookings(ctx context.Context, r *calendar.DateRange) ([]model.Booking, error) {
	if r == nil {
		return s.store.Bookings.ListAll(ctx)
	}
	if err := availability.ValidateRequest(availability.Request{Range: *r}); err != nil {
		return nil, err
	}
	return s.store.Bookings.ListByRange(ctx, *r)
}

func (s *BookingService) ListEvents(ctx context.Context, bookingID uuid.UUID) ([]model.Event, error) {
	if _, err := s.store.Bookings.GetByID(ctx, bookingID); err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	return s.store.Events.ListByBooking(ctx, bookingID)
}

// DefaultEventsLimit: сколько последних событий отдаёт ListEventsByType без явного limit.
const DefaultEventsLimit = 100

// ListEventsByType: последние события одного типа по всем броням, новые первыми.
// Через overbooking_detected оператор находит брони, которые надо разрулить вручную.
func (s *BookingService) ListEventsByType(ctx context.Context, eventType model.EventType, limit int) ([]model.Event, error) {
	if !eventType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEventType, eventType)
	}
	if limit <= 0 {
		limit = DefaultEventsLimit
	}
	return s.store.Events.ListByType(ctx, eventType, limit)
}

// CheckAvailability: остатки позиций за интервал. Перебронирование только логируется.
func (s *BookingService) CheckAvailability(ctx context.Context, q availability.Query) ([]availability.Result, error) {
	if err := availability.ValidateRequest(availability.Request{Range: q.Range}); err != nil {
		return nil, err
	}

	items, err := s.store.Items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	bookings, err := s.store.Bookings.ListActiveOverlapping(ctx, q.Range)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	results, err := availability.Check(q, items, bookings)
	if err != nil {
		return nil, err
	}
	s.warnOverbooked(q.Range, results)
	return results, nil
}

// InventorySummary: остатки всех позиций за интервал.
func (s *BookingService) InventorySummary(ctx context.Context, r calendar.DateRange) (Summary, error) {
	results, err := s.CheckAvailability(ctx, availability.Query{Range: r})
	if err != nil {
		return Summary{}, err
	}
	overbooked := availability.Overbooked(results)
	if overbooked == nil {
		overbooked = []availability.Result{}
	}
	return Summary{Range: r, Items: results, Overbooked: overbooked}, nil
}

// CheckFeasibility: решение без записи. Неизвестные позиции попадают в строки решения.
func (s *BookingService) CheckFeasibility(ctx context.Context, req availability.Request) (availability.Decision, error) {
	if err := availability.ValidateRequest(req); err != nil {
		return availability.Decision{}, err
	}

	ids := make([]uuid.UUID, 0, len(req.Lines))
	for _, l := range req.Lines {
		ids = append(ids, l.ItemID)
	}
	items, err := s.store.Items.ListByIDs(ctx, ids)
	if err != nil {
		return availability.Decision{}, fmt.Errorf("load items: %w", err)
	}
	bookings, err := s.store.Bookings.ListActiveOverlapping(ctx, req.Range)
	if err != nil {
		return availability.Decision{}, fmt.Errorf("load bookings: %w", err)
	}
	return availability.Validate(req, items, bookings)
}

// DaySnapshot: календарный день: активные брони и таблица остатков.
func (s *BookingService) DaySnapshot(ctx context.Context, date time.Time) (availability.Snapshot, error) {
	items, err := s.store.Items.List(ctx)
	if err != nil {
		return availability.Snapshot{}, fmt.Errorf("load items: %w", err)
	}
	bookings, err := s.store.Bookings.ListActiveOverlapping(ctx, calendar.Day(date))
	if err != nil {
		return availability.Snapshot{}, fmt.Errorf("load bookings: %w", err)
	}

	snap := availability.DaySnapshot(date, items, bookings)
	s.warnOverbooked(calendar.Day(snap.Date), snap.Table)
	return snap, nil
}

// RecordPayment: учёт платежа по брони, без сверки с суммой.
func (s *BookingService) RecordPayment(ctx context.Context, bookingID uuid.UUID, in PaymentInput) (*model.Payment, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = s.now()
	}

	payment := &model.Payment{
		BookingID: bookingID,
		Amount:    in.Amount,
		PaidAt:    datatypes.Date(calendar.DateOf(paidAt)),
		Method:    in.Method,
		Notes:     in.Notes,
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Bookings.GetByID(ctx, bookingID); err != nil {
			return notFound(err, "booking", bookingID)
		}
		if err := tx.Payments.Create(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		return tx.Events.Create(ctx, bookingEvent(model.EventTypePaymentRecorded, bookingID, fmt.Sprintf("%.2f", in.Amount)))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment recorded", zap.String("booking_id", bookingID.String()), zap.Float64("amount", in.Amount))
	return payment, nil
}

func (s *BookingService) ListPayments(ctx context.Context, bookingID uuid.UUID) ([]model.Payment, error) {
	if _, err := s.store.Bookings.GetByID(ctx, bookingID); err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	return s.store.Payments.ListByBooking(ctx, bookingID)
}

func (s *BookingService) warnOverbooked(r calendar.DateRange, results []availability.Result) {
	for _, res := range availability.Overbooked(results) {
		s.log.Warn("overbooked item detected",
			zap.String("item_id", res.ItemID.String()),
			zap.String("item", res.ItemName),
			zap.Stringer("range", r),
			zap.Int("total", res.Total),
			zap.Int("reserved", res.Reserved),
			zap.Int("remaining", res.Remaining),
		)
	}
}

func bookingEvent(t model.EventType, bookingID uuid.UUID, details string) *model.Event {
	id := bookingID
	return &model.Event{EventType: t, BookingID: &id, Details: details}
}
