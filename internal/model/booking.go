package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/rental-inventory/internal/calendar"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusOut       BookingStatus = "OUT"
	BookingStatusReturned  BookingStatus = "RETURNED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// ActiveBookingStatuses: статусы, которые занимают инвентарь.
var ActiveBookingStatuses = []BookingStatus{BookingStatusConfirmed, BookingStatusOut}

// IsActive: CONFIRMED и OUT держат позиции, RETURNED и CANCELLED не держат.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusConfirmed || s == BookingStatusOut
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusOut, BookingStatusReturned, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo: CONFIRMED→OUT→RETURNED, CONFIRMED|OUT→CANCELLED.
// RETURNED и CANCELLED конечные.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusConfirmed:
		return next == BookingStatusOut || next == BookingStatusCancelled
	case BookingStatusOut:
		return next == BookingStatusReturned || next == BookingStatusCancelled
	default:
		return false
	}
}

// bookings
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Включительный интервал дат проката.
	StartDate datatypes.Date `gorm:"type:date;not null;index"`
	EndDate   datatypes.Date `gorm:"type:date;not null;index"`

	Status BookingStatus `gorm:"type:varchar(32);not null;default:'CONFIRMED';index"`

	TotalPrice     *float64        `gorm:"type:numeric(12,2)"`
	AdvancePayment *float64        `gorm:"type:numeric(12,2)"`
	PaymentDueDate *datatypes.Date `gorm:"type:date"`
	Notes          string          `gorm:"type:text"`
	Color          string          `gorm:"type:varchar(32)"`

	CancelledAt *time.Time `gorm:"type:timestamp with time zone"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`

	Customer  *Customer         `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	LineItems []BookingLineItem `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Payments  []Payment         `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Range возвращает даты брони как календарный интервал (полночь UTC).
func (b *Booking) Range() calendar.DateRange {
	return calendar.DateRange{
		Start: calendar.DateOf(time.Time(b.StartDate)),
		End:   calendar.DateOf(time.Time(b.EndDate)),
	}
}

// SetRange записывает интервал в поля модели.
func (b *Booking) SetRange(r calendar.DateRange) {
	b.StartDate = datatypes.Date(calendar.DateOf(r.Start))
	b.EndDate = datatypes.Date(calendar.DateOf(r.End))
}

// QuantityOf: количество позиции itemID в брони (0, если её нет).
func (b *Booking) QuantityOf(itemID uuid.UUID) int {
	for _, li := range b.LineItems {
		if li.ItemID == itemID {
			return li.Quantity
		}
	}
	return 0
}

// booking_line_items: одна позиция внутри брони. Пара (booking_id, item_id) уникальна.
type BookingLineItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_booking_line_items_booking_item"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_booking_line_items_booking_item;index"`
	Quantity  int       `gorm:"not null;check:chk_booking_line_items_quantity,quantity >= 1"`

	Item *Item `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (li *BookingLineItem) BeforeCreate(*gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}
