package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Тип события аудита.
type EventType string

const (
	EventTypeBookingCreated       EventType = "booking_created"
	EventTypeBookingUpdated       EventType = "booking_updated"
	EventTypeBookingStatusChanged EventType = "booking_status_changed"
	EventTypeBookingCancelled     EventType = "booking_cancelled"
	EventTypePaymentRecorded      EventType = "payment_recorded"
	EventTypeOverbookingDetected  EventType = "overbooking_detected"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventTypeBookingCreated, EventTypeBookingUpdated, EventTypeBookingStatusChanged,
		EventTypeBookingCancelled, EventTypePaymentRecorded, EventTypeOverbookingDetected:
		return true
	}
	return false
}

// events: журнал аудита бронирований.
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	BookingID *uuid.UUID `gorm:"type:uuid;index"`
	ItemID    *uuid.UUID `gorm:"type:uuid;index"`

	Details string `gorm:"type:text"`

	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
