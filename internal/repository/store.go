package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store собирает репозитории поверх одного *gorm.DB (или транзакции).
type Store struct {
	db *gorm.DB

	Items     ItemRepository
	Customers CustomerRepository
	Bookings  BookingRepository
	Payments  PaymentRepository
	Events    EventRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Items:     NewGormItemRepository(db),
		Customers: NewGormCustomerRepository(db),
		Bookings:  NewGormBookingRepository(db),
		Payments:  NewGormPaymentRepository(db),
		Events:    NewGormEventRepository(db),
	}
}

// Transaction выполняет fn с репозиториями, привязанными к одной транзакции.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
