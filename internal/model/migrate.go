package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей проката.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Item{},
		&Customer{},
		&Booking{},
		&BookingLineItem{},
		&Payment{},
		&Event{},
	)
}
