package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// payments: платежи по бронированию. Сверка не выполняется, только учёт.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;index"`

	Amount float64        `gorm:"type:numeric(12,2);not null"`
	PaidAt datatypes.Date `gorm:"type:date;not null"`
	Method string         `gorm:"type:varchar(32)"`
	Notes  string         `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
