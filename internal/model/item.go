package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// items: позиции проката с фиксированным общим количеством.
type Item struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name string `gorm:"type:varchar(255);not null"`
	// Единица измерения для интерфейса, например "pcs".
	Unit string `gorm:"type:varchar(32);not null;default:'pcs'"`

	// Размер парка. Не может быть отрицательным.
	TotalQuantity int `gorm:"not null;default:0;check:chk_items_total_quantity,total_quantity >= 0"`

	Price *float64 `gorm:"type:numeric(12,2)"`
	Notes string   `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
