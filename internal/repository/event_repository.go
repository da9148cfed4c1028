package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/rental-inventory/internal/model"
)

// EventRepository: журнал аудита.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.Event, error)
	ListByType(ctx context.Context, eventType model.EventType, limit int) ([]model.Event, error)
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *GormEventRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *GormEventRepository) ListByType(ctx context.Context, eventType model.EventType, limit int) ([]model.Event, error) {
	var events []model.Event
	q := r.db.WithContext(ctx).
		Where("event_type = ?", eventType).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
