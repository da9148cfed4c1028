package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/model"
)

type BookingRepository interface {
	// Создать бронь вместе с позициями.
	Create(ctx context.Context, booking *model.Booking) error
	// Обновить поля брони и целиком заменить её позиции.
	Update(ctx context.Context, booking *model.Booking) error
	// Бронь по ID с позициями и платежами.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// Обновить статус (cancelledAt выставляется при отмене).
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus, cancelledAt *time.Time) error
	// Активные брони (CONFIRMED, OUT), пересекающие интервал, с позициями.
	ListActiveOverlapping(ctx context.Context, r calendar.DateRange) ([]model.Booking, error)
	// Брони любого статуса, пересекающие интервал.
	ListByRange(ctx context.Context, r calendar.DateRange) ([]model.Booking, error)
	// Все брони, для состояния "фильтр по датам ещё не задан".
	ListAll(ctx context.Context) ([]model.Booking, error)
	// Активные брони, в которых есть позиция.
	ListActiveByItem(ctx context.Context, itemID uuid.UUID) ([]model.Booking, error)
	// Сколько активных броней ссылаются на позицию.
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *GormBookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Booking{}).
			Where("id = ?", booking.ID).
			Select(
				"customer_id", "start_date", "end_date", "status",
				"total_price", "advance_payment", "payment_due_date",
				"notes", "color", "cancelled_at", "updated_at",
			).
			Updates(booking).Error
		if err != nil {
			return err
		}

		if err := tx.Where("booking_id = ?", booking.ID).Delete(&model.BookingLineItem{}).Error; err != nil {
			return err
		}
		if len(booking.LineItems) == 0 {
			return nil
		}
		for i := range booking.LineItems {
			booking.LineItems[i].ID = uuid.Nil
			booking.LineItems[i].BookingID = booking.ID
		}
		return tx.Omit(clause.Associations).Create(&booking.LineItems).Error
	})
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC, created_at ASC") }).
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status model.BookingStatus,
	cancelledAt *time.Time,
) error {
	update := map[string]any{
		"status": status,
	}
	if cancelledAt != nil {
		update["cancelled_at"] = *cancelledAt
	}
	res := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormBookingRepository) ListActiveOverlapping(ctx context.Context, dr calendar.DateRange) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.overlapping(ctx, dr).
		Where("status IN ?", model.ActiveBookingStatuses).
		Preload("LineItems").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListByRange(ctx context.Context, dr calendar.DateRange) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := r.overlapping(ctx, dr).Preload("LineItems").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListAll(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Order("start_date ASC").
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListActiveByItem(ctx context.Context, itemID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("status IN ?", model.ActiveBookingStatuses).
		Where("id IN (?)", r.db.Model(&model.BookingLineItem{}).Select("booking_id").Where("item_id = ?", itemID)).
		Preload("LineItems").
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountByItem: сколько броней в любом статусе ссылается на позицию.
func (r *GormBookingRepository) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.BookingLineItem{}).
		Where("item_id = ?", itemID).
		Distinct("booking_id").
		Count(&n).Error
	return n, err
}

// overlapping: start_date <= dr.End AND end_date >= dr.Start, по возрастанию начала.
func (r *GormBookingRepository) overlapping(ctx context.Context, dr calendar.DateRange) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?",
			datatypes.Date(calendar.DateOf(dr.End)),
			datatypes.Date(calendar.DateOf(dr.Start)),
		).
		Order("start_date ASC").
		Order("created_at ASC")
}
