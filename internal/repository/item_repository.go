package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/rental-inventory/internal/db"
	"github.com/Leganyst/rental-inventory/internal/model"
)

type ItemRepository interface {
	// Все позиции, по имени.
	List(ctx context.Context) ([]model.Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	// Позиции по списку id; отсутствующие id просто не попадают в ответ.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error)
	// То же, но с блокировкой строк до конца транзакции (где СУБД это умеет).
	LockByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error)
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error) {
	return r.listByIDs(r.db.WithContext(ctx), ids)
}

func (r *GormItemRepository) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error) {
	q := r.db.WithContext(ctx)
	if db.SupportsRowLocks(q) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.listByIDs(q, ids)
}

func (r *GormItemRepository) listByIDs(q *gorm.DB, ids []uuid.UUID) ([]model.Item, error) {
	if len(ids) == 0 {
		return []model.Item{}, nil
	}
	var items []model.Item
	// порядок по id, чтобы все транзакции брали блокировки в одном порядке
	if err := q.Where("id IN ?", ids).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormItemRepository) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormItemRepository) Update(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", item.ID).
		Select("name", "unit", "total_quantity", "price", "notes", "updated_at").
		Updates(item).
		Error
}

func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Item{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
