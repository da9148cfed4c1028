package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/rental-inventory/internal/model"
)

type CustomerRepository interface {
	List(ctx context.Context) ([]model.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*model.Customer, error)
	Create(ctx context.Context, customer *model.Customer) error
	Update(ctx context.Context, customer *model.Customer) error
}

type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) List(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *GormCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// NormalizePhone оставляет только цифры, форматирование игнорируется.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	b := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		if c >= '0' && c <= '9' {
			b = append(b, c)
		}
	}
	return string(b)
}

func (r *GormCustomerRepository) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	n := NormalizePhone(phone)
	if n == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var c model.Customer
	if err := r.db.WithContext(ctx).Where("phone = ?", n).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	customer.Phone = NormalizePhone(customer.Phone)
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *GormCustomerRepository) Update(ctx context.Context, customer *model.Customer) error {
	customer.Phone = NormalizePhone(customer.Phone)
	return r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", customer.ID).
		Select("name", "phone", "email", "notes", "updated_at").
		Updates(customer).
		Error
}
