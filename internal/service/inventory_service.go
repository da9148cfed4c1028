package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Leganyst/rental-inventory/internal/availability"
	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/lock"
	"github.com/Leganyst/rental-inventory/internal/model"
	"github.com/Leganyst/rental-inventory/internal/repository"
)

const defaultUnit = "pcs"

type ItemInput struct {
	Name          string
	Unit          string
	TotalQuantity int
	Price         *float64
	Notes         string
}

func (in ItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.TotalQuantity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, in.TotalQuantity)
	}
	return nil
}

func (in ItemInput) apply(item *model.Item) {
	item.Name = strings.TrimSpace(in.Name)
	item.Unit = strings.TrimSpace(in.Unit)
	if item.Unit == "" {
		item.Unit = defaultUnit
	}
	item.TotalQuantity = in.TotalQuantity
	item.Price = in.Price
	item.Notes = in.Notes
}

type CustomerInput struct {
	Name  string
	Phone string
	Email string
	Notes string
}

// Overbooking: активная бронь, для интервала которой остаток позиции ушёл в минус.
type Overbooking struct {
	BookingID uuid.UUID
	Range     calendar.DateRange
	Result    availability.Result
}

// InventoryService: справочники позиций и клиентов.
type InventoryService struct {
	store  *repository.Store
	locker lock.Locker
	log    *zap.Logger
}

func NewInventoryService(store *repository.Store, locker lock.Locker, log *zap.Logger) *InventoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InventoryService{store: store, locker: locker, log: log.Named("inventory")}
}

func (s *InventoryService) ListItems(ctx context.Context) ([]model.Item, error) {
	return s.store.Items.List(ctx)
}

func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	item, err := s.store.Items.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "item", id)
	}
	return item, nil
}

func (s *InventoryService) CreateItem(ctx context.Context, in ItemInput) (*model.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item := &model.Item{}
	in.apply(item)
	if err := s.store.Items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.log.Info("item created", zap.String("item_id", item.ID.String()), zap.Int("total", item.TotalQuantity))
	return item, nil
}

// UpdateItem сохраняет позицию. Уменьшение количества ниже уже забронированного
// не запрещается: такие брони возвращаются, логируются и пишутся в аудит.
func (s *InventoryService) UpdateItem(ctx context.Context, id uuid.UUID, in ItemInput) (*model.Item, []Overbooking, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	unlock, err := s.locker.Lock(ctx, lock.ItemKey(id))
	if err != nil {
		return nil, nil, fmt.Errorf("lock item: %w", err)
	}
	defer unlock()

	var (
		item       *model.Item
		overbooked []Overbooking
	)
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		item, err = tx.Items.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "item", id)
		}
		in.apply(item)
		if err := tx.Items.Update(ctx, item); err != nil {
			return fmt.Errorf("update item: %w", err)
		}

		overbooked, err = s.detectOverbooking(ctx, tx, *item)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return item, overbooked, nil
}

func (s *InventoryService) detectOverbooking(ctx context.Context, tx *repository.Store, item model.Item) ([]Overbooking, error) {
	bookings, err := tx.Bookings.ListActiveByItem(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	out := []Overbooking{}
	for _, b := range bookings {
		r := b.Range()
		res := availability.Calculate([]model.Item{item}, r, bookings, nil)[0]
		if !res.Overbooked() {
			continue
		}
		out = append(out, Overbooking{BookingID: b.ID, Range: r, Result: res})

		s.log.Warn("overbooked item detected",
			zap.String("item_id", item.ID.String()),
			zap.String("booking_id", b.ID.String()),
			zap.Stringer("range", r),
			zap.Int("total", res.Total),
			zap.Int("reserved", res.Reserved),
		)
		itemID, bookingID := item.ID, b.ID
		err := tx.Events.Create(ctx, &model.Event{
			EventType: model.EventTypeOverbookingDetected,
			BookingID: &bookingID,
			ItemID:    &itemID,
			Details:   fmt.Sprintf("%s %s: %d reserved of %d", item.Name, r, res.Reserved, res.Total),
		})
		if err != nil {
			return nil, fmt.Errorf("record overbooking: %w", err)
		}
	}
	return out, nil
}

// DeleteItem запрещён, пока на позицию ссылается хоть одна бронь, включая закрытые:
// строки истории должны указывать на существующую позицию.
func (s *InventoryService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	unlock, err := s.locker.Lock(ctx, lock.ItemKey(id))
	if err != nil {
		return fmt.Errorf("lock item: %w", err)
	}
	defer unlock()

	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		n, err := tx.Bookings.CountByItem(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %d bookings", ErrItemInUse, n)
		}
		if err := tx.Items.Delete(ctx, id); err != nil {
			return notFound(err, "item", id)
		}
		s.log.Info("item deleted", zap.String("item_id", id.String()))
		return nil
	})
}

func (s *InventoryService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.store.Customers.List(ctx)
}

func (s *InventoryService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, err := s.store.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	return c, nil
}

func (s *InventoryService) CreateCustomer(ctx context.Context, in CustomerInput) (*model.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	c := &model.Customer{
		Name:  strings.TrimSpace(in.Name),
		Phone: in.Phone,
		Email: strings.TrimSpace(in.Email),
		Notes: in.Notes,
	}
	if err := s.store.Customers.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

func (s *InventoryService) UpdateCustomer(ctx context.Context, id uuid.UUID, in CustomerInput) (*model.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	c, err := s.store.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = in.Phone
	c.Email = strings.TrimSpace(in.Email)
	c.Notes = in.Notes
	if err := s.store.Customers.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return c, nil
}

// FindCustomerByPhone: поиск по номеру без учёта форматирования.
func (s *InventoryService) FindCustomerByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	c, err := s.store.Customers.FindByPhone(ctx, phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &availability.NotFoundError{Entity: "customer", ID: repository.NormalizePhone(phone)}
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
