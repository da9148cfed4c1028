package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/config"
	"github.com/Leganyst/rental-inventory/internal/db"
	"github.com/Leganyst/rental-inventory/internal/model"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := db.NewGormDB(&config.DBConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewStore(gdb)
}

func seedItem(t *testing.T, s *Store, name string, total int) *model.Item {
	t.Helper()
	item := &model.Item{Name: name, Unit: "pcs", TotalQuantity: total}
	require.NoError(t, s.Items.Create(context.Background(), item))
	return item
}

func seedCustomer(t *testing.T, s *Store) *model.Customer {
	t.Helper()
	c := &model.Customer{Name: "Ivan", Phone: "+7 (900) 123-45-67"}
	require.NoError(t, s.Customers.Create(context.Background(), c))
	return c
}

func seedBooking(t *testing.T, s *Store, customer *model.Customer, status model.BookingStatus, start, end string, lines ...model.BookingLineItem) *model.Booking {
	t.Helper()
	r, err := calendar.ParseDateRange(start, end)
	require.NoError(t, err)
	b := &model.Booking{CustomerID: customer.ID, Status: status, LineItems: lines}
	b.SetRange(r)
	require.NoError(t, s.Bookings.Create(context.Background(), b))
	return b
}

func TestItemRepository_CRUD(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	chair := seedItem(t, s, "Chair", 10)
	seedItem(t, s, "Armchair", 2)
	assert.NotEqual(t, uuid.Nil, chair.ID)

	items, err := s.Items.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Armchair", items[0].Name)

	price := 12.5
	chair.TotalQuantity = 12
	chair.Price = &price
	require.NoError(t, s.Items.Update(ctx, chair))

	got, err := s.Items.GetByID(ctx, chair.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.TotalQuantity)
	require.NotNil(t, got.Price)
	assert.InDelta(t, 12.5, *got.Price, 0.001)

	byIDs, err := s.Items.LockByIDs(ctx, []uuid.UUID{chair.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)

	require.NoError(t, s.Items.Delete(ctx, chair.ID))
	_, err = s.Items.GetByID(ctx, chair.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, s.Items.Delete(ctx, chair.ID), gorm.ErrRecordNotFound)
}

func TestCustomerRepository_FindByPhone(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	c := seedCustomer(t, s)

	assert.Equal(t, "79001234567", c.Phone)

	found, err := s.Customers.FindByPhone(ctx, "7-900-123-45-67")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)

	_, err = s.Customers.FindByPhone(ctx, "   ")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookingRepository_ListActiveOverlapping(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	chair := seedItem(t, s, "Chair", 10)
	c := seedCustomer(t, s)

	a := seedBooking(t, s, c, model.BookingStatusConfirmed, "2025-01-01", "2025-01-05", model.BookingLineItem{ItemID: chair.ID, Quantity: 6})
	seedBooking(t, s, c, model.BookingStatusCancelled, "2025-01-01", "2025-01-05", model.BookingLineItem{ItemID: chair.ID, Quantity: 8})
	out := seedBooking(t, s, c, model.BookingStatusOut, "2025-01-05", "2025-01-07", model.BookingLineItem{ItemID: chair.ID, Quantity: 1})
	seedBooking(t, s, c, model.BookingStatusConfirmed, "2025-01-06", "2025-01-09", model.BookingLineItem{ItemID: chair.ID, Quantity: 2})

	r, _ := calendar.ParseDateRange("2025-01-03", "2025-01-05")
	active, err := s.Bookings.ListActiveOverlapping(ctx, r)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, a.ID, active[0].ID)
	assert.Equal(t, out.ID, active[1].ID)
	require.Len(t, active[0].LineItems, 1)
	assert.Equal(t, 6, active[0].LineItems[0].Quantity)
	assert.Equal(t, "2025-01-01..2025-01-05", active[0].Range().String())

	all, err := s.Bookings.ListByRange(ctx, r)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	everything, err := s.Bookings.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, everything, 4)

	n, err := s.Bookings.CountByItem(ctx, chair.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	n, err = s.Bookings.CountByItem(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBookingRepository_UpdateReplacesLineItems(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	chair := seedItem(t, s, "Chair", 10)
	table := seedItem(t, s, "Table", 3)
	c := seedCustomer(t, s)

	b := seedBooking(t, s, c, model.BookingStatusConfirmed, "2025-01-01", "2025-01-05",
		model.BookingLineItem{ItemID: chair.ID, Quantity: 6},
		model.BookingLineItem{ItemID: table.ID, Quantity: 1},
	)

	r, _ := calendar.ParseDateRange("2025-01-02", "2025-01-03")
	b.SetRange(r)
	b.Notes = "moved"
	b.LineItems = []model.BookingLineItem{{ItemID: chair.ID, Quantity: 9}}
	require.NoError(t, s.Bookings.Update(ctx, b))

	got, err := s.Bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "moved", got.Notes)
	assert.Equal(t, "2025-01-02..2025-01-03", got.Range().String())
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, 9, got.QuantityOf(chair.ID))
	assert.Zero(t, got.QuantityOf(table.ID))
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	chair := seedItem(t, s, "Chair", 10)
	c := seedCustomer(t, s)
	b := seedBooking(t, s, c, model.BookingStatusConfirmed, "2025-01-01", "2025-01-05", model.BookingLineItem{ItemID: chair.ID, Quantity: 1})

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Bookings.UpdateStatus(ctx, b.ID, model.BookingStatusCancelled, &now))

	got, err := s.Bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, got.Status)
	require.NotNil(t, got.CancelledAt)

	err = s.Bookings.UpdateStatus(ctx, uuid.New(), model.BookingStatusOut, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPaymentAndEventRepositories(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	chair := seedItem(t, s, "Chair", 10)
	c := seedCustomer(t, s)
	b := seedBooking(t, s, c, model.BookingStatusConfirmed, "2025-01-01", "2025-01-05", model.BookingLineItem{ItemID: chair.ID, Quantity: 1})

	require.NoError(t, s.Payments.Create(ctx, &model.Payment{BookingID: b.ID, Amount: 50, PaidAt: datatypes.Date(mustDate(t, "2025-01-02"))}))
	require.NoError(t, s.Payments.Create(ctx, &model.Payment{BookingID: b.ID, Amount: 20, PaidAt: datatypes.Date(mustDate(t, "2025-01-01"))}))

	payments, err := s.Payments.ListByBooking(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.InDelta(t, 20, payments[0].Amount, 0.001)

	require.NoError(t, s.Events.Create(ctx, &model.Event{EventType: model.EventTypeBookingCreated, BookingID: &b.ID}))
	events, err := s.Events.ListByBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	byType, err := s.Events.ListByType(ctx, model.EventTypeBookingCreated, 10)
	require.NoError(t, err)
	assert.Len(t, byType, 1)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *Store) error {
		if err := tx.Items.Create(ctx, &model.Item{Name: "Tent", Unit: "pcs", TotalQuantity: 1}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	items, err := s.Items.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(s)
	require.NoError(t, err)
	return d
}
