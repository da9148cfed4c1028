package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/model"
)

func TestDaySnapshot(t *testing.T) {
	chair := newItem("Chair", 10)
	tent := newItem("Tent", 2)
	a := newBooking(t, model.BookingStatusConfirmed, "2025-01-01", "2025-01-05", line(chair, 6))
	b := newBooking(t, model.BookingStatusOut, "2025-01-03", "2025-01-03", line(tent, 2), line(chair, 1))
	c := newBooking(t, model.BookingStatusReturned, "2025-01-03", "2025-01-03", line(tent, 1))
	d := newBooking(t, model.BookingStatusConfirmed, "2025-01-04", "2025-01-06", line(chair, 2))
	bookings := []model.Booking{a, b, c, d}

	snap := DaySnapshot(mustDate(t, "2025-01-03"), []model.Item{chair, tent}, bookings)

	assert.Equal(t, "2025-01-03", calendar.FormatDate(snap.Date))
	require.Len(t, snap.ActiveBookings, 2)
	assert.Equal(t, a.ID, snap.ActiveBookings[0].ID)
	assert.Equal(t, b.ID, snap.ActiveBookings[1].ID)

	require.Len(t, snap.Table, 2)
	assert.Equal(t, 7, snap.Table[0].Reserved)
	assert.Equal(t, 3, snap.Table[0].Remaining)
	assert.Equal(t, 2, snap.Table[1].Reserved)
	assert.Equal(t, 0, snap.Table[1].Remaining)
}

func TestDaySnapshot_MatchesRangeCalculator(t *testing.T) {
	chair, _, bookings := chairFixture(t)
	day := mustDate(t, "2025-01-05")

	snap := DaySnapshot(day, []model.Item{chair}, bookings)
	direct := Calculate([]model.Item{chair}, calendar.Day(day), bookings, nil)
	assert.Equal(t, direct, snap.Table)
}

func TestDaySnapshot_TimeOfDayIgnored(t *testing.T) {
	chair, _, bookings := chairFixture(t)
	loc := time.FixedZone("UTC-8", -8*60*60)
	// 2025-01-05 22:00 in UTC-8 is already 2025-01-06 in UTC; the local calendar day wins.
	local := time.Date(2025, 1, 5, 22, 0, 0, 0, loc)

	snap := DaySnapshot(local, []model.Item{chair}, bookings)
	assert.Equal(t, "2025-01-05", calendar.FormatDate(snap.Date))
	assert.Len(t, snap.ActiveBookings, 1)
}

func TestDaySnapshot_NoBookings(t *testing.T) {
	chair := newItem("Chair", 3)

	snap := DaySnapshot(mustDate(t, "2025-06-01"), []model.Item{chair}, nil)
	assert.NotNil(t, snap.ActiveBookings)
	assert.Empty(t, snap.ActiveBookings)
	require.Len(t, snap.Table, 1)
	assert.Equal(t, 3, snap.Table[0].Remaining)
}
