package availability

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/model"
)

func TestValidate_RequestMoreThanAvailable(t *testing.T) {
	chair, _, bookings := chairFixture(t)

	d, err := Validate(Request{
		Range: dateRange(t, "2025-01-03", "2025-01-04"),
		Lines: []LineRequest{{ItemID: chair.ID, Quantity: 5}},
	}, []model.Item{chair}, bookings)
	require.NoError(t, err)

	assert.False(t, d.AllSatisfiable)
	require.Len(t, d.Lines, 1)
	l := d.Lines[0]
	assert.Equal(t, 5, l.Requested)
	assert.Equal(t, 4, l.Available)
	assert.Equal(t, 10, l.Total)
	assert.Equal(t, 6, l.Reserved)
	assert.Equal(t, ReasonInsufficient, l.Reason)
	assert.Equal(t, "Chair: requested 5, only 4 available (10 total, 6 rented)", l.Message())
}

func TestValidate_ExactlyAvailable(t *testing.T) {
	chair, _, bookings := chairFixture(t)

	d, err := Validate(Request{
		Range: dateRange(t, "2025-01-03", "2025-01-04"),
		Lines: []LineRequest{{ItemID: chair.ID, Quantity: 4}},
	}, []model.Item{chair}, bookings)
	require.NoError(t, err)

	assert.True(t, d.AllSatisfiable)
	assert.NoError(t, d.Err())
	assert.Empty(t, d.Unsatisfied())
}

func TestValidate_EditExcludesItself(t *testing.T) {
	chair, a, bookings := chairFixture(t)

	d, err := Validate(Request{
		Range:            dateRange(t, "2025-01-03", "2025-01-04"),
		Lines:            []LineRequest{{ItemID: chair.ID, Quantity: 9}},
		ExcludeBookingID: &a.ID,
	}, []model.Item{chair}, bookings)
	require.NoError(t, err)

	assert.True(t, d.AllSatisfiable)
	assert.Equal(t, 10, d.Lines[0].Available)
}

func TestValidate_UnchangedEditIsAlwaysSatisfiable(t *testing.T) {
	chair := newItem("Chair", 6)
	table := newItem("Table", 2)
	b := newBooking(t, model.BookingStatusConfirmed, "2025-05-01", "2025-05-03", line(chair, 4), line(table, 2))
	other := newBooking(t, model.BookingStatusOut, "2025-05-02", "2025-05-02", line(chair, 2))
	bookings := []model.Booking{b, other}

	req := Request{Range: b.Range(), ExcludeBookingID: &b.ID}
	for _, li := range b.LineItems {
		req.Lines = append(req.Lines, LineRequest{ItemID: li.ItemID, Quantity: li.Quantity})
	}

	d, err := Validate(req, []model.Item{chair, table}, bookings)
	require.NoError(t, err)
	assert.True(t, d.AllSatisfiable)
}

func TestValidate_EmptyRequestNeverSatisfiable(t *testing.T) {
	chair, _, bookings := chairFixture(t)

	d, err := Validate(Request{Range: dateRange(t, "2025-01-03", "2025-01-04")}, []model.Item{chair}, bookings)
	require.NoError(t, err)
	assert.False(t, d.AllSatisfiable)
	assert.Empty(t, d.Lines)
	assert.ErrorIs(t, d.Err(), ErrUnsatisfiable)
}

func TestValidate_ItemNotFound(t *testing.T) {
	chair, _, bookings := chairFixture(t)
	missing := uuid.New()

	d, err := Validate(Request{
		Range: dateRange(t, "2025-01-03", "2025-01-04"),
		Lines: []LineRequest{{ItemID: chair.ID, Quantity: 1}, {ItemID: missing, Quantity: 1}},
	}, []model.Item{chair}, bookings)
	require.NoError(t, err)

	assert.False(t, d.AllSatisfiable)
	require.Len(t, d.Lines, 2)
	assert.True(t, d.Lines[0].Satisfiable)
	assert.Equal(t, ReasonItemNotFound, d.Lines[1].Reason)
	assert.Equal(t, []uuid.UUID{missing}, d.MissingItems())
}

func TestValidate_OverbookedItemBlocksApproval(t *testing.T) {
	chair := newItem("Chair", 2)
	bookings := []model.Booking{
		newBooking(t, model.BookingStatusConfirmed, "2025-01-01", "2025-01-01", line(chair, 3)),
	}

	d, err := Validate(Request{
		Range: dateRange(t, "2025-01-01", "2025-01-01"),
		Lines: []LineRequest{{ItemID: chair.ID, Quantity: 1}},
	}, []model.Item{chair}, bookings)
	require.NoError(t, err)
	assert.False(t, d.AllSatisfiable)
	assert.Equal(t, -1, d.Lines[0].Available)
}

func TestValidate_StructuralErrors(t *testing.T) {
	chair, _, bookings := chairFixture(t)
	items := []model.Item{chair}
	good := dateRange(t, "2025-01-03", "2025-01-04")

	cases := []struct {
		name string
		req  Request
		want error
	}{
		{
			name: "end before start",
			req: Request{
				Range: calendar.DateRange{Start: mustDate(t, "2025-01-04"), End: mustDate(t, "2025-01-03")},
				Lines: []LineRequest{{ItemID: chair.ID, Quantity: 1}},
			},
			want: ErrInvalidRange,
		},
		{
			name: "missing dates",
			req:  Request{Lines: []LineRequest{{ItemID: chair.ID, Quantity: 1}}},
			want: ErrInvalidRange,
		},
		{
			name: "duplicate item",
			req:  Request{Range: good, Lines: []LineRequest{{ItemID: chair.ID, Quantity: 1}, {ItemID: chair.ID, Quantity: 2}}},
			want: ErrDuplicateItem,
		},
		{
			name: "zero quantity",
			req:  Request{Range: good, Lines: []LineRequest{{ItemID: chair.ID, Quantity: 0}}},
			want: ErrInvalidQuantity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.req, items, bookings)
			require.ErrorIs(t, err, tc.want)
			assert.True(t, IsStructural(err))
		})
	}
}

func TestUnsatisfiableError_Message(t *testing.T) {
	chair, _, bookings := chairFixture(t)

	d, err := Validate(Request{
		Range: dateRange(t, "2025-01-01", "2025-01-01"),
		Lines: []LineRequest{{ItemID: chair.ID, Quantity: 7}},
	}, []model.Item{chair}, bookings)
	require.NoError(t, err)

	uerr := d.Err()
	require.ErrorIs(t, uerr, ErrUnsatisfiable)
	assert.Contains(t, uerr.Error(), "requested 7, only 4 available (10 total, 6 rented)")

	var ue *UnsatisfiableError
	require.ErrorAs(t, uerr, &ue)
	assert.Len(t, ue.Lines, 1)
}
