package httpapi

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/rental-inventory/internal/availability"
	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/model"
	"github.com/Leganyst/rental-inventory/internal/service"
)

// Запросы

type ItemRequest struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Unit          string   `json:"unit" validate:"omitempty,max=32"`
	TotalQuantity *int     `json:"total_quantity" validate:"required,gte=0"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	Notes         string   `json:"notes"`
}

func (req ItemRequest) input() service.ItemInput {
	return service.ItemInput{
		Name:          req.Name,
		Unit:          req.Unit,
		TotalQuantity: *req.TotalQuantity,
		Price:         req.Price,
		Notes:         req.Notes,
	}
}

type CustomerRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
	Email string `json:"email" validate:"omitempty,email,max=255"`
	Notes string `json:"notes"`
}

func (req CustomerRequest) input() service.CustomerInput {
	return service.CustomerInput{Name: req.Name, Phone: req.Phone, Email: req.Email, Notes: req.Notes}
}

// Количество проверяет движок, чтобы ошибка была одинаковой для API и сервиса.
type LineRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity"`
}

type BookingRequest struct {
	CustomerID     string        `json:"customer_id" validate:"required,uuid"`
	StartDate      string        `json:"start_date" validate:"required"`
	EndDate        string        `json:"end_date" validate:"required"`
	Lines          []LineRequest `json:"lines" validate:"dive"`
	TotalPrice     *float64      `json:"total_price" validate:"omitempty,gte=0"`
	AdvancePayment *float64      `json:"advance_payment" validate:"omitempty,gte=0"`
	PaymentDueDate string        `json:"payment_due_date"`
	Notes          string        `json:"notes"`
	Color          string        `json:"color" validate:"omitempty,max=32"`
}

func (req BookingRequest) input() (service.BookingInput, error) {
	r, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return service.BookingInput{}, err
	}
	lines, err := toLineRequests(req.Lines)
	if err != nil {
		return service.BookingInput{}, err
	}

	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return service.BookingInput{}, err
	}

	in := service.BookingInput{
		CustomerID:     customerID,
		Range:          r,
		Lines:          lines,
		TotalPrice:     req.TotalPrice,
		AdvancePayment: req.AdvancePayment,
		Notes:          req.Notes,
		Color:          req.Color,
	}
	if req.PaymentDueDate != "" {
		due, err := calendar.ParseDate(req.PaymentDueDate)
		if err != nil {
			return service.BookingInput{}, err
		}
		in.PaymentDueDate = &due
	}
	return in, nil
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMED OUT RETURNED CANCELLED"`
}

type PaymentRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
	PaidAt string  `json:"paid_at"`
	Method string  `json:"method" validate:"omitempty,max=32"`
	Notes  string  `json:"notes"`
}

func (req PaymentRequest) input() (service.PaymentInput, error) {
	in := service.PaymentInput{Amount: req.Amount, Method: req.Method, Notes: req.Notes}
	if req.PaidAt != "" {
		paidAt, err := calendar.ParseDate(req.PaidAt)
		if err != nil {
			return service.PaymentInput{}, err
		}
		in.PaidAt = paidAt
	}
	return in, nil
}

type FeasibilityRequest struct {
	StartDate        string        `json:"start_date" validate:"required"`
	EndDate          string        `json:"end_date" validate:"required"`
	Lines            []LineRequest `json:"lines" validate:"dive"`
	ExcludeBookingID string        `json:"exclude_booking_id" validate:"omitempty,uuid"`
}

func (req FeasibilityRequest) request() (availability.Request, error) {
	r, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return availability.Request{}, err
	}
	lines, err := toLineRequests(req.Lines)
	if err != nil {
		return availability.Request{}, err
	}
	out := availability.Request{Range: r, Lines: lines}
	if req.ExcludeBookingID != "" {
		id, err := parseID(req.ExcludeBookingID)
		if err != nil {
			return availability.Request{}, err
		}
		out.ExcludeBookingID = &id
	}
	return out, nil
}

func toLineRequests(lines []LineRequest) ([]availability.LineRequest, error) {
	out := make([]availability.LineRequest, 0, len(lines))
	for _, l := range lines {
		id, err := parseID(l.ItemID)
		if err != nil {
			return nil, err
		}
		out = append(out, availability.LineRequest{ItemID: id, Quantity: l.Quantity})
	}
	return out, nil
}

var errInvalidID = fmt.Errorf("%w: malformed id", availability.ErrStructural)

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w %q", errInvalidID, s)
	}
	return id, nil
}

// parseRange разбирает обе даты, но порядок границ не проверяет: это делает движок.
func parseRange(start, end string) (calendar.DateRange, error) {
	s, err := calendar.ParseDate(start)
	if err != nil {
		return calendar.DateRange{}, err
	}
	e, err := calendar.ParseDate(end)
	if err != nil {
		return calendar.DateRange{}, err
	}
	return calendar.DateRange{Start: s, End: e}, nil
}

// Ответы

type Item struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Unit          string    `json:"unit"`
	TotalQuantity int       `json:"total_quantity"`
	Price         *float64  `json:"price,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toItem(i model.Item) Item {
	return Item{
		ID:            i.ID.String(),
		Name:          i.Name,
		Unit:          i.Unit,
		TotalQuantity: i.TotalQuantity,
		Price:         i.Price,
		Notes:         i.Notes,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

type Overbooking struct {
	BookingID string `json:"booking_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reserved  int    `json:"reserved"`
	Remaining int    `json:"remaining"`
}

type ItemUpdateResponse struct {
	Item       Item          `json:"item"`
	Overbooked []Overbooking `json:"overbooked"`
}

func toItemUpdate(i model.Item, over []service.Overbooking) ItemUpdateResponse {
	resp := ItemUpdateResponse{Item: toItem(i), Overbooked: make([]Overbooking, 0, len(over))}
	for _, o := range over {
		resp.Overbooked = append(resp.Overbooked, Overbooking{
			BookingID: o.BookingID.String(),
			StartDate: calendar.FormatDate(o.Range.Start),
			EndDate:   calendar.FormatDate(o.Range.End),
			Reserved:  o.Result.Reserved,
			Remaining: o.Result.Remaining,
		})
	}
	return resp
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomer(c model.Customer) Customer {
	return Customer{
		ID:        c.ID.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

type Line struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type Payment struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	PaidAt string  `json:"paid_at"`
	Method string  `json:"method,omitempty"`
	Notes  string  `json:"notes,omitempty"`
}

func toPayment(p model.Payment) Payment {
	return Payment{
		ID:     p.ID.String(),
		Amount: p.Amount,
		PaidAt: calendar.FormatDate(time.Time(p.PaidAt)),
		Method: p.Method,
		Notes:  p.Notes,
	}
}

type Booking struct {
	ID             string     `json:"id"`
	CustomerID     string     `json:"customer_id"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	Status         string     `json:"status"`
	TotalPrice     *float64   `json:"total_price,omitempty"`
	AdvancePayment *float64   `json:"advance_payment,omitempty"`
	PaymentDueDate string     `json:"payment_due_date,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Color          string     `json:"color,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	Lines          []Line     `json:"lines"`
	Payments       []Payment  `json:"payments,omitempty"`
}

func toBooking(b model.Booking) Booking {
	r := b.Range()
	out := Booking{
		ID:             b.ID.String(),
		CustomerID:     b.CustomerID.String(),
		StartDate:      calendar.FormatDate(r.Start),
		EndDate:        calendar.FormatDate(r.End),
		Status:         string(b.Status),
		TotalPrice:     b.TotalPrice,
		AdvancePayment: b.AdvancePayment,
		Notes:          b.Notes,
		Color:          b.Color,
		CancelledAt:    b.CancelledAt,
		Lines:          make([]Line, 0, len(b.LineItems)),
	}
	if b.PaymentDueDate != nil {
		out.PaymentDueDate = calendar.FormatDate(time.Time(*b.PaymentDueDate))
	}
	for _, li := range b.LineItems {
		out.Lines = append(out.Lines, Line{ItemID: li.ItemID.String(), Quantity: li.Quantity})
	}
	for _, p := range b.Payments {
		out.Payments = append(out.Payments, toPayment(p))
	}
	return out
}

func toBookings(bookings []model.Booking) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBooking(b))
	}
	return out
}

type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	BookingID string    `json:"booking_id,omitempty"`
	ItemID    string    `json:"item_id,omitempty"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toEvent(e model.Event) Event {
	out := Event{ID: e.ID.String(), Type: string(e.EventType), Details: e.Details, CreatedAt: e.CreatedAt}
	if e.BookingID != nil {
		out.BookingID = e.BookingID.String()
	}
	if e.ItemID != nil {
		out.ItemID = e.ItemID.String()
	}
	return out
}

type Availability struct {
	ItemID     string `json:"item_id"`
	ItemName   string `json:"item_name"`
	Unit       string `json:"unit"`
	Total      int    `json:"total"`
	Reserved   int    `json:"reserved"`
	Remaining  int    `json:"remaining"`
	Overbooked bool   `json:"overbooked"`
}

func toAvailability(results []availability.Result) []Availability {
	out := make([]Availability, 0, len(results))
	for _, r := range results {
		out = append(out, Availability{
			ItemID:     r.ItemID.String(),
			ItemName:   r.ItemName,
			Unit:       r.Unit,
			Total:      r.Total,
			Reserved:   r.Reserved,
			Remaining:  r.Remaining,
			Overbooked: r.Overbooked(),
		})
	}
	return out
}

type AvailabilityResponse struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Items     []Availability `json:"items"`
}

type SummaryResponse struct {
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	Items      []Availability `json:"items"`
	Overbooked []Availability `json:"overbooked"`
}

type LineDecision struct {
	ItemID      string `json:"item_id"`
	ItemName    string `json:"item_name,omitempty"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
	Total       int    `json:"total"`
	Reserved    int    `json:"reserved"`
	Satisfiable bool   `json:"satisfiable"`
	Reason      string `json:"reason,omitempty"`
	Message     string `json:"message"`
}

func toLineDecisions(lines []availability.LineDecision) []LineDecision {
	out := make([]LineDecision, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineDecision{
			ItemID:      l.ItemID.String(),
			ItemName:    l.ItemName,
			Requested:   l.Requested,
			Available:   l.Available,
			Total:       l.Total,
			Reserved:    l.Reserved,
			Satisfiable: l.Satisfiable,
			Reason:      string(l.Reason),
			Message:     l.Message(),
		})
	}
	return out
}

type DecisionResponse struct {
	AllSatisfiable bool           `json:"all_satisfiable"`
	Lines          []LineDecision `json:"lines"`
}

type SnapshotResponse struct {
	Date           string         `json:"date"`
	ActiveBookings []Booking      `json:"active_bookings"`
	Table          []Availability `json:"table"`
}
