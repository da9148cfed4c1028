package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Leganyst/rental-inventory/internal/availability"
	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/model"
)

var (
	errRangeRequired = fmt.Errorf("%w: both start and end dates are required", availability.ErrStructural)
	errInvalidLimit  = fmt.Errorf("%w: limit must be a positive integer", availability.ErrStructural)
)

// ListBookings: без from/to отдаёт все брони, иначе пересекающие интервал.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")

	var dr *calendar.DateRange
	if from != "" || to != "" {
		if from == "" || to == "" {
			h.respondServiceError(w, r, errRangeRequired)
			return
		}
		parsed, err := parseRange(from, to)
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		dr = &parsed
	}

	bookings, err := h.bookings.ListBookings(r.Context(), dr)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	page, size := pageParams(r)
	respondJSON(w, http.StatusOK, calendar.Paginate(toBookings(bookings), page, size))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	b, err := h.bookings.GetBooking(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBooking(*b))
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := h.decode(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	b, err := h.bookings.CreateBooking(r.Context(), in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBooking(*b))
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	var req BookingRequest
	if err := h.decode(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	b, err := h.bookings.UpdateBooking(r.Context(), id, in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBooking(*b))
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	var req StatusRequest
	if err := h.decode(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	b, err := h.bookings.ChangeStatus(r.Context(), id, model.BookingStatus(req.Status))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBooking(*b))
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	var req PaymentRequest
	if err := h.decode(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	p, err := h.bookings.RecordPayment(r.Context(), id, in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPayment(*p))
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	payments, err := h.bookings.ListPayments(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	out := make([]Payment, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPayment(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	events, err := h.bookings.ListEvents(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, toEvent(e))
	}
	respondJSON(w, http.StatusOK, out)
}

// ListEventsByType: ?type обязателен, ?limit необязателен.
func (h *Handler) ListEventsByType(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.respondServiceError(w, r, errInvalidLimit)
			return
		}
		limit = n
	}

	events, err := h.bookings.ListEventsByType(r.Context(), model.EventType(q.Get("type")), limit)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, toEvent(e))
	}
	respondJSON(w, http.StatusOK, out)
}

// CheckAvailability: ?start&end обязательны; items=id,id (пустое значение: ни одной позиции); exclude=id.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dr, err := parseRange(q.Get("start"), q.Get("end"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	query := availability.Query{Range: dr}
	if raw, ok := q["items"]; ok {
		query.ItemIDs = []uuid.UUID{}
		for _, part := range strings.Split(strings.Join(raw, ","), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := parseID(part)
			if err != nil {
				h.respondServiceError(w, r, err)
				return
			}
			query.ItemIDs = append(query.ItemIDs, id)
		}
	}
	if ex := q.Get("exclude"); ex != "" {
		id, err := parseID(ex)
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		query.ExcludeBookingID = &id
	}

	results, err := h.bookings.CheckAvailability(r.Context(), query)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, AvailabilityResponse{
		StartDate: calendar.FormatDate(dr.Start),
		EndDate:   calendar.FormatDate(dr.End),
		Items:     toAvailability(results),
	})
}

// CheckFeasibility всегда отвечает 200 с решением, если запрос структурно корректен.
func (h *Handler) CheckFeasibility(w http.ResponseWriter, r *http.Request) {
	var req FeasibilityRequest
	if err := h.decode(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	ar, err := req.request()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	d, err := h.bookings.CheckFeasibility(r.Context(), ar)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, DecisionResponse{
		AllSatisfiable: d.AllSatisfiable,
		Lines:          toLineDecisions(d.Lines),
	})
}

func (h *Handler) InventorySummary(w http.ResponseWriter, r *http.Request) {
	dr, err := parseRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	s, err := h.bookings.InventorySummary(r.Context(), dr)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, SummaryResponse{
		StartDate:  calendar.FormatDate(dr.Start),
		EndDate:    calendar.FormatDate(dr.End),
		Items:      toAvailability(s.Items),
		Overbooked: toAvailability(s.Overbooked),
	})
}

func (h *Handler) DaySnapshot(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	snap, err := h.bookings.DaySnapshot(r.Context(), date)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, SnapshotResponse{
		Date:           calendar.FormatDate(snap.Date),
		ActiveBookings: toBookings(snap.ActiveBookings),
		Table:          toAvailability(snap.Table),
	})
}
