package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/rental-inventory/internal/availability"
	"github.com/Leganyst/rental-inventory/internal/service"
)

const maxRequestBodySize = 1 << 20 // 1MB

type Handler struct {
	bookings  *service.BookingService
	inventory *service.InventoryService
	validate  *validator.Validate
	log       *zap.Logger
}

func NewHandler(bookings *service.BookingService, inventory *service.InventoryService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		bookings:  bookings,
		inventory: inventory,
		validate:  validator.New(),
		log:       log.Named("http"),
	}
}

// NewRouter собирает chi-роутер со всеми маршрутами API.
func NewRouter(h *Handler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(MaxBodySize(maxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.ListItems)
			r.Post("/", h.CreateItem)
			r.Get("/{id}", h.GetItem)
			r.Put("/{id}", h.UpdateItem)
			r.Delete("/{id}", h.DeleteItem)
		})
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.CreateCustomer)
			r.Get("/{id}", h.GetCustomer)
			r.Put("/{id}", h.UpdateCustomer)
		})
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.ListBookings)
			r.Post("/", h.CreateBooking)
			r.Get("/{id}", h.GetBooking)
			r.Put("/{id}", h.UpdateBooking)
			r.Patch("/{id}/status", h.ChangeStatus)
			r.Get("/{id}/payments", h.ListPayments)
			r.Post("/{id}/payments", h.RecordPayment)
			r.Get("/{id}/events", h.ListEvents)
		})
		r.Get("/events", h.ListEventsByType)
		r.Get("/availability", h.CheckAvailability)
		r.Post("/availability/check", h.CheckFeasibility)
		r.Get("/inventory/summary", h.InventorySummary)
		r.Get("/calendar/{date}", h.DaySnapshot)
	})

	return r
}

// decode читает JSON-тело и прогоняет его через validator.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", availability.ErrStructural)
	}
	return h.validate.Struct(dst)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return parseID(chi.URLParam(r, "id"))
}

// pageParams: ?page&page_size, пустые и некорректные значения уходят в дефолты Paginate.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return page, size
}
