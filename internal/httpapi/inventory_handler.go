package httpapi

import (
	"net/http"

	"github.com/Leganyst/rental-inventory/internal/calendar"
)

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.ListItems(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	out := make([]Item, 0, len(items))
	for _, i := range items {
		out = append(out, toItem(i))
	}
	page, size := pageParams(r)
	respondJSON(w, http.StatusOK, calendar.Paginate(out, page, size))
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	item, err := h.inventory.GetItem(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toItem(*item))
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := h.decode(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	item, err := h.inventory.CreateItem(r.Context(), req.input())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toItem(*item))
}

// UpdateItem отвечает 200 даже при перебронировании: список броней уходит в "overbooked".
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	var req ItemRequest
	if err := h.decode(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	item, over, err := h.inventory.UpdateItem(r.Context(), id, req.input())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toItemUpdate(*item, over))
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if err := h.inventory.DeleteItem(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCustomers: ?phone= ищет одного клиента по номеру.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	if phone := r.URL.Query().Get("phone"); phone != "" {
		c, err := h.inventory.FindCustomerByPhone(r.Context(), phone)
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, calendar.Paginate([]Customer{toCustomer(*c)}, 1, 1))
		return
	}

	customers, err := h.inventory.ListCustomers(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	out := make([]Customer, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomer(c))
	}
	page, size := pageParams(r)
	respondJSON(w, http.StatusOK, calendar.Paginate(out, page, size))
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	c, err := h.inventory.GetCustomer(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomer(*c))
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := h.decode(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	c, err := h.inventory.CreateCustomer(r.Context(), req.input())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCustomer(*c))
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	var req CustomerRequest
	if err := h.decode(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	c, err := h.inventory.UpdateCustomer(r.Context(), id, req.input())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomer(*c))
}
