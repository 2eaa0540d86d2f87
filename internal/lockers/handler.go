// internal/lockers/handler.go
package lockers

import (
	"net/http"

	"clubnexus/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the locker routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/lockers", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/assign", h.handleAssign)
		r.Post("/{id}/release", h.handleRelease)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	lockers, err := h.service.ListLockers(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, lockers)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID         int64           `json:"id"`
		MonthlyFee decimal.Decimal `json:"monthly_fee"`
	}
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	l, err := h.service.CreateLocker(r.Context(), req.ID, req.MonthlyFee)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, l)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	var req struct {
		MonthlyFee decimal.Decimal `json:"monthly_fee"`
	}
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	l, err := h.service.UpdateLocker(r.Context(), id, req.MonthlyFee)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, l)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	if err := h.service.DeleteLocker(r.Context(), id); err != nil {
		web.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	var req struct {
		MemberID int64 `json:"member_id"`
	}
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	l, err := h.service.Assign(r.Context(), id, req.MemberID)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, l)
}

func (h *Handler) handleRelease(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	l, err := h.service.Release(r.Context(), id)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, l)
}
