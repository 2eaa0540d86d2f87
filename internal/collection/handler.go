// internal/collection/handler.go
package collection

import (
	"fmt"
	"net/http"

	"clubnexus/internal/web"

	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the collection routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/payments", h.handleListPayments)
	r.Post("/payments", h.handleRecordPayment)
	r.Get("/zones/{id}/owing", h.handleOwing)
	r.Get("/collectors/{id}/report", h.handleReport)
	r.Get("/collectors/{id}/weekly", h.handleWeekly)
	r.Get("/collectors/{id}/weekly.xlsx", h.handleWeeklyExport)
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, payments)
}

func (h *Handler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) handleOwing(w http.ResponseWriter, r *http.Request) {
	zoneID, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	members, err := h.service.OwingMembers(r.Context(), zoneID)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, members)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	collectorID, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	report, err := h.service.CollectorReport(r.Context(), collectorID)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleWeekly(w http.ResponseWriter, r *http.Request) {
	collectorID, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	report, err := h.service.WeeklyReport(r.Context(), collectorID)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleWeeklyExport(w http.ResponseWriter, r *http.Request) {
	collectorID, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	data, err := h.service.ExportWeeklyReport(r.Context(), collectorID)
	if err != nil {
		web.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="weekly-collector-%d.xlsx"`, collectorID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
