// internal/catalog/handler.go
package catalog

import (
	"net/http"

	"clubnexus/internal/club"
	"clubnexus/internal/web"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the catalog routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/activities", func(r chi.Router) {
		r.Get("/", h.handleListActivities)
		r.Post("/", h.handleCreateActivity)
		r.Put("/{id}", h.handleUpdateActivity)
		r.Delete("/{id}", h.handleDeleteActivity)
	})
	r.Get("/categories", h.handleListCategories)
	r.Get("/zones", h.handleListZones)
	// Flat routes: the collection handler also serves paths under /collectors/{id}.
	r.Get("/collectors", h.handleListCollectors)
	r.Post("/collectors", h.handleCreateCollector)
	r.Put("/collectors/{id}", h.handleUpdateCollector)
	r.Delete("/collectors/{id}", h.handleDeleteCollector)
}

func (h *Handler) handleListActivities(w http.ResponseWriter, r *http.Request) {
	filter := ActivityFilter{
		Query:    r.URL.Query().Get("q"),
		Schedule: club.Schedule(r.URL.Query().Get("schedule")),
	}
	activities, err := h.service.ListActivities(r.Context(), filter)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, activities)
}

func (h *Handler) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var req ActivityInput
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}
	a, err := h.service.CreateActivity(r.Context(), req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, a)
}

func (h *Handler) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	var req ActivityInput
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}
	a, err := h.service.UpdateActivity(r.Context(), id, req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, a)
}

func (h *Handler) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	if err := h.service.DeleteActivity(r.Context(), id); err != nil {
		web.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListFeeCategories(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, categories)
}

func (h *Handler) handleListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.service.ListZones(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, zones)
}

func (h *Handler) handleListCollectors(w http.ResponseWriter, r *http.Request) {
	collectors, err := h.service.ListCollectors(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, collectors)
}

func (h *Handler) handleCreateCollector(w http.ResponseWriter, r *http.Request) {
	var req CollectorInput
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}
	c, err := h.service.CreateCollector(r.Context(), req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, c)
}

func (h *Handler) handleUpdateCollector(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	var req CollectorInput
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}
	c, err := h.service.UpdateCollector(r.Context(), id, req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleDeleteCollector(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	if err := h.service.DeleteCollector(r.Context(), id); err != nil {
		web.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
