// internal/membership/handler.go
package membership

import (
	"net/http"

	"clubnexus/internal/web"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the member directory routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/members", func(r chi.Router) {
		r.Get("/", h.handleListMembers)
		r.Post("/", h.handleCreateMember)
		r.Get("/{id}", h.handleGetMember)
		r.Put("/{id}", h.handleUpdateMember)
		r.Delete("/{id}", h.handleDeleteMember)
		r.Post("/{id}/activities", h.handleEnroll)
		r.Delete("/{id}/activities/{activityID}", h.handleUnenroll)
	})
	r.Get("/dashboard", h.handleDashboard)
	r.Get("/me", h.handleProfile)
}

func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, members)
}

func (h *Handler) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var req MemberInput
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	member, err := h.service.CreateMember(r.Context(), req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, member)
}

func (h *Handler) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}

	member, err := h.service.GetMember(r.Context(), id)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, member)
}

func (h *Handler) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	var req MemberPatch
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	member, err := h.service.UpdateMember(r.Context(), id, req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, member)
}

func (h *Handler) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	if err := h.service.DeleteMember(r.Context(), id); err != nil {
		web.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	var req struct {
		ActivityID int64 `json:"activity_id"`
	}
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	member, err := h.service.Enroll(r.Context(), id, req.ActivityID)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, member)
}

func (h *Handler) handleUnenroll(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	activityID, err := web.IDParam(r, "activityID")
	if err != nil {
		web.Error(w, err)
		return
	}

	member, err := h.service.Unenroll(r.Context(), id, activityID)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, member)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, d)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Profile(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, p)
}
