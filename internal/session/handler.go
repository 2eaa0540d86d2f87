// internal/session/handler.go
package session

import (
	"net/http"

	"clubnexus/internal/web"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	sess, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, sess)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), BearerToken(r)); err != nil {
		web.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
