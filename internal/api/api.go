// internal/api/api.go
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"clubnexus/internal/audit"
	"clubnexus/internal/catalog"
	"clubnexus/internal/club"
	"clubnexus/internal/collection"
	"clubnexus/internal/lockers"
	"clubnexus/internal/membership"
	"clubnexus/internal/session"
	"clubnexus/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Services bundles the application services served over HTTP.
type Services struct {
	Sessions   session.Service
	Members    membership.Service
	Catalog    catalog.Service
	Lockers    lockers.Service
	Collection collection.Service
}

// NewServices wires every service to one store and one audit log.
func NewServices(store club.Store, log audit.Log, registry session.Registry, opts session.Options, logger *zap.Logger) *Services {
	recorder := audit.NewRecorder(log, logger)
	return &Services{
		Sessions:   session.NewService(store, registry, opts, logger.Named("session")),
		Members:    membership.NewService(store, recorder, logger.Named("membership")),
		Catalog:    catalog.NewService(store, logger.Named("catalog")),
		Lockers:    lockers.NewService(store, recorder, logger.Named("lockers")),
		Collection: collection.NewService(store, recorder, logger.Named("collection")),
	}
}

// NewRouter builds the /api/v1 HTTP surface.
func NewRouter(svc *Services, store club.Store, log audit.Log, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	sessions := session.NewHandler(svc.Sessions)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", health(store))
		r.Post("/login", sessions.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(session.Authenticator(svc.Sessions))

			r.Post("/logout", sessions.HandleLogout)
			r.Get("/audit", auditStream(log))

			membership.NewHandler(svc.Members).Register(r)
			catalog.NewHandler(svc.Catalog).Register(r)
			lockers.NewHandler(svc.Lockers).Register(r)
			collection.NewHandler(svc.Collection).Register(r)
		})
	})
	return r
}

func health(store club.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			web.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		web.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// auditStream serves GET /audit?after=&limit= to admins.
func auditStream(log audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := session.Require(r.Context(), club.RoleAdmin); err != nil {
			web.Error(w, err)
			return
		}

		var after int64
		var limit int
		if v := r.URL.Query().Get("after"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				web.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid after cursor"})
				return
			}
			after = n
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				web.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
				return
			}
			limit = n
		}

		events, err := log.List(r.Context(), after, limit)
		if err != nil {
			web.Error(w, err)
			return
		}
		web.JSON(w, http.StatusOK, events)
	}
}

// accessLog writes one structured line per request.
func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
