package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"clubnexus/internal/club"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("member 9: %w", club.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("locker 103 occupied: %w", club.ErrConflict), http.StatusConflict},
		{fmt.Errorf("amount: %w", club.ErrInvalidInput), http.StatusBadRequest},
		{club.ErrUnauthenticated, http.StatusUnauthorized},
		{fmt.Errorf("zone 3: %w", club.ErrUnauthorized), http.StatusForbidden},
		{club.ErrRateLimited, http.StatusTooManyRequests},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.err), tc.err.Error())
	}
}

func TestErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, fmt.Errorf("member with ID 9: %w", club.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"member with ID 9: not found"}`, rec.Body.String())
}

func TestIDParam(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "103")
	r := httptest.NewRequest(http.MethodGet, "/lockers/103", nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	id, err := IDParam(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(103), id)

	rctx.URLParams = chi.RouteParams{}
	rctx.URLParams.Add("id", "abc")
	_, err = IDParam(r, "id")
	assert.True(t, errors.Is(err, club.ErrInvalidInput))
}
