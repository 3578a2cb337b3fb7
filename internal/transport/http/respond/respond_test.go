package respond

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/freshfold/orderdesk/internal/service/models/apperr"
)

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperr.ErrNotFound, http.StatusNotFound},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden},
		{"unknown product", apperr.ErrProductNotFound, http.StatusBadRequest},
		{"validation", apperr.Validationf("bad input"), http.StatusBadRequest},
		{"conflict", apperr.Conflictf("taken"), http.StatusConflict},
		{"wrapped not found", fmt.Errorf("loading order: %w", apperr.ErrNotFound), http.StatusNotFound},
		{"wrapped unknown product", fmt.Errorf("%w: abc", apperr.ErrProductNotFound), http.StatusBadRequest},
		{"infrastructure failure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFromError(tc.err))
		})
	}
}

func TestError(t *testing.T) {
	t.Run("domain errors keep their message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Error(rec, apperr.Validationf("order must contain at least one item"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"message":"order must contain at least one item"}`, rec.Body.String())
	})

	t.Run("internal errors are not leaked", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Error(rec, errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())
	})
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
