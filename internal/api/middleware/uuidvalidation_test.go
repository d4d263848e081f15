package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/growplan/Commission-Engine-Backend/internal/api/middleware"
)

func TestValidateUUIDMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/{uuid}", func(r chi.Router) {
		r.Use(middleware.ValidateUUIDMiddleware)
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"ValidUUID", "/" + uuid.New().String(), http.StatusOK},
		{"InvalidUUID", "/not-a-uuid", http.StatusBadRequest},
		{"Truncated", "/12345678-1234", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
