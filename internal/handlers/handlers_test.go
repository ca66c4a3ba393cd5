package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/epic-crm/gate"
	"github.com/diewo77/epic-crm/internal/apperrors"
	"github.com/diewo77/epic-crm/internal/models"
	"github.com/diewo77/epic-crm/internal/policy"
	"github.com/diewo77/epic-crm/validation"
	"github.com/go-chi/chi/v5"
)

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"forbidden", apperrors.Forbidden("You do not have permission to update this contract."), http.StatusForbidden, "update this contract"},
		{"not found", apperrors.NotFound("event"), http.StatusNotFound, "event not found"},
		{"validation", apperrors.Validation(validation.Violations{"email": "required"}), http.StatusBadRequest, `"email":"required"`},
		{"conflict", apperrors.New(apperrors.CodeConflict, "busy"), http.StatusConflict, "busy"},
		{"unauthenticated", apperrors.New(apperrors.CodeUnauthenticated, "nope"), http.StatusUnauthorized, "nope"},
		{"internal code", apperrors.New(apperrors.CodeInternal, "secret detail"), http.StatusInternalServerError, "internal_error"},
		{"plain error", errors.New("db exploded"), http.StatusInternalServerError, "internal_error"},
		{"bare gate denial", fmt.Errorf("%w: contract:update", gate.ErrNotOwner), http.StatusForbidden, `"forbidden"`},
		{"unauthenticated subject", gate.ErrUnauthenticated, http.StatusForbidden, `"forbidden"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			if !strings.Contains(rr.Body.String(), tt.body) {
				t.Errorf("body %q does not contain %q", rr.Body, tt.body)
			}
			if tt.status == http.StatusInternalServerError && strings.Contains(rr.Body.String(), "exploded") {
				t.Error("internal error leaked its cause")
			}
		})
	}
}

func TestRequester_Missing(t *testing.T) {
	rr := httptest.NewRecorder()
	if _, ok := requester(rr, httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("expected no requester")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	want := policy.Requester{ID: 3, Role: models.RoleSales, Active: true}
	req = req.WithContext(policy.WithRequester(req.Context(), want))
	got, ok := requester(httptest.NewRecorder(), req)
	if !ok || got != want {
		t.Fatalf("requester = %+v, %v", got, ok)
	}
}

func TestIDParam(t *testing.T) {
	var (
		got uint
		ok  bool
	)
	r := chi.NewRouter()
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, ok = idParam(w, r)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/things/12", nil))
	if !ok || got != 12 {
		t.Fatalf("idParam = %d, %v", got, ok)
	}

	for _, path := range []string{"/things/0", "/things/x"} {
		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if ok || rr.Code != http.StatusNotFound {
			t.Errorf("%s: ok=%v status=%d", path, ok, rr.Code)
		}
	}
}

func TestBoolQuery(t *testing.T) {
	v, err := boolQuery(httptest.NewRequest(http.MethodGet, "/?signed=true", nil), "signed")
	if err != nil || v == nil || !*v {
		t.Fatalf("boolQuery = %v, %v", v, err)
	}
	if v, err := boolQuery(httptest.NewRequest(http.MethodGet, "/", nil), "signed"); v != nil || err != nil {
		t.Fatalf("absent: %v, %v", v, err)
	}
	if _, err := boolQuery(httptest.NewRequest(http.MethodGet, "/?signed=maybe", nil), "signed"); err == nil {
		t.Fatal("expected parse error")
	}
}
