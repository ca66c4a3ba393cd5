// Package handlers exposes the CRM services as a JSON API.
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/diewo77/epic-crm/gate"
	"github.com/diewo77/epic-crm/httpx"
	"github.com/diewo77/epic-crm/internal/apperrors"
	"github.com/diewo77/epic-crm/internal/policy"
	"github.com/go-chi/chi/v5"
)

// writeError maps service errors to HTTP responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if gate.IsDenied(err) {
		httpx.JSONError(w, r, http.StatusForbidden, "forbidden", nil)
		return
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		log.Printf("[http] %s %s: %v", r.Method, r.URL.Path, err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	switch appErr.Code {
	case apperrors.CodeForbidden:
		httpx.JSONError(w, r, http.StatusForbidden, appErr.Message, nil)
	case apperrors.CodeNotFound:
		httpx.JSONError(w, r, http.StatusNotFound, appErr.Message, nil)
	case apperrors.CodeValidation:
		httpx.JSONError(w, r, http.StatusBadRequest, appErr.Message, appErr.Fields)
	case apperrors.CodeConflict:
		httpx.JSONError(w, r, http.StatusConflict, appErr.Message, nil)
	case apperrors.CodeUnauthenticated:
		httpx.JSONError(w, r, http.StatusUnauthorized, appErr.Message, nil)
	default:
		log.Printf("[http] %s %s: %v", r.Method, r.URL.Path, err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", nil)
	}
}

// requester returns the caller attached by policy.AuthGate.AttachRequester,
// writing a 401 when there is none.
func requester(w http.ResponseWriter, r *http.Request) (policy.Requester, bool) {
	req, ok := policy.RequesterFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return policy.Requester{}, false
	}
	return req, true
}

// idParam parses the {id} route parameter, writing a 404 when it is not an id.
func idParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, r, http.StatusNotFound, "not found", nil)
		return 0, false
	}
	return uint(id), true
}

// decode reads a JSON body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.ReadJSON(r, dst); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, err.Error(), nil)
		return false
	}
	return true
}

// boolQuery parses an optional boolean query parameter.
func boolQuery(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
