package handlers

import (
	"net/http"

	"github.com/diewo77/epic-crm/httpx"
	"github.com/diewo77/epic-crm/internal/services"
)

// IdentityHandler is the management-only staff administration.
type IdentityHandler struct {
	identities *services.IdentityService
}

func NewIdentityHandler(identities *services.IdentityService) *IdentityHandler {
	return &IdentityHandler{identities: identities}
}

func (h *IdentityHandler) List(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	identities, err := h.identities.List(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, identities)
}

func (h *IdentityHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	identity, err := h.identities.Get(r.Context(), req, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, identity)
}

func (h *IdentityHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	var in services.IdentityInput
	if !decode(w, r, &in) {
		return
	}
	identity, err := h.identities.Create(r.Context(), req, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusCreated, services.MsgIdentityCreated, identity)
}

func (h *IdentityHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in services.IdentityInput
	if !decode(w, r, &in) {
		return
	}
	identity, err := h.identities.Update(r.Context(), req, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, services.MsgIdentityUpdated, identity)
}

func (h *IdentityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.identities.Delete(r.Context(), req, id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, services.MsgIdentityDeleted, nil)
}
