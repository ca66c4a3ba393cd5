package handlers

import (
	"net/http"

	"github.com/diewo77/epic-crm/httpx"
	"github.com/diewo77/epic-crm/internal/services"
)

type ClientHandler struct {
	clients *services.ClientService
}

func NewClientHandler(clients *services.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	clients, err := h.clients.List(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	client, err := h.clients.Get(r.Context(), req, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	var in services.ClientInput
	if !decode(w, r, &in) {
		return
	}
	client, err := h.clients.Create(r.Context(), req, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusCreated, services.MsgClientCreated, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in services.ClientInput
	if !decode(w, r, &in) {
		return
	}
	client, err := h.clients.Update(r.Context(), req, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, services.MsgClientUpdated, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.clients.Delete(r.Context(), req, id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, services.MsgClientDeleted, nil)
}

// Assign runs the sales-contact rebalancing routine.
func (h *ClientHandler) Assign(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	assignments, err := h.clients.AssignSalesContacts(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"assignments": assignments})
}

// SalesBook reports the client count of every sales identity.
func (h *ClientHandler) SalesBook(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	book, err := h.clients.SalesBook(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, book)
}
