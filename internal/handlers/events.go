package handlers

import (
	"net/http"

	"github.com/diewo77/epic-crm/httpx"
	"github.com/diewo77/epic-crm/internal/services"
)

type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List accepts ?scope=mine and ?unassigned=true.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	unassigned, err := boolQuery(r, "unassigned")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "invalid unassigned filter", nil)
		return
	}
	filter := services.EventFilter{
		Mine:       r.URL.Query().Get("scope") == "mine",
		Unassigned: unassigned != nil && *unassigned,
	}
	events, err := h.events.List(r.Context(), req, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	event, err := h.events.Get(r.Context(), req, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, event)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	var in services.EventInput
	if !decode(w, r, &in) {
		return
	}
	event, err := h.events.Create(r.Context(), req, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusCreated, services.MsgEventCreated, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in services.EventInput
	if !decode(w, r, &in) {
		return
	}
	event, err := h.events.Update(r.Context(), req, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, services.MsgEventUpdated, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.events.Delete(r.Context(), req, id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, services.MsgEventDeleted, nil)
}
