package handlers

import (
	"net/http"

	"github.com/diewo77/epic-crm/httpx"
	"github.com/diewo77/epic-crm/internal/services"
)

type ContractHandler struct {
	contracts *services.ContractService
}

func NewContractHandler(contracts *services.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// List accepts ?scope=mine, ?signed=true|false and ?unpaid=true.
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	signed, err := boolQuery(r, "signed")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "invalid signed filter", nil)
		return
	}
	unpaid, err := boolQuery(r, "unpaid")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "invalid unpaid filter", nil)
		return
	}
	filter := services.ContractFilter{
		Mine:   r.URL.Query().Get("scope") == "mine",
		Signed: signed,
		Unpaid: unpaid != nil && *unpaid,
	}
	contracts, err := h.contracts.List(r.Context(), req, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contracts)
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	contract, err := h.contracts.Get(r.Context(), req, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	var in services.ContractInput
	if !decode(w, r, &in) {
		return
	}
	contract, err := h.contracts.Create(r.Context(), req, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusCreated, services.MsgContractCreated, contract)
}

func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in services.ContractInput
	if !decode(w, r, &in) {
		return
	}
	contract, err := h.contracts.Update(r.Context(), req, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, services.MsgContractUpdated, contract)
}

func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.contracts.Delete(r.Context(), req, id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, services.MsgContractDeleted, nil)
}

// Revenue sums signed business over the contracts the caller may list.
func (h *ContractHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	rev, err := h.contracts.Revenue(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rev)
}
