package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/epic-crm/auth"
	"github.com/diewo77/epic-crm/httpx"
	"github.com/diewo77/epic-crm/internal/policy"
	"github.com/diewo77/epic-crm/internal/services"
)

type AuthHandler struct {
	identities *services.IdentityService
	tokens     *auth.Tokens
	gate       *policy.AuthGate
}

func NewAuthHandler(identities *services.IdentityService, tokens *auth.Tokens, gate *policy.AuthGate) *AuthHandler {
	return &AuthHandler{identities: identities, tokens: tokens, gate: gate}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decode(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Email) == "" || body.Password == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "email and password are required", nil)
		return
	}
	identity, err := h.identities.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pair, err := h.tokens.Issue(identity.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pair)
}

// Refresh issues a new access token for a valid refresh token whose
// identity is still active.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if !decode(w, r, &body) {
		return
	}
	access, uid, err := h.tokens.Refresh(body.Refresh)
	if err != nil || !h.gate.Verify(r.Context(), uid) {
		httpx.JSONError(w, r, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"access": access})
}

// Me describes the caller, the grants of their role and the concrete
// actions those grants open up.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}
	identity, err := h.identities.Me(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"identity":     identity,
		"permissions":  h.gate.Permissions(r.Context(), req),
		"capabilities": h.gate.Capabilities(r.Context(), req),
	})
}
