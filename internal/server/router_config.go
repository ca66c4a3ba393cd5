// Package server assembles the HTTP API: routes, middleware and the
// dependencies every handler needs.
package server

import (
	"fmt"

	"github.com/diewo77/epic-crm/auth"
	"github.com/diewo77/epic-crm/internal/audit"
	"github.com/diewo77/epic-crm/internal/config"
	"github.com/diewo77/epic-crm/internal/handlers"
	"github.com/diewo77/epic-crm/internal/policy"
	"github.com/diewo77/epic-crm/internal/services"
	"gorm.io/gorm"
)

// RouterConfig holds configured handlers and middleware for the application.
type RouterConfig struct {
	// AuthGate provides authorization checks and the requester middleware
	AuthGate      *policy.AuthGate
	Authenticator *auth.Authenticator
	Services      *services.Services

	AuthHandler     *handlers.AuthHandler
	IdentityHandler *handlers.IdentityHandler
	ClientHandler   *handlers.ClientHandler
	ContractHandler *handlers.ContractHandler
	EventHandler    *handlers.EventHandler
}

// NewRouterConfig wires the gate, the services and the handlers together.
// A nil sink reports denials to the log only.
func NewRouterConfig(db *gorm.DB, cfg *config.Config, sink audit.Sink) (*RouterConfig, error) {
	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("tokens: %w", err)
	}

	authGate := policy.NewAuthGate(db, cfg.Auth.IdentityCacheTTL)
	svc := services.New(db, authGate, services.Options{
		Ownership: services.ContractOwnership(cfg.App.ContractOwnership),
		Sink:      sink,
	})

	return &RouterConfig{
		AuthGate:        authGate,
		Authenticator:   &auth.Authenticator{Tokens: tokens, Verify: authGate.Verify},
		Services:        svc,
		AuthHandler:     handlers.NewAuthHandler(svc.Identities, tokens, authGate),
		IdentityHandler: handlers.NewIdentityHandler(svc.Identities),
		ClientHandler:   handlers.NewClientHandler(svc.Clients),
		ContractHandler: handlers.NewContractHandler(svc.Contracts),
		EventHandler:    handlers.NewEventHandler(svc.Events),
	}, nil
}
