package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/diewo77/epic-crm/httpx"
	"github.com/diewo77/epic-crm/internal/db"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	router    chi.Router
	db        *gorm.DB
	routerCfg *RouterConfig
}

// NewApp creates a new application with all routes configured.
func NewApp(gdb *gorm.DB, routerCfg *RouterConfig) *App {
	app := &App{
		router:    chi.NewRouter(),
		db:        gdb,
		routerCfg: routerCfg,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	r := a.router
	r.Use(middleware.RealIP)
	r.Use(withRequestID)
	r.Use(withLogging)
	r.Use(withRecover)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})

	// Public routes
	ah := a.routerCfg.AuthHandler
	r.Get("/health", a.health)
	r.Get("/healthz", a.healthz)
	r.Post("/api/token", ah.Login)
	r.Post("/api/token/refresh", ah.Refresh)

	// Authenticated routes; the services decide what each requester may do.
	authn := a.routerCfg.Authenticator
	r.Route("/api", func(api chi.Router) {
		api.Use(authn.Middleware, authn.RequireAuth, a.routerCfg.AuthGate.AttachRequester)

		api.Get("/me", ah.Me)

		ih := a.routerCfg.IdentityHandler
		api.Route("/identities", func(r chi.Router) {
			r.Get("/", ih.List)
			r.Post("/", ih.Create)
			r.Get("/{id}", ih.Get)
			r.Put("/{id}", ih.Update)
			r.Patch("/{id}", ih.Update)
			r.Delete("/{id}", ih.Delete)
		})

		ch := a.routerCfg.ClientHandler
		api.Route("/clients", func(r chi.Router) {
			r.Get("/", ch.List)
			r.Post("/", ch.Create)
			r.Post("/assign", ch.Assign)
			r.Get("/{id}", ch.Get)
			r.Put("/{id}", ch.Update)
			r.Patch("/{id}", ch.Update)
			r.Delete("/{id}", ch.Delete)
		})

		kh := a.routerCfg.ContractHandler
		api.Route("/contracts", func(r chi.Router) {
			r.Get("/", kh.List)
			r.Post("/", kh.Create)
			r.Get("/{id}", kh.Get)
			r.Put("/{id}", kh.Update)
			r.Patch("/{id}", kh.Update)
			r.Delete("/{id}", kh.Delete)
		})

		eh := a.routerCfg.EventHandler
		api.Route("/events", func(r chi.Router) {
			r.Get("/", eh.List)
			r.Post("/", eh.Create)
			r.Get("/{id}", eh.Get)
			r.Put("/{id}", eh.Update)
			r.Patch("/{id}", eh.Update)
			r.Delete("/{id}", eh.Delete)
		})

		api.Get("/reports/sales-book", ch.SalesBook)
		api.Get("/reports/revenue", kh.Revenue)
	})
}

// health is a static liveness check.
func (a *App) health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// healthz also checks the database.
func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := db.Ping(ctx, a.db); err != nil {
		log.Printf("[http] healthz: database: %v", err)
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unavailable"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}
