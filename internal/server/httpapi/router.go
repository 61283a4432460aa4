// Package httpapi exposes the presence engine over a query-parameter
// HTTP interface, finger style: every operation is a GET with its inputs
// in the query string and a small JSON envelope in the response.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/fingr/internal/logging"
	"github.com/dmitrijs2005/fingr/internal/server/services"
)

// Handler binds the HTTP routes to the presence engine.
type Handler struct {
	service *services.PresenceService
	logger  logging.Logger
}

func NewHandler(service *services.PresenceService, logger logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// NewRouter registers all routes behind the shared middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(h.recoverMiddleware)
	r.Use(h.loggingMiddleware)

	r.Get("/healthz", h.healthz)

	r.Get("/register", h.register)
	r.Get("/login", h.login)
	r.Get("/logoff", h.logoff)
	r.Get("/bump", h.bump)
	r.Get("/finger", h.finger)
	r.Get("/list", h.list)
	r.Get("/check", h.check)

	return r
}
