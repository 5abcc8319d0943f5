// Package api implements the notisync HTTP API using chi.
package api

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(runner Runner) chi.Router {
	h := NewHandler(runner)

	r := chi.NewRouter()

	// Trigger one sync pass. Passes are sequential on purpose; the
	// handler serializes concurrent triggers.
	r.Post("/sync", h.RunSync)

	return r
}
