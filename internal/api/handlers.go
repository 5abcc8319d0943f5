package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/jaehui/notisync/internal/syncer"
)

// Runner runs one sync pass. Satisfied by *syncer.Runner.
type Runner interface {
	Run(ctx context.Context) (syncer.Result, error)
}

// Handler holds API route handlers.
type Handler struct {
	runner Runner

	// mu serializes passes: the duplicate lookup and the create are not
	// atomic, so two overlapping passes could both decide to create.
	mu sync.Mutex
}

// NewHandler creates a new Handler.
func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

// RunSync handles POST /api/sync: runs one pass and returns its result.
func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	res, err := h.runner.Run(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, toPassResponse(res))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}
