package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dailylaw/ledge-backend/internal/service/matching"
)

type explorer interface {
	Explore(ctx context.Context, query string) (*matching.ExploreResult, error)
}

// ExploreHandler serves ad-hoc relevance searches over recent bills.
type ExploreHandler struct {
	svc explorer
	log *slog.Logger
}

// NewExploreHandler creates an ExploreHandler.
func NewExploreHandler(svc explorer, logger *slog.Logger) *ExploreHandler {
	return &ExploreHandler{svc: svc, log: logger.With("handler", "explore")}
}

type exploreRequest struct {
	Query string `json:"query"`
}

// Explore handles POST /api/explore.
func (h *ExploreHandler) Explore(w http.ResponseWriter, r *http.Request) {
	var req exploreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.Explore(r.Context(), req.Query)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toExploreResponse(res))
}
