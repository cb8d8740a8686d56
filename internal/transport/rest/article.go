package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/article"
)

type articleService interface {
	List(ctx context.Context, input article.ListInput) ([]domain.Bill, error)
	Get(ctx context.Context, slug string) (*domain.Bill, error)
}

// ArticleHandler serves the public article archive.
type ArticleHandler struct {
	svc articleService
	log *slog.Logger
}

// NewArticleHandler creates an ArticleHandler.
func NewArticleHandler(svc articleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{svc: svc, log: logger.With("handler", "article")}
}

// List handles GET /api/articles?limit=&offset=.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	var in article.ListInput
	var err error
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		if in.Limit, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
	}
	if v := q.Get("offset"); v != "" {
		if in.Offset, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
	}

	bills, err := h.svc.List(r.Context(), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": toBillList(bills)})
}

// Get handles GET /api/articles/{slug}.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	bill, err := h.svc.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(*bill, true))
}
