package rest

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/matching"
	"github.com/dailylaw/ledge-backend/internal/service/subscriber"
	"github.com/dailylaw/ledge-backend/internal/transport/middleware"
	"github.com/dailylaw/ledge-backend/pkg/ctxutil"
)

const defaultCookieMaxAge = 365 * 24 * time.Hour

// CookieOptions controls the identity cookie written at onboarding.
type CookieOptions struct {
	// Codec defaults to middleware.PlainCookie.
	Codec middleware.CookieCodec
	// Secure should be set whenever the site runs on https.
	Secure bool
	MaxAge time.Duration
}

type subscriberService interface {
	Onboard(ctx context.Context, input subscriber.OnboardInput) (*domain.Subscriber, error)
	Me(ctx context.Context) (*domain.Subscriber, error)
	UpdateSettings(ctx context.Context, input subscriber.UpdateSettingsInput) (*domain.Subscriber, error)
	AddInterest(ctx context.Context, topic string) (*domain.Subscriber, error)
	RemoveInterest(ctx context.Context, topic string) (*domain.Subscriber, error)
	Matches(ctx context.Context) ([]domain.MatchedBill, error)
	Starred(ctx context.Context) ([]domain.StarredBill, error)
	Star(ctx context.Context, billID uuid.UUID) error
	Unstar(ctx context.Context, billID uuid.UUID) error
	DismissUpdate(ctx context.Context, billID uuid.UUID) error
}

type backfiller interface {
	Backfill(ctx context.Context, email string) (*matching.BackfillResult, error)
}

// SubscriberHandler serves onboarding and the /api/me routes.
type SubscriberHandler struct {
	svc      subscriberService
	backfill backfiller
	cookie   CookieOptions
	log      *slog.Logger
}

// NewSubscriberHandler creates a SubscriberHandler.
func NewSubscriberHandler(svc subscriberService, backfill backfiller, cookie CookieOptions, logger *slog.Logger) *SubscriberHandler {
	if cookie.Codec == nil {
		cookie.Codec = middleware.PlainCookie{}
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = defaultCookieMaxAge
	}
	return &SubscriberHandler{
		svc:      svc,
		backfill: backfill,
		cookie:   cookie,
		log:      logger.With("handler", "subscriber"),
	}
}

type onboardRequest struct {
	Email       string   `json:"email"`
	Goal        string   `json:"goal"`
	StateFocus  string   `json:"state_focus"`
	Interests   []string `json:"interests"`
	AcceptTerms bool     `json:"accept_terms"`
}

type settingsRequest struct {
	Goal       *string `json:"goal"`
	StateFocus *string `json:"state_focus"`
}

type interestRequest struct {
	Topic string `json:"topic"`
}

// Onboard handles POST /api/onboarding.
func (h *SubscriberHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req onboardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.svc.Onboard(r.Context(), subscriber.OnboardInput{
		Email:       req.Email,
		Goal:        req.Goal,
		StateFocus:  req.StateFocus,
		Interests:   req.Interests,
		AcceptTerms: req.AcceptTerms,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	value, err := h.cookie.Codec.Encode(sub.Email)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.IdentityCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, toSubscriberResponse(sub))
}

// Me handles GET /api/me.
func (h *SubscriberHandler) Me(w http.ResponseWriter, r *http.Request) {
	sub, err := h.svc.Me(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriberResponse(sub))
}

// UpdateSettings handles PATCH /api/me/settings.
func (h *SubscriberHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.svc.UpdateSettings(r.Context(), subscriber.UpdateSettingsInput{
		Goal:       req.Goal,
		StateFocus: req.StateFocus,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriberResponse(sub))
}

// AddInterest handles POST /api/me/interests.
func (h *SubscriberHandler) AddInterest(w http.ResponseWriter, r *http.Request) {
	var req interestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.svc.AddInterest(r.Context(), req.Topic)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriberResponse(sub))
}

// RemoveInterest handles DELETE /api/me/interests/{topic}.
func (h *SubscriberHandler) RemoveInterest(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	if unescaped, err := url.PathUnescape(topic); err == nil {
		topic = unescaped
	}

	sub, err := h.svc.RemoveInterest(r.Context(), topic)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriberResponse(sub))
}

// Matches handles GET /api/me/matches.
func (h *SubscriberHandler) Matches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.svc.Matches(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": toMatchList(matches)})
}

// Backfill handles POST /api/me/matches/backfill.
func (h *SubscriberHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	email, _ := ctxutil.SubscriberEmailFromCtx(r.Context())

	res, err := h.backfill.Backfill(r.Context(), email)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Starred handles GET /api/me/starred.
func (h *SubscriberHandler) Starred(w http.ResponseWriter, r *http.Request) {
	stars, err := h.svc.Starred(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"starred": toStarredList(stars)})
}

// Star handles PUT /api/me/starred/{billID}.
func (h *SubscriberHandler) Star(w http.ResponseWriter, r *http.Request) {
	h.withBillID(w, r, h.svc.Star)
}

// Unstar handles DELETE /api/me/starred/{billID}.
func (h *SubscriberHandler) Unstar(w http.ResponseWriter, r *http.Request) {
	h.withBillID(w, r, h.svc.Unstar)
}

// DismissUpdate handles POST /api/me/starred/{billID}/dismiss.
func (h *SubscriberHandler) DismissUpdate(w http.ResponseWriter, r *http.Request) {
	h.withBillID(w, r, h.svc.DismissUpdate)
}

func (h *SubscriberHandler) withBillID(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) error) {
	billID, err := uuid.Parse(chi.URLParam(r, "billID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	if err := fn(r.Context(), billID); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
