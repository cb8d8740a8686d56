package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dailylaw/ledge-backend/internal/service/ingest"
	"github.com/dailylaw/ledge-backend/internal/service/matching"
	"github.com/dailylaw/ledge-backend/internal/service/notify"
	"github.com/dailylaw/ledge-backend/internal/service/tracker"
)

type ingestDriver interface {
	Run(ctx context.Context, sources ...ingest.Source) (*ingest.Result, error)
}

type nightlyDriver interface {
	Nightly(ctx context.Context) (*matching.NightlyResult, error)
}

type trackerDriver interface {
	Run(ctx context.Context, src tracker.ActionSource) (*tracker.Result, error)
}

type alertDriver interface {
	Run(ctx context.Context) (*notify.Result, error)
}

// CronDrivers is everything the cron surface triggers.
type CronDrivers struct {
	Ingest   ingestDriver
	Federal  []ingest.Source
	State    []ingest.Source
	Matching nightlyDriver
	Tracker  trackerDriver
	Actions  tracker.ActionSource
	Alerts   alertDriver
}

// CronHandler exposes the batch drivers to the scheduler.
type CronHandler struct {
	d   CronDrivers
	log *slog.Logger
}

// NewCronHandler creates a CronHandler.
func NewCronHandler(d CronDrivers, logger *slog.Logger) *CronHandler {
	return &CronHandler{d: d, log: logger.With("handler", "cron")}
}

// DriverResponse is the envelope every cron route answers with.
type DriverResponse struct {
	Success bool     `json:"success"`
	Result  any      `json:"result,omitempty"`
	Error   string   `json:"error,omitempty"`
	Log     []string `json:"log"`
}

// IngestFederal handles /cron/ingest/federal.
func (h *CronHandler) IngestFederal(w http.ResponseWriter, r *http.Request) {
	h.ingest(w, r, "ingest_federal", h.d.Federal)
}

// IngestState handles /cron/ingest/state.
func (h *CronHandler) IngestState(w http.ResponseWriter, r *http.Request) {
	h.ingest(w, r, "ingest_state", h.d.State)
}

func (h *CronHandler) ingest(w http.ResponseWriter, r *http.Request, name string, sources []ingest.Source) {
	res, err := h.d.Ingest.Run(r.Context(), sources...)
	if res == nil {
		h.respond(w, r, name, nil, nil, err)
		return
	}
	h.respond(w, r, name, res, res.Log, err)
}

// Score handles /cron/score.
func (h *CronHandler) Score(w http.ResponseWriter, r *http.Request) {
	res, err := h.d.Matching.Nightly(r.Context())
	if res == nil {
		h.respond(w, r, "score", nil, nil, err)
		return
	}
	h.respond(w, r, "score", res, res.Log, err)
}

// BillStatus handles /cron/bill-status.
func (h *CronHandler) BillStatus(w http.ResponseWriter, r *http.Request) {
	res, err := h.d.Tracker.Run(r.Context(), h.d.Actions)
	if res == nil {
		h.respond(w, r, "bill_status", nil, nil, err)
		return
	}
	h.respond(w, r, "bill_status", res, res.Log, err)
}

// Alerts handles /cron/alerts.
func (h *CronHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	res, err := h.d.Alerts.Run(r.Context())
	if res == nil {
		h.respond(w, r, "alerts", nil, nil, err)
		return
	}
	h.respond(w, r, "alerts", res, res.Log, err)
}

// respond answers 500 when the driver could not run at all. A run that
// stopped on its budget is still a success.
func (h *CronHandler) respond(w http.ResponseWriter, r *http.Request, driver string, result any, lines []string, err error) {
	if lines == nil {
		lines = []string{}
	}
	if err != nil {
		h.log.ErrorContext(r.Context(), "driver failed",
			slog.String("driver", driver),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, DriverResponse{
			Success: false,
			Result:  result,
			Error:   err.Error(),
			Log:     lines,
		})
		return
	}
	writeJSON(w, http.StatusOK, DriverResponse{Success: true, Result: result, Log: lines})
}
