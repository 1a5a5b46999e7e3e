package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alquila-alerts/internal/application/alert"
	"github.com/alquila-alerts/internal/pkg/msgtemplate"
)

type alertRunner interface {
	RunOnce(ctx context.Context) (alert.RunReport, error)
}

type templateCatalogue interface {
	Templates() []msgtemplate.Template
}

// AlertHandler exposes the manual scheduler trigger and the template catalogue.
type AlertHandler struct {
	runner    alertRunner
	templates templateCatalogue
}

func NewAlertHandler(runner alertRunner, templates templateCatalogue) *AlertHandler {
	return &AlertHandler{runner: runner, templates: templates}
}

// Run executes one scheduler tick synchronously. Per-contract failures are part of the
// report; the call only fails when a contract listing failed.
func (h *AlertHandler) Run(w http.ResponseWriter, r *http.Request) {
	rep, err := h.runner.RunOnce(r.Context())
	if err != nil {
		slog.Warn("manual alert run finished with errors", "err", err)
		writeJSON(w, http.StatusBadGateway, RunEnvelope{Report: rep, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, RunEnvelope{Report: rep})
}

func (h *AlertHandler) Templates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.templates.Templates())
}
