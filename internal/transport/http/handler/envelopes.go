package handler

import (
	"encoding/json"
	"net/http"

	"github.com/alquila-alerts/internal/application/alert"
	"github.com/alquila-alerts/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// HistoryEnvelope wraps an owner's alert history.
type HistoryEnvelope struct {
	Data  []domain.Notification `json:"data"`
	Count int                   `json:"count"`
	Error string                `json:"error,omitempty"`
}

// RunEnvelope wraps the result of a manual scheduler run.
type RunEnvelope struct {
	Report alert.RunReport `json:"report"`
	Error  string          `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, ErrorCode: status})
}
