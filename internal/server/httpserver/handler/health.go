package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/memkv/internal/infra/buildinfo"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ReadyResponse is the body of GET /ready.
type ReadyResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	Keys   int    `json:"keys"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   now(),
	})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{Status: "ready", Time: now()}
	if h.keys != nil {
		resp.Keys = h.keys.Len()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, buildinfo.Get())
}
