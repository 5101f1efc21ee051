package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/pkg/response"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	remote Pinger
	local  Pinger
}

func NewHealthHandler(remote, local Pinger) *HealthHandler {
	return &HealthHandler{remote: remote, local: local}
}

type healthResponse struct {
	Status string `json:"status"`
	Remote string `json:"remote"`
	Local  string `json:"local"`
}

// Check answers 200 while the process is up and reports each store's reachability.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response.JSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Remote: pingStatus(ctx, h.remote),
		Local:  pingStatus(ctx, h.local),
	})
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "unknown"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
