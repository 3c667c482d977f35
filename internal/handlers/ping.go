package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingHandler обрабатывает GET запрос к /api/ping
type PingHandler struct {
	DB      Pinger
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewPingHandler создаёт новый экземпляр PingHandler.
func NewPingHandler(db Pinger, logger *zap.Logger, timeout time.Duration) *PingHandler {
	return &PingHandler{DB: db, Logger: logger, Timeout: timeout}
}

// Ping отвечает "ok", если база данных доступна.
func (h *PingHandler) Ping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain")
	if err := h.DB.Ping(ctx); err != nil {
		h.Logger.Error("database ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = fmt.Fprint(w, "database unavailable")
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, "ok"); err != nil {
		h.Logger.Warn("failed to write ping response", zap.Error(err))
	}
}
