package handler

import (
	"log/slog"
	"net/http"
)

// HealthHandler はデータベース疎通を含むヘルスチェックのHTTPハンドラー。
type HealthHandler struct {
	dbPinger func() error
}

// NewHealthHandler はHealthHandlerを生成する。
// dbPingerがnilの場合、データベース疎通確認はスキップされる。
func NewHealthHandler(dbPinger func() error) *HealthHandler {
	return &HealthHandler{dbPinger: dbPinger}
}

// ServeHTTP はヘルスチェックに応答する。
// GET /health
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.dbPinger != nil {
		if err := h.dbPinger(); err != nil {
			slog.ErrorContext(r.Context(), "health check failed",
				slog.String("error", err.Error()),
			)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
