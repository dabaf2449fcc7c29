package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kenta/pressbox/internal/model"
)

// envelope は成功レスポンスの統一フォーマット。
type envelope struct {
	Message    string            `json:"message"`
	Data       interface{}       `json:"data,omitempty"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

// writeJSON は任意のボディをJSONで書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response body",
			slog.String("error", err.Error()),
		)
	}
}

// writeEnvelope は {message, data} 形式の成功レスポンスを書き込む。
func writeEnvelope(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	writeJSON(w, statusCode, envelope{Message: message, Data: data})
}

// writePaginatedEnvelope は {message, data, pagination} 形式のレスポンスを書き込む。
func writePaginatedEnvelope(w http.ResponseWriter, statusCode int, message string, data interface{}, pagination *model.Pagination) {
	writeJSON(w, statusCode, envelope{Message: message, Data: data, Pagination: pagination})
}
