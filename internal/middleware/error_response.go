package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kenta/pressbox/internal/model"
)

// errorResponseBody はAPIエラーレスポンスの統一フォーマット。
type errorResponseBody struct {
	Error string `json:"error"`
}

// WriteError はエラーを統一フォーマット {"error": message} で書き込む。
// model.APIErrorの場合はそのステータスコードとメッセージを使用し、
// それ以外のエラーは詳細をログのみに記録して500を返す。
// すべてのAPIエンドポイントはこの関数経由でエラーを返す。
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeErrorBody(w, apiErr.StatusCode, apiErr.Message)
		return
	}

	slog.ErrorContext(r.Context(), "unexpected error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeErrorBody(w, http.StatusInternalServerError, "An unknown error occurred")
}

// writeErrorBody はステータスコードとメッセージでエラーレスポンスを書き込む。
func writeErrorBody(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponseBody{Error: message})
}
