package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// requestLogState はログミドルウェアとセッションミドルウェアの橋渡しをする。
// ログミドルウェアはセッション解決より外側で動くため、認証で確定した
// ユーザーIDをこの共有値経由で受け取る。同一ゴルーチン内でのみ書き込まれる。
type requestLogState struct {
	userID string
}

var requestLogStateKey = contextKey("request_log_state")

// setLoggedUserID はリクエストログに載せるユーザーIDを記録する。
// ログミドルウェアが組み込まれていない場合は何もしない。
func setLoggedUserID(ctx context.Context, userID string) {
	if state, ok := ctx.Value(requestLogStateKey).(*requestLogState); ok {
		state.userID = userID
	}
}

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader はステータスコードを記録してから委譲する。
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write はデータを書き込む。WriteHeaderが未呼び出しの場合は200を記録する。
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// NewLoggingMiddleware はリクエストのJSON構造化ログを出力するミドルウェアを返す。
// ログ属性はmethod、path、status、duration_ms。セッションミドルウェアを
// 通過したリクエストにはuser_idも付与される。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			state := &requestLogState{}
			ctx := context.WithValue(r.Context(), requestLogStateKey, state)

			next.ServeHTTP(rec, r.WithContext(ctx))

			duration := time.Since(start)
			durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", durationMs),
			}

			// セッション解決で確定したユーザーIDがあれば追加
			if state.userID != "" {
				attrs = append(attrs, slog.String("user_id", state.userID))
			}

			// slogのログレベルをステータスコードに応じて変更
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			// slog.Attr をany スライスに変換
			args := make([]any, len(attrs))
			for i, attr := range attrs {
				args[i] = attr
			}

			logger.Log(r.Context(), level, "http_request", args...)
		})
	}
}
