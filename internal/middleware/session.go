// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kenta/pressbox/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// SessionStore はセッションの検証と有効期限延長に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionStore interface {
	// FindByID は有効なセッションを返す。存在しないか期限切れの場合はnil。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// ExtendExpiry はセッションの有効期限を延長する。
	ExtendExpiry(ctx context.Context, id string, expiresAt time.Time) error
}

// SessionConfig はセッションミドルウェアとCookie発行の設定。
type SessionConfig struct {
	MaxAge time.Duration // セッションの有効期間（ローリング）
	Domain string        // CookieのDomain属性。空の場合は発行元ホストに限定される
	Secure bool          // Secure属性を付与するか（HTTPS配信時のみtrue)
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// 有効性を検証するミドルウェアを返す。
//
// 検証に成功したリクエストはセッションの有効期限を現在時刻から
// MaxAge分延長し、同じ値でCookieを再発行する（ローリング有効期間）。
// 認証済みユーザーIDはリクエストコンテキストに注入される。
// 未認証リクエストには401と統一エラーフォーマットを返す。
func NewSessionMiddleware(store SessionStore, config SessionConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteError(w, r, model.NewNotAuthenticatedError())
				return
			}

			session, err := store.FindByID(r.Context(), cookie.Value)
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to find session",
					slog.String("error", err.Error()),
				)
				WriteError(w, r, model.NewNotAuthenticatedError())
				return
			}
			if session == nil {
				WriteError(w, r, model.NewNotAuthenticatedError())
				return
			}

			// ローリング有効期間: アクセスのたびに期限を延長しCookieを再発行する。
			// 延長の失敗は認証自体を妨げない。
			expiresAt := time.Now().Add(config.MaxAge)
			if err := store.ExtendExpiry(r.Context(), session.ID, expiresAt); err != nil {
				slog.WarnContext(r.Context(), "failed to extend session expiry",
					slog.String("error", err.Error()),
				)
			} else {
				SetSessionCookie(w, session.ID, config)
			}

			setLoggedUserID(r.Context(), session.UserID)

			ctx := context.WithValue(r.Context(), userIDContextKey, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetSessionCookie はセッションCookieを発行する。
// HttpOnlyかつSameSite=Laxで、JavaScriptからのアクセスとCSRFの大部分を防ぐ。
func SetSessionCookie(w http.ResponseWriter, sessionID string, config SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   int(config.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie はセッションCookieを即時失効させる。
func ClearSessionCookie(w http.ResponseWriter, config SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
