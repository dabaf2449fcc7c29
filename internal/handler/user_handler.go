// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kenta/pressbox/internal/metrics"
	"github.com/kenta/pressbox/internal/middleware"
	"github.com/kenta/pressbox/internal/model"
)

// AuthServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// SignUp はユーザーを作成し、セッションを確立する。
	SignUp(ctx context.Context, username, email, password string) (*model.User, *model.Session, error)

	// Login は資格情報を検証し、セッションを確立する。
	Login(ctx context.Context, username, password string) (*model.User, *model.Session, error)

	// Logout はセッションを破棄する。空のセッションIDは何もしない。
	Logout(ctx context.Context, sessionID string) error

	// GetAuthenticatedUser は認証済みユーザーを取得する。
	GetAuthenticatedUser(ctx context.Context, userID string) (*model.User, error)
}

// UserHandler はユーザー認証のHTTPハンドラー。
type UserHandler struct {
	service       AuthServiceInterface
	sessionConfig middleware.SessionConfig
	collector     metrics.MetricsCollector
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service AuthServiceInterface, sessionConfig middleware.SessionConfig, collector metrics.MetricsCollector) *UserHandler {
	return &UserHandler{
		service:       service,
		sessionConfig: sessionConfig,
		collector:     collector,
	}
}

// credentialsRequest はサインアップ・ログインのJSONリクエストボディ。
type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp は新規ユーザーを作成し、セッションCookieを発行する。
// POST /api/users/signup
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, r, model.NewParametersMissingError())
		return
	}

	user, session, err := h.service.SignUp(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.SetSessionCookie(w, session.ID, h.sessionConfig)
	writeEnvelope(w, http.StatusCreated, "User saved successfully", user.ToPublic())
}

// Login は資格情報を検証し、セッションCookieを発行する。
// POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, r, model.NewParametersMissingError())
		return
	}

	user, session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.collector.RecordLogin(false)
		middleware.WriteError(w, r, err)
		return
	}

	h.collector.RecordLogin(true)
	middleware.SetSessionCookie(w, session.ID, h.sessionConfig)
	writeEnvelope(w, http.StatusOK, "User logged in successfully", user.ToPublic())
}

// Logout はセッションを破棄し、Cookieを失効させる。
// Cookieがないリクエストでも200を返す（冪等）。
// POST /api/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := ""
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	if err := h.service.Logout(r.Context(), sessionID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.ClearSessionCookie(w, h.sessionConfig)
	writeEnvelope(w, http.StatusOK, "User logged out successfully", nil)
}

// Me は認証済みユーザー自身の情報を返す。
// GET /api/users
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, r, model.NewNotAuthenticatedError())
		return
	}

	user, err := h.service.GetAuthenticatedUser(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user.ToPublic())
}
