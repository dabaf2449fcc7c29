package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kenta/pressbox/internal/metrics"
	"github.com/kenta/pressbox/internal/middleware"
	"github.com/kenta/pressbox/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionStore      middleware.SessionStore
	SessionConfig     middleware.SessionConfig
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// サービス
	AuthService    AuthServiceInterface
	ArticleService ArticleServiceInterface
	GalleryService GalleryServiceInterface

	// アップロード上限
	UploadConfig UploadConfig

	// メトリクス
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer

	// データベース疎通確認（/health用）
	DBPinger func() error
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → CORS → Metrics → [Session → RateLimit(General)]（認証ルートのみ）
//
// サインアップ・ログイン・画像一括アップロードはセッション不要のため
// 認証グループの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(deps.Collector.Middleware())

	userHandler := NewUserHandler(deps.AuthService, deps.SessionConfig, deps.Collector)
	articleHandler := NewArticleHandler(deps.ArticleService, deps.UploadConfig, deps.Collector)
	galleryHandler := NewGalleryHandler(deps.GalleryService, deps.UploadConfig, deps.Collector)

	// 未定義ルートも統一エラーフォーマットで返す
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, model.NewEndpointNotFoundError())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, model.NewEndpointNotFoundError())
	})

	// --- 認証不要のルート ---

	// 死活確認
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Backend running successfully!"))
	})
	r.Get("/health", NewHealthHandler(deps.DBPinger).ServeHTTP)

	// Prometheusスクレイプ
	if deps.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.Gatherer).ServeHTTP)
	}

	// ユーザー認証
	// GET /api/users は認証グループ側で登録するため、サブルーターはマウントしない
	r.Post("/api/users/signup", userHandler.SignUp)
	r.Post("/api/users/login", userHandler.Login)
	r.Post("/api/users/logout", userHandler.Logout)

	// ギャラリー（セッション不要、専用レート制限あり)
	r.With(deps.RateLimiter.UploadMiddleware()).
		Post("/api/article/upload-images", galleryHandler.UploadImages)
	r.Get("/api/article/images", galleryHandler.ListImages)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionStore, deps.SessionConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/users", userHandler.Me)

		// /api/article/images と /api/article/upload-images は静的ルートとして
		// 認証グループの外で登録済み。chiは静的ルートを{id}より優先する。
		r.Post("/api/article", articleHandler.Create)
		r.Get("/api/article", articleHandler.List)
		r.Get("/api/article/{id}", articleHandler.GetByID)
		r.Put("/api/article/{id}", articleHandler.Update)
		r.Delete("/api/article/{id}", articleHandler.Delete)
	})

	return r
}
