package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kenta/pressbox/internal/article"
	"github.com/kenta/pressbox/internal/metrics"
	"github.com/kenta/pressbox/internal/middleware"
	"github.com/kenta/pressbox/internal/model"
)

// ArticleServiceInterface は記事ハンドラーが必要とするサービスインターフェース。
type ArticleServiceInterface interface {
	Create(ctx context.Context, title, content string, image *article.UploadFile) (*model.Article, error)
	List(ctx context.Context, paginate bool, page, limit int) ([]*model.Article, *model.Pagination, error)
	GetByID(ctx context.Context, id string) (*model.Article, error)
	Update(ctx context.Context, id string, title, content *string) (*model.Article, error)
	Delete(ctx context.Context, id string) (*model.Article, error)
}

// UploadConfig はマルチパートアップロードの受け入れ上限。
type UploadConfig struct {
	MaxUploadBytes int64 // リクエストボディ全体の上限
	MaxUploadFiles int   // 一括アップロードの最大ファイル数
}

// ArticleHandler は記事CRUDのHTTPハンドラー。
type ArticleHandler struct {
	service   ArticleServiceInterface
	upload    UploadConfig
	collector metrics.MetricsCollector
}

// NewArticleHandler はArticleHandlerを生成する。
func NewArticleHandler(service ArticleServiceInterface, upload UploadConfig, collector metrics.MetricsCollector) *ArticleHandler {
	return &ArticleHandler{
		service:   service,
		upload:    upload,
		collector: collector,
	}
}

// Create は記事を作成する。画像ファイルは任意。
// POST /api/article (multipart/form-data: title, content, image?)
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.upload.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.upload.MaxUploadBytes); err != nil {
		middleware.WriteError(w, r, multipartError(err))
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")

	var image *article.UploadFile
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		image, err = readUploadFile(file, header)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}
	case errors.Is(err, http.ErrMissingFile):
		// 画像なしで作成
	default:
		middleware.WriteError(w, r, multipartError(err))
		return
	}

	saved, err := h.service.Create(r.Context(), title, content, image)
	if err != nil {
		if image != nil {
			h.collector.RecordImageUploadFailure()
		}
		middleware.WriteError(w, r, err)
		return
	}

	if image != nil {
		h.collector.RecordImageUploadSuccess(1)
		h.collector.RecordUploadBytes(int64(len(image.Data)))
	}
	writeEnvelope(w, http.StatusCreated, "Article saved successfully", saved)
}

// List は記事一覧を返す。paginate=true のときのみページネーションする。
// GET /api/article?paginate=true&page=2&limit=10
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	paginate := q.Get("paginate") == "true"
	page := parsePositiveInt(q.Get("page"), 1)
	limit := parsePositiveInt(q.Get("limit"), 10)

	articles, pagination, err := h.service.List(r.Context(), paginate, page, limit)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if articles == nil {
		articles = []*model.Article{}
	}

	if pagination != nil {
		writePaginatedEnvelope(w, http.StatusOK, "Articles retrieved successfully", articles, pagination)
		return
	}
	writeEnvelope(w, http.StatusOK, "Articles retrieved successfully", articles)
}

// GetByID は単一の記事を返す。
// GET /api/article/{id}
func (h *ArticleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeEnvelope(w, http.StatusOK, "Article retrieved successfully", found)
}

// updateArticleRequest は記事更新のJSONリクエストボディ。
// 省略されたフィールドはnilのまま渡され、更新対象にならない。
type updateArticleRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Update は記事を部分更新する。
// PUT /api/article/{id}
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, r, model.NewUpdateFieldsRequiredError())
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.Title, req.Content)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeEnvelope(w, http.StatusOK, "Article updated successfully", updated)
}

// Delete は記事を削除し、削除したレコードを返す。
// DELETE /api/article/{id}
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeEnvelope(w, http.StatusOK, "Article deleted successfully", deleted)
}

// readUploadFile はマルチパートのファイルパートを検証して読み込む。
// Content-Typeがimage/*以外の場合は400を返す。
func readUploadFile(file multipart.File, header *multipart.FileHeader) (*article.UploadFile, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, model.NewInvalidImageTypeError()
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, multipartError(err)
	}

	return &article.UploadFile{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// multipartError はマルチパート解析のエラーをAPIエラーに変換する。
// ボディ上限超過は413、それ以外の解析エラーは400として扱う。
func multipartError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return &model.APIError{StatusCode: http.StatusRequestEntityTooLarge, Message: "File too large"}
	}
	return model.NewValidationError("Invalid multipart request")
}

// parsePositiveInt は文字列を正の整数として解釈する。
// 数値でない、または1未満の場合はデフォルト値を返す。
func parsePositiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
