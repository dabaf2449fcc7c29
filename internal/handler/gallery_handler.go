package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/kenta/pressbox/internal/gallery"
	"github.com/kenta/pressbox/internal/metrics"
	"github.com/kenta/pressbox/internal/middleware"
	"github.com/kenta/pressbox/internal/model"
)

// GalleryServiceInterface はギャラリーハンドラーが必要とするサービスインターフェース。
type GalleryServiceInterface interface {
	BulkUpload(ctx context.Context, files []*gallery.UploadFile) ([]*model.ImageAsset, error)
	List(ctx context.Context) ([]*model.ImageAsset, error)
}

// GalleryHandler はギャラリー画像のHTTPハンドラー。
type GalleryHandler struct {
	service   GalleryServiceInterface
	upload    UploadConfig
	collector metrics.MetricsCollector
}

// NewGalleryHandler はGalleryHandlerを生成する。
func NewGalleryHandler(service GalleryServiceInterface, upload UploadConfig, collector metrics.MetricsCollector) *GalleryHandler {
	return &GalleryHandler{
		service:   service,
		upload:    upload,
		collector: collector,
	}
}

// UploadImages は最大5枚の画像を一括アップロードする。
// POST /api/article/upload-images (multipart/form-data: images[])
func (h *GalleryHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.upload.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.upload.MaxUploadBytes); err != nil {
		middleware.WriteError(w, r, multipartError(err))
		return
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["images"]
	}

	files := make([]*gallery.UploadFile, 0, len(headers))
	var totalBytes int64
	for _, fh := range headers {
		file, err := fh.Open()
		if err != nil {
			middleware.WriteError(w, r, multipartError(err))
			return
		}

		upload, err := readUploadFile(file, fh)
		file.Close()
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		totalBytes += int64(len(upload.Data))
		files = append(files, &gallery.UploadFile{
			Filename:    upload.Filename,
			ContentType: upload.ContentType,
			Data:        upload.Data,
		})
	}

	assets, err := h.service.BulkUpload(r.Context(), files)
	if err != nil {
		if len(files) > 0 {
			h.collector.RecordImageUploadFailure()
		}
		middleware.WriteError(w, r, err)
		return
	}

	h.collector.RecordImageUploadSuccess(len(assets))
	h.collector.RecordUploadBytes(totalBytes)
	writeEnvelope(w, http.StatusCreated, "Images uploaded and saved successfully", assets)
}

// ListImages は全画像レコードを作成日時の降順で返す。
// GET /api/article/images
func (h *GalleryHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.List(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if assets == nil {
		assets = []*model.ImageAsset{}
	}

	writeEnvelope(w, http.StatusOK, "Images retrieved successfully", assets)
}
