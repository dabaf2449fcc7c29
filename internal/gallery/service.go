// Package gallery は画像の一括アップロードと一覧を提供する。
package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kenta/pressbox/internal/model"
	"github.com/kenta/pressbox/internal/repository"
)

// ImageUploader は画像をオブジェクトストレージへ保存するインターフェース。
// storage.Uploaderが実装する。
type ImageUploader interface {
	ObjectKey(filename string) string
	Upload(ctx context.Context, data []byte, key, contentType string) (string, error)
}

// UploadFile はハンドラーから渡されるアップロードファイルの中身。
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service はギャラリー画像の一括アップロードと一覧を提供する。
type Service struct {
	imageRepo repository.ImageAssetRepository
	uploader  ImageUploader
	maxFiles  int
}

// NewService はServiceを生成する。maxFilesは1リクエストで受け付ける最大ファイル数。
func NewService(imageRepo repository.ImageAssetRepository, uploader ImageUploader, maxFiles int) *Service {
	return &Service{
		imageRepo: imageRepo,
		uploader:  uploader,
		maxFiles:  maxFiles,
	}
}

// BulkUpload は複数ファイルを並行してアップロードし、全件成功した場合のみ
// 画像レコードを一括で永続化する。
//
// 1件でもアップロードに失敗した場合、レコードは一切作成されない。
// ただし先に完了したアップロード済みオブジェクトはストレージ側に残る
// （補償削除は行わず、孤児オブジェクトとしてログに記録する）。
func (s *Service) BulkUpload(ctx context.Context, files []*UploadFile) ([]*model.ImageAsset, error) {
	if len(files) == 0 {
		return nil, model.NewNoImagesError()
	}
	if len(files) > s.maxFiles {
		return nil, model.NewTooManyImagesError()
	}

	// オブジェクトキーを先に確定させ、失敗時のログで追跡できるようにする
	keys := make([]string, len(files))
	for i, f := range files {
		keys[i] = s.uploader.ObjectKey(f.Filename)
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			url, err := s.uploader.Upload(gctx, f.Data, keys[i], f.ContentType)
			if err != nil {
				return fmt.Errorf("failed to upload image %s: %w", f.Filename, err)
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.WarnContext(ctx, "bulk upload aborted, uploaded objects may be orphaned",
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	now := time.Now()
	assets := make([]*model.ImageAsset, len(urls))
	for i, url := range urls {
		assets[i] = &model.ImageAsset{
			ID:        uuid.New().String(),
			ImageURL:  url,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	if err := s.imageRepo.CreateBatch(ctx, assets); err != nil {
		slog.WarnContext(ctx, "image records not persisted, uploaded objects may be orphaned",
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to persist image records: %w", err)
	}

	return assets, nil
}

// List は全画像レコードを作成日時の降順で返す。
func (s *Service) List(ctx context.Context) ([]*model.ImageAsset, error) {
	assets, err := s.imageRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return assets, nil
}
