// Package article は記事のCRUDとページネーションを提供する。
package article

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kenta/pressbox/internal/model"
	"github.com/kenta/pressbox/internal/repository"
	"github.com/kenta/pressbox/internal/security"
)

// ImageUploader は記事画像をオブジェクトストレージへ保存するインターフェース。
// storage.Uploaderが実装する。
type ImageUploader interface {
	// ObjectKey はファイル名からオブジェクトキーを生成する。
	ObjectKey(filename string) string

	// Upload はバイト列をアップロードし、公開URLを返す。
	Upload(ctx context.Context, data []byte, key, contentType string) (string, error)
}

// UploadFile はハンドラーから渡されるアップロードファイルの中身。
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service は記事のCRUD操作を提供する。
type Service struct {
	articleRepo repository.ArticleRepository
	uploader    ImageUploader
	sanitizer   security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(articleRepo repository.ArticleRepository, uploader ImageUploader, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		articleRepo: articleRepo,
		uploader:    uploader,
		sanitizer:   sanitizer,
	}
}

// Create は記事を作成する。
// 画像が渡された場合は先にストレージへアップロードし、失敗したら記事は保存しない。
func (s *Service) Create(ctx context.Context, title, content string, image *UploadFile) (*model.Article, error) {
	if title == "" || content == "" {
		return nil, model.NewTitleContentRequiredError()
	}

	var imageURL *string
	if image != nil {
		key := s.uploader.ObjectKey(image.Filename)
		url, err := s.uploader.Upload(ctx, image.Data, key, image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload article image: %w", err)
		}
		imageURL = &url
	}

	now := time.Now()
	article := &model.Article{
		ID:        uuid.New().String(),
		Title:     s.sanitizer.SanitizeTitle(title),
		Content:   s.sanitizer.SanitizeContent(content),
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	return article, nil
}

// List は記事一覧を作成日時の降順で返す。
// paginateがfalseの場合は全件を返し、paginationはnil。
// paginateがtrueの場合はoffset = (page-1)*limitから最大limit件を返す。
func (s *Service) List(ctx context.Context, paginate bool, page, limit int) ([]*model.Article, *model.Pagination, error) {
	if !paginate {
		articles, err := s.articleRepo.List(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list articles: %w", err)
		}
		return articles, nil, nil
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.articleRepo.Count(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count articles: %w", err)
	}

	offset := (page - 1) * limit
	articles, err := s.articleRepo.ListPage(ctx, offset, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list articles: %w", err)
	}

	pagination := &model.Pagination{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  (total + limit - 1) / limit,
		HasNextPage: page*limit < total,
		HasPrevPage: page > 1,
	}

	return articles, pagination, nil
}

// GetByID は指定IDの記事を返す。
// IDが不正な形式の場合も、レコードが存在するかどうかを外部に漏らさないため404を返す。
func (s *Service) GetByID(ctx context.Context, id string) (*model.Article, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewArticleNotFoundError()
	}

	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find article: %w", err)
	}
	if article == nil {
		return nil, model.NewArticleNotFoundError()
	}

	return article, nil
}

// Update は記事を部分更新する。title/contentのうち渡されたフィールドのみ上書きする。
// 両方とも未指定の場合は400を返す。
func (s *Service) Update(ctx context.Context, id string, title, content *string) (*model.Article, error) {
	if title == nil && content == nil {
		return nil, model.NewUpdateFieldsRequiredError()
	}

	article, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		article.Title = s.sanitizer.SanitizeTitle(*title)
	}
	if content != nil {
		article.Content = s.sanitizer.SanitizeContent(*content)
	}
	article.UpdatedAt = time.Now()

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	return article, nil
}

// Delete は記事を削除し、削除したレコードを返す。
func (s *Service) Delete(ctx context.Context, id string) (*model.Article, error) {
	article, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.articleRepo.DeleteByID(ctx, article.ID); err != nil {
		return nil, fmt.Errorf("failed to delete article: %w", err)
	}

	return article, nil
}
