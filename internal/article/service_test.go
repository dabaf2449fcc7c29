package article

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/kenta/pressbox/internal/model"
	"github.com/kenta/pressbox/internal/security"
)

// --- モック ---

type mockArticleRepo struct {
	createFn     func(ctx context.Context, article *model.Article) error
	findByIDFn   func(ctx context.Context, id string) (*model.Article, error)
	listFn       func(ctx context.Context) ([]*model.Article, error)
	listPageFn   func(ctx context.Context, offset, limit int) ([]*model.Article, error)
	countFn      func(ctx context.Context) (int, error)
	updateFn     func(ctx context.Context, article *model.Article) error
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockArticleRepo) Create(ctx context.Context, article *model.Article) error {
	if m.createFn != nil {
		return m.createFn(ctx, article)
	}
	return nil
}
func (m *mockArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockArticleRepo) List(ctx context.Context) ([]*model.Article, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockArticleRepo) ListPage(ctx context.Context, offset, limit int) ([]*model.Article, error) {
	if m.listPageFn != nil {
		return m.listPageFn(ctx, offset, limit)
	}
	return nil, nil
}
func (m *mockArticleRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}
func (m *mockArticleRepo) Update(ctx context.Context, article *model.Article) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, article)
	}
	return nil
}
func (m *mockArticleRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockUploader struct {
	objectKeyFn func(filename string) string
	uploadFn    func(ctx context.Context, data []byte, key, contentType string) (string, error)
}

func (m *mockUploader) ObjectKey(filename string) string {
	if m.objectKeyFn != nil {
		return m.objectKeyFn(filename)
	}
	return "1700000000000_" + filename
}
func (m *mockUploader) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, data, key, contentType)
	}
	return "https://bucket.s3.ap-northeast-1.amazonaws.com/" + key, nil
}

func newTestService(repo *mockArticleRepo, uploader *mockUploader) *Service {
	return NewService(repo, uploader, security.NewContentSanitizer())
}

func statusCodeOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T: %v", err, err)
	}
	return apiErr.StatusCode
}

const validID = "8b9296b1-44e4-4e0e-aaa4-59b1c460e783"

// --- Create ---

func TestCreate_WithoutImage(t *testing.T) {
	var saved *model.Article
	repo := &mockArticleRepo{
		createFn: func(ctx context.Context, article *model.Article) error {
			saved = article
			return nil
		},
	}

	svc := newTestService(repo, &mockUploader{})

	article, err := svc.Create(context.Background(), "Hello", "<p>World</p>", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil {
		t.Fatal("expected article to be persisted")
	}
	if article.ImageURL != nil {
		t.Errorf("ImageURL = %v, want nil", *article.ImageURL)
	}
	if article.ID == "" {
		t.Error("expected a generated ID")
	}
	if article.Content != "<p>World</p>" {
		t.Errorf("content = %q, want allowed tags preserved", article.Content)
	}
}

func TestCreate_WithImage_UploadsFirst(t *testing.T) {
	var uploadedKey string
	uploader := &mockUploader{
		uploadFn: func(ctx context.Context, data []byte, key, contentType string) (string, error) {
			uploadedKey = key
			return "https://bucket.s3.ap-northeast-1.amazonaws.com/" + key, nil
		},
	}
	repo := &mockArticleRepo{}

	svc := newTestService(repo, uploader)

	article, err := svc.Create(context.Background(), "Title", "Body", &UploadFile{
		Filename:    "photo.png",
		ContentType: "image/png",
		Data:        []byte{0x89, 0x50},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.ImageURL == nil {
		t.Fatal("expected ImageURL to be set")
	}
	want := "https://bucket.s3.ap-northeast-1.amazonaws.com/" + uploadedKey
	if *article.ImageURL != want {
		t.Errorf("ImageURL = %q, want %q", *article.ImageURL, want)
	}
}

// 画像アップロードに失敗した場合、記事レコードは作成されない。
func TestCreate_UploadFailure_AbortsCreation(t *testing.T) {
	uploader := &mockUploader{
		uploadFn: func(ctx context.Context, data []byte, key, contentType string) (string, error) {
			return "", errors.New("storage unavailable")
		},
	}
	repo := &mockArticleRepo{
		createFn: func(ctx context.Context, article *model.Article) error {
			t.Error("Create should not be called when the upload fails")
			return nil
		},
	}

	svc := newTestService(repo, uploader)

	_, err := svc.Create(context.Background(), "Title", "Body", &UploadFile{Filename: "x.png", ContentType: "image/png"})
	if err == nil {
		t.Fatal("expected error from upload failure")
	}
}

func TestCreate_MissingFields_ReturnsValidationError(t *testing.T) {
	svc := newTestService(&mockArticleRepo{}, &mockUploader{})

	for _, tc := range []struct{ title, content string }{
		{"", "body"},
		{"title", ""},
		{"", ""},
	} {
		_, err := svc.Create(context.Background(), tc.title, tc.content, nil)
		if got := statusCodeOf(t, err); got != http.StatusBadRequest {
			t.Errorf("Create(%q, %q) status = %d, want %d", tc.title, tc.content, got, http.StatusBadRequest)
		}
	}
}

func TestCreate_SanitizesScriptTags(t *testing.T) {
	var saved *model.Article
	repo := &mockArticleRepo{
		createFn: func(ctx context.Context, article *model.Article) error {
			saved = article
			return nil
		},
	}

	svc := newTestService(repo, &mockUploader{})

	_, err := svc.Create(context.Background(), "<b>Title</b>", `<p>ok</p><script>alert(1)</script>`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Title != "Title" {
		t.Errorf("title = %q, want tags stripped", saved.Title)
	}
	if saved.Content != "<p>ok</p>" {
		t.Errorf("content = %q, want script removed", saved.Content)
	}
}

// --- List ---

func TestList_Unpaginated(t *testing.T) {
	articles := []*model.Article{{ID: "a1"}, {ID: "a2"}}
	repo := &mockArticleRepo{
		listFn: func(ctx context.Context) ([]*model.Article, error) {
			return articles, nil
		},
		countFn: func(ctx context.Context) (int, error) {
			t.Error("Count should not be called for an unpaginated list")
			return 0, nil
		},
	}

	svc := newTestService(repo, &mockUploader{})

	got, pagination, err := svc.List(context.Background(), false, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	if pagination != nil {
		t.Errorf("pagination = %+v, want nil", pagination)
	}
}

// 15件中のpage=2,limit=10は残り5件を返し、次のページは存在しない。
func TestList_PaginationMath(t *testing.T) {
	repo := &mockArticleRepo{
		countFn: func(ctx context.Context) (int, error) { return 15, nil },
		listPageFn: func(ctx context.Context, offset, limit int) ([]*model.Article, error) {
			if offset != 10 || limit != 10 {
				t.Errorf("offset/limit = %d/%d, want 10/10", offset, limit)
			}
			page := make([]*model.Article, 5)
			for i := range page {
				page[i] = &model.Article{ID: fmt.Sprintf("a%d", i)}
			}
			return page, nil
		},
	}

	svc := newTestService(repo, &mockUploader{})

	got, pagination, err := svc.List(context.Background(), true, 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("len = %d, want 5", len(got))
	}
	if pagination == nil {
		t.Fatal("expected pagination metadata")
	}
	want := model.Pagination{Total: 15, Page: 2, Limit: 10, TotalPages: 2, HasNextPage: false, HasPrevPage: true}
	if *pagination != want {
		t.Errorf("pagination = %+v, want %+v", *pagination, want)
	}
}

func TestList_InvalidPageAndLimit_FallBackToDefaults(t *testing.T) {
	repo := &mockArticleRepo{
		countFn: func(ctx context.Context) (int, error) { return 3, nil },
		listPageFn: func(ctx context.Context, offset, limit int) ([]*model.Article, error) {
			if offset != 0 || limit != 10 {
				t.Errorf("offset/limit = %d/%d, want 0/10", offset, limit)
			}
			return nil, nil
		},
	}

	svc := newTestService(repo, &mockUploader{})

	_, pagination, err := svc.List(context.Background(), true, 0, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pagination.Page != 1 || pagination.Limit != 10 {
		t.Errorf("page/limit = %d/%d, want 1/10", pagination.Page, pagination.Limit)
	}
}

// --- GetByID ---

func TestGetByID_Found(t *testing.T) {
	repo := &mockArticleRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Article, error) {
			return &model.Article{ID: id, Title: "Hello"}, nil
		},
	}

	svc := newTestService(repo, &mockUploader{})

	article, err := svc.GetByID(context.Background(), validID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Title != "Hello" {
		t.Errorf("title = %q, want %q", article.Title, "Hello")
	}
}

func TestGetByID_AbsentOrMalformed_ReturnsNotFound(t *testing.T) {
	svc := newTestService(&mockArticleRepo{}, &mockUploader{})

	for _, id := range []string{validID, "not-a-uuid", ""} {
		_, err := svc.GetByID(context.Background(), id)
		if got := statusCodeOf(t, err); got != http.StatusNotFound {
			t.Errorf("GetByID(%q) status = %d, want %d", id, got, http.StatusNotFound)
		}
	}
}

// --- Update ---

func TestUpdate_PartialTitleOnly_LeavesContentUnchanged(t *testing.T) {
	var updated *model.Article
	repo := &mockArticleRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Article, error) {
			return &model.Article{ID: id, Title: "old title", Content: "old content", UpdatedAt: time.Now().Add(-time.Hour)}, nil
		},
		updateFn: func(ctx context.Context, article *model.Article) error {
			updated = article
			return nil
		},
	}

	svc := newTestService(repo, &mockUploader{})

	title := "new title"
	article, err := svc.Update(context.Background(), validID, &title, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected update to be persisted")
	}
	if article.Title != "new title" {
		t.Errorf("title = %q, want %q", article.Title, "new title")
	}
	if article.Content != "old content" {
		t.Errorf("content = %q, want unchanged", article.Content)
	}
}

func TestUpdate_NoFields_ReturnsValidationError(t *testing.T) {
	svc := newTestService(&mockArticleRepo{}, &mockUploader{})

	_, err := svc.Update(context.Background(), validID, nil, nil)
	if got := statusCodeOf(t, err); got != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", got, http.StatusBadRequest)
	}
}

func TestUpdate_AbsentID_ReturnsNotFound(t *testing.T) {
	svc := newTestService(&mockArticleRepo{}, &mockUploader{})

	title := "whatever"
	_, err := svc.Update(context.Background(), validID, &title, nil)
	if got := statusCodeOf(t, err); got != http.StatusNotFound {
		t.Errorf("status = %d, want %d", got, http.StatusNotFound)
	}
}

// --- Delete ---

func TestDelete_ReturnsDeletedRecord(t *testing.T) {
	deleted := ""
	repo := &mockArticleRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Article, error) {
			return &model.Article{ID: id, Title: "doomed"}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	svc := newTestService(repo, &mockUploader{})

	article, err := svc.Delete(context.Background(), validID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != validID {
		t.Errorf("deleted id = %q, want %q", deleted, validID)
	}
	if article.Title != "doomed" {
		t.Errorf("title = %q, want the deleted record's fields", article.Title)
	}
}

func TestDelete_Absent_ReturnsNotFound(t *testing.T) {
	svc := newTestService(&mockArticleRepo{}, &mockUploader{})

	_, err := svc.Delete(context.Background(), validID)
	if got := statusCodeOf(t, err); got != http.StatusNotFound {
		t.Errorf("status = %d, want %d", got, http.StatusNotFound)
	}
}
